package parser

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/lexer"
	"gopkg.in/yaml.v3"
)

// TestSpec is a test case from parse.yaml.
type TestSpec struct {
	Name         string     `yaml:"name"`
	Input        string     `yaml:"input"`
	TypedefNames []string   `yaml:"typedef_names"`
	Output       string     `yaml:"output"`
	Typedefs     []string   `yaml:"typedefs"`
	Error        *ErrorSpec `yaml:"error"`
}

// ErrorSpec is the expected diagnostic of a failing case.
type ErrorSpec struct {
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

// TestFile is the parse.yaml file structure.
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.TypedefNames = tc.TypedefNames
			res, err := ParseString(tc.Input, opts)

			if tc.Error != nil {
				if err == nil {
					t.Fatalf("expected a parse error, got:\n%s", cabs.String(res.Unit))
				}
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("expected ErrSyntax, got %v", err)
				}
				if res.Unit != nil {
					t.Error("expected no translation unit")
				}
				if len(res.Diag.Errors) != 1 {
					t.Fatalf("expected 1 diagnostic, got %v", res.Diag.Errors)
				}
				d := res.Diag.Errors[0]
				if d.Pos.Line != tc.Error.Line || d.Pos.Column != tc.Error.Column {
					t.Errorf("position: expected %d:%d, got %d:%d", tc.Error.Line, tc.Error.Column, d.Pos.Line, d.Pos.Column)
				}
				if d.Msg != tc.Error.Message {
					t.Errorf("message: expected %q, got %q", tc.Error.Message, d.Msg)
				}
				return
			}

			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got := cabs.String(res.Unit); got != tc.Output {
				t.Errorf("output mismatch\nexpected:\n%s\ngot:\n%s", tc.Output, got)
			}
			for _, name := range tc.Typedefs {
				if !slices.Contains(res.Typedefs, name) {
					t.Errorf("expected typedef-name %q in %v", name, res.Typedefs)
				}
			}
		})
	}
}

func newTestParser(t *testing.T, src string, typedefs ...string) *Parser {
	t.Helper()
	l := lexer.New("test.c", src, nil)
	if !l.Tokenize() {
		t.Fatalf("tokenize %q: %v", src, l.Diag().Err())
	}
	l.Fixup()
	opts := DefaultOptions()
	opts.TypedefNames = typedefs
	return New(l, opts)
}

func mustParse(t *testing.T, src string) *cabs.TranslationUnit {
	t.Helper()
	res, err := ParseString(src, DefaultOptions())
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return res.Unit
}

func parseExpr(t *testing.T, src string, typedefs ...string) *cabs.Expression {
	t.Helper()
	p := newTestParser(t, src, typedefs...)
	e := p.visitExpression()
	if e == nil {
		t.Fatalf("expression %q did not parse", src)
	}
	if !p.c.EOF() {
		t.Fatalf("expression %q stopped at %q", src, p.text())
	}
	return e
}

func TestMainFunction(t *testing.T) {
	tu := mustParse(t, "int main(void) { return 0; }")
	if len(tu.Decls) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(tu.Decls))
	}
	f, ok := tu.Decls[0].(*cabs.FunctionDefinition)
	if !ok {
		t.Fatalf("expected FunctionDefinition, got %T", tu.Decls[0])
	}
	if name := f.Declarator.Name(); name != "main" {
		t.Errorf("expected main, got %q", name)
	}
	fn := f.Declarator.Direct
	if fn.Kind != cabs.DirFunc || fn.Params == nil {
		t.Fatalf("expected a prototype, got %v", fn.Kind)
	}
	params := fn.Params.Params.Params
	if len(params) != 1 || !params[0].Specs.Has("void") || params[0].Declarator != nil || params[0].Abstract != nil {
		t.Errorf("expected a lone void parameter, got %s", cabs.String(f.Declarator))
	}
	items := f.Body.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 block item, got %d", len(items))
	}
	ret, ok := items[0].Stmt.(*cabs.JumpStatement)
	if !ok || ret.Kind != cabs.JumpReturn {
		t.Fatalf("expected return, got %T", items[0].Stmt)
	}
}

func TestTypedefNameBecomesSpecifier(t *testing.T) {
	tu := mustParse(t, "typedef int myint; myint x;")
	d := tu.Decls[1].(*cabs.Declaration)
	spec := d.Specs.Specs[0]
	if spec.Kind != cabs.SpecType || spec.Type.Kind != cabs.TypeTypedefName || spec.Type.Name != "myint" {
		t.Errorf("expected typedef-name specifier, got %+v", spec)
	}
	if name := d.Inits.Decls[0].Declarator.Name(); name != "x" {
		t.Errorf("expected declarator x, got %q", name)
	}
}

func TestStructSpecifier(t *testing.T) {
	tu := mustParse(t, "struct S { int a; char b; };")
	d := tu.Decls[0].(*cabs.Declaration)
	if d.Inits != nil {
		t.Errorf("expected no declarators")
	}
	s := d.Specs.Specs[0].Type.StructOrUnion
	if s == nil || s.Tag != "S" || !s.HasBody {
		t.Fatalf("expected struct S with a body, got %+v", s)
	}
	if len(s.Decls.Decls) != 2 {
		t.Errorf("expected 2 struct declarations, got %d", len(s.Decls.Decls))
	}
}

func TestInitializerPrecedence(t *testing.T) {
	tu := mustParse(t, "int a = 1 + 2 * 3;")
	init := tu.Decls[0].(*cabs.Declaration).Inits.Decls[0].Init
	if got := cabs.ParenString(init.Expr); got != "(1 + (2 * 3))" {
		t.Errorf("expected (1 + (2 * 3)), got %s", got)
	}

	add := init.Expr.Cond.Cond.Operands[0].Operands[0].Operands[0].Operands[0].Operands[0].Rhs.Rhs.Rhs
	if add.Prev == nil || add.Op != "+" {
		t.Fatalf("expected + at the root, got %s", cabs.String(add))
	}
	if got := cabs.String(add.Prev); got != "1" {
		t.Errorf("left operand: expected 1, got %s", got)
	}
	mul := add.Rhs
	if mul.Prev == nil || mul.Op != "*" {
		t.Fatalf("expected * on the right, got %s", cabs.String(mul))
	}
	if l, r := cabs.String(mul.Prev), cabs.String(mul.Rhs); l != "2" || r != "3" {
		t.Errorf("expected 2 * 3, got %s * %s", l, r)
	}
}

func TestExpressionParens(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a = b = c", "(a = (b = c))"},
		{"x = y += 2", "(x = (y += 2))"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"a || b && c", "(a || (b && c))"},
		{"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"a == b < c", "(a == (b < c))"},
		{"a < b > c", "((a < b) > c)"},
		{"a << 1 + 2", "(a << (1 + 2))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"-x * y", "(-x * y)"},
		{"!a && ~b", "(!a && ~b)"},
		{"&*p", "&*p"},
		{"++i + j--", "(++i + j--)"},
		{"sizeof x + sizeof(int)", "(sizeof x + sizeof(int))"},
		{"sizeof(int *[3])", "sizeof(int *[3])"},
		{"_Alignof(double)", "_Alignof(double)"},
		{"(int)x + 1", "((int)x + 1)"},
		{"(unsigned long)(char)c", "(unsigned long)(char)c"},
		{"a[i].f->g(1, 2)++", "a[i].f->g(1, 2)++"},
		{"(struct P){1, 2}.x", "(struct P){1, 2}.x"},
		{"(int[]){1, 2, }", "(int []){1, 2}"},
		{"f(a, b), c", "f(a, b), c"},
		{"f()", "f()"},
		{"'a' + L'b'", "('a' + L'b')"},
		{"1.5f * 2UL", "(1.5f * 2UL)"},
		{"_Generic(x, int: 1, default: 0)", "_Generic(x, int: 1, default: 0)"},
		{"(a + b) * c", "(((a + b)) * c)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseExpr(t, tt.input)
			if got := cabs.ParenString(e); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCastNeedsTypedefName(t *testing.T) {
	if got := cabs.ParenString(parseExpr(t, "(T) - 1", "T")); got != "(T)-1" {
		t.Errorf("with typedef: expected (T)-1, got %s", got)
	}
	if got := cabs.ParenString(parseExpr(t, "(T) - 1")); got != "((T) - 1)" {
		t.Errorf("without typedef: expected ((T) - 1), got %s", got)
	}
}

func TestStringConcatenation(t *testing.T) {
	p := newTestParser(t, `"ab" "cd"`)
	prim := p.visitPrimaryExpression()
	if prim == nil || prim.Kind != cabs.PrimString {
		t.Fatalf("expected a string, got %+v", prim)
	}
	if prim.String.Text != `"abcd"` || prim.String.Fix != "" {
		t.Errorf(`expected "abcd", got %s%s`, prim.String.Fix, prim.String.Text)
	}
	if !p.c.EOF() {
		t.Errorf("expected both strings consumed, stopped at %q", p.text())
	}
}

func TestWideStringStopsAtNarrow(t *testing.T) {
	p := newTestParser(t, `L"ab" L"c\n" "cd"`)
	prim := p.visitPrimaryExpression()
	if prim == nil || prim.Kind != cabs.PrimString {
		t.Fatalf("expected a string, got %+v", prim)
	}
	if prim.String.Fix != "L" || prim.String.Text != `"abc\n"` {
		t.Errorf(`expected L"abc\n", got %s%s`, prim.String.Fix, prim.String.Text)
	}
	if p.typ() != lexer.TokenString || p.text() != `"cd"` || p.c.Fix() != "" {
		t.Errorf(`expected the narrow "cd" left over, got %s %q`, p.typ(), p.text())
	}
}

func TestFailedAttemptRestoresNames(t *testing.T) {
	p := newTestParser(t, "typedef int T; enum { K }; ;")
	d := attempt(p, func() *cabs.Declaration {
		if p.visitDeclaration() == nil || p.visitDeclaration() == nil {
			return nil
		}
		if !p.nextIf("never") {
			return nil
		}
		return &cabs.Declaration{}
	})
	if d != nil {
		t.Fatal("expected the attempt to fail")
	}
	if p.typedefs.has("T") {
		t.Error("typedef T survived a failed attempt")
	}
	if p.enumConsts.has("K") {
		t.Error("enum constant K survived a failed attempt")
	}
	if p.c.Index() != 0 {
		t.Errorf("expected cursor at 0, got %d", p.c.Index())
	}

	// The same declarations succeed for real.
	if p.visitDeclaration() == nil || p.visitDeclaration() == nil {
		t.Fatal("declarations did not parse")
	}
	if !p.typedefs.has("T") || !p.enumConsts.has("K") {
		t.Error("expected T and K to be declared")
	}
}

func TestNameSetRollback(t *testing.T) {
	s := newNameSet("seeded")
	m := s.mark()
	s.add("a")
	s.add("seeded")
	s.add("b")
	s.rollback(m)
	if !s.has("seeded") {
		t.Error("seeded name was rolled back")
	}
	if s.has("a") || s.has("b") {
		t.Error("added names survived rollback")
	}
	if got := s.sorted(); !slices.Equal(got, []string{"seeded"}) {
		t.Errorf("expected [seeded], got %v", got)
	}
}

func TestTypedefScopedToFunctionBody(t *testing.T) {
	res, err := ParseString("void f(void) { typedef int T; T x; }", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(res.Typedefs, "T") {
		t.Errorf("typedef T leaked out of the body: %v", res.Typedefs)
	}
	for _, name := range []string{"__builtin_va_list", "va_list"} {
		if !slices.Contains(res.Typedefs, name) {
			t.Errorf("expected builtin typedef %s", name)
		}
	}
}

func TestEnumeratorListLeavesTrailingComma(t *testing.T) {
	p := newTestParser(t, "A, B, }")
	list := p.visitEnumeratorList()
	if list == nil || len(list.Enumerators) != 2 {
		t.Fatalf("expected 2 enumerators, got %+v", list)
	}
	if p.text() != "," {
		t.Errorf("expected cursor on the trailing comma, got %q", p.text())
	}
}

func TestStructPack(t *testing.T) {
	src := "#pragma pack(push, 1)\nstruct A { char c; int i; };\n#pragma pack(pop)\nstruct B { char c; int i; };\n"
	tests := []struct {
		defaultPack int
		a, b        int
	}{
		{0, 1, lexer.DefaultPack},
		{4, 1, 4},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.Pack = tt.defaultPack
		res, err := ParseString(src, opts)
		if err != nil {
			t.Fatal(err)
		}
		a := res.Unit.Decls[0].(*cabs.Declaration).Specs.Specs[0].Type.StructOrUnion
		b := res.Unit.Decls[1].(*cabs.Declaration).Specs.Specs[0].Type.StructOrUnion
		if a.Pack != tt.a || b.Pack != tt.b {
			t.Errorf("default %d: expected packs %d/%d, got %d/%d", tt.defaultPack, tt.a, tt.b, a.Pack, b.Pack)
		}
	}
}

func TestAttributeValues(t *testing.T) {
	tu := mustParse(t, "int logf_(const char *f, ...) __attribute__((format (printf, 1, 2), aligned(__alignof__(long)), __nothrow__));")
	d := tu.Decls[0].(*cabs.Declaration)
	attrs := d.Inits.Decls[0].Attrs
	expected := cabs.Attributes{"format": "printf,1,2", "aligned": "alignof(long)", "nothrow": ""}
	for name, value := range expected {
		got, ok := attrs[name]
		if !ok {
			t.Errorf("missing attribute %s in %v", name, attrs)
			continue
		}
		if got != value {
			t.Errorf("%s: expected %q, got %q", name, value, got)
		}
	}
}

func TestDeclspecBeforeAttribute(t *testing.T) {
	p := newTestParser(t, `__declspec(align(16)) __attribute__((unused)) int`)
	attrs := cabs.Attributes{}
	if !p.scanAttribute(attrs) || !p.scanAttribute(attrs) {
		t.Fatal("expected two attributes")
	}
	if attrs["align"] != "(16)" {
		t.Errorf("declspec value: expected (16), got %q", attrs["align"])
	}
	if _, ok := attrs["unused"]; !ok {
		t.Errorf("missing unused in %v", attrs)
	}
	if p.text() != "int" {
		t.Errorf("expected cursor on int, got %q", p.text())
	}
}

func TestUnbalancedAttributeFails(t *testing.T) {
	p := newTestParser(t, "__attribute__((packed)")
	if p.scanAttribute(cabs.Attributes{}) {
		t.Fatal("expected failure")
	}
	if p.c.Index() != 0 {
		t.Errorf("expected cursor restored, got %d", p.c.Index())
	}
}

func TestSyntaxAndLexErrors(t *testing.T) {
	res, err := ParseString("int x = ;", DefaultOptions())
	if !errors.Is(err, ErrSyntax) || res.Unit != nil || !res.Diag.HasErrors() {
		t.Errorf("expected a syntax error, got %v", err)
	}

	res, err = ParseString("int a = `;", DefaultOptions())
	if !errors.Is(err, ErrLex) {
		t.Errorf("expected a lexical error, got %v", err)
	}
	if res.Unit != nil || res.Tokens != nil {
		t.Error("expected no unit and no tokens after a lexical error")
	}
}

// A typedef name stays a type name for the rest of the unit, even after a
// block declares an object with the same name.
func TestObjectDoesNotShadowTypedefName(t *testing.T) {
	body := "void f(void){ int T7 = 3; T7 = 4; }"
	if _, err := ParseString(body, DefaultOptions()); err != nil {
		t.Fatalf("expected %q to parse, got %v", body, err)
	}
	_, err := ParseString("typedef int T7; "+body, DefaultOptions())
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestErrorNamesFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Filename = "bad.c"
	_, err := ParseString("int x = ;", opts)
	if err == nil || !strings.Contains(err.Error(), "bad.c:1:9") {
		t.Errorf("expected the error to name bad.c:1:9, got %v", err)
	}
}

// Nested parentheses are retried at the assignment and cast levels, so the
// number of attempts grows geometrically with depth.
func TestBacktrackingCost(t *testing.T) {
	attempts := func(depth int) int {
		src := "int x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
		l := lexer.New("nest.c", src, nil)
		if !l.Tokenize() {
			t.Fatalf("tokenize: %v", l.Diag().Err())
		}
		p := New(l, DefaultOptions())
		if _, err := p.Parse(); err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		return p.Attempts()
	}
	shallow, deep := attempts(6), attempts(12)
	if deep <= 8*shallow {
		t.Errorf("expected geometric growth, got %d attempts at depth 6 and %d at depth 12", shallow, deep)
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cparse.yaml")
	config := "filename: win.c\ntypedef_names: [HANDLE, DWORD]\npack: 4\nmodel: llp64\n"
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Filename != "win.c" || opts.Pack != 4 || opts.Model != "llp64" {
		t.Errorf("unexpected options %+v", opts)
	}
	if !slices.Equal(opts.TypedefNames, []string{"HANDLE", "DWORD"}) {
		t.Errorf("unexpected typedef names %v", opts.TypedefNames)
	}

	partial := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(partial, []byte("pack: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if opts, err = LoadOptions(partial); err != nil {
		t.Fatal(err)
	}
	if opts.Model != "lp64" || opts.Filename != "<stdin>" {
		t.Errorf("expected defaults to survive, got %+v", opts)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("pack: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(bad); err == nil {
		t.Error("expected an error for a negative pack")
	}
	if _, err := LoadOptions(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
