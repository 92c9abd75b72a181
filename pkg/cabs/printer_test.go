package cabs

import "testing"

func ident(name string) *PostfixExpression {
	return &PostfixExpression{Kind: PostPrimary, Primary: &PrimaryExpression{Kind: PrimIdent, Ident: name}}
}

func castOf(name string) *CastExpression {
	return &CastExpression{Unary: &UnaryExpression{Kind: UnaryPostfix, Postfix: ident(name)}}
}

func intSpecs(names ...string) *DeclarationSpecifiers {
	s := &DeclarationSpecifiers{}
	for _, n := range names {
		s.Specs = append(s.Specs, &DeclarationSpecifier{Kind: SpecType, Type: &TypeSpecifier{Kind: TypeKeyword, Name: n}})
	}
	return s
}

func TestPrintChain(t *testing.T) {
	a := &MultiplicativeExpression{Rhs: castOf("a")}
	ab := &MultiplicativeExpression{Prev: a, Op: "*", Rhs: castOf("b")}
	abc := &MultiplicativeExpression{Prev: ab, Op: "/", Rhs: castOf("c")}

	if got := String(abc); got != "a * b / c" {
		t.Errorf("String: got %q", got)
	}
	if got := ParenString(abc); got != "((a * b) / c)" {
		t.Errorf("ParenString: got %q", got)
	}
	if got := ParenString(a); got != "a" {
		t.Errorf("single operand: got %q", got)
	}
}

func TestPrintAttrs(t *testing.T) {
	d := &Declaration{
		Specs: intSpecs("int"),
		Inits: &InitDeclaratorList{Decls: []*InitDeclarator{{
			Declarator: &Declarator{
				Attrs:  Attributes{"stdcall": ""},
				Direct: &DirectDeclarator{Kind: DirIdent, Ident: "f"},
			},
			Attrs: Attributes{"section": `".text"`, "asm": `"_f"`, "unused": ""},
		}}},
	}
	want := "int __stdcall f __asm__(\"_f\") __attribute__((section(\".text\"))) __attribute__((unused));\n"
	if got := String(d); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintNestedDeclarator(t *testing.T) {
	// *const (*fp)[*]
	inner := &Declarator{
		Pointer: &Pointer{},
		Direct:  &DirectDeclarator{Kind: DirIdent, Ident: "fp"},
	}
	d := &Declarator{
		Pointer: &Pointer{Quals: &TypeQualifierList{Quals: []*TypeQualifier{{Name: "const"}}}},
		Direct: &DirectDeclarator{
			Kind:  DirArray,
			Child: &DirectDeclarator{Kind: DirNested, Nested: inner},
			Star:  true,
		},
	}
	if got := String(d); got != "*const (*fp)[*]" {
		t.Errorf("got %q", got)
	}
	if got := d.Name(); got != "fp" {
		t.Errorf("Name: got %q", got)
	}
}

func TestPrintAsm(t *testing.T) {
	tests := []struct {
		stmt *AsmStatement
		want string
	}{
		{&AsmStatement{Keyword: "__asm__", Text: `( "nop" )`}, "__asm__ ( \"nop\" );\n"},
		{&AsmStatement{Keyword: "__asm", Text: "{ int 3 }"}, "__asm { int 3 }\n"},
	}
	for _, tt := range tests {
		if got := String(tt.stmt); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestPrintBody(t *testing.T) {
	s := &SelectionStatement{
		Kind: SelIf,
		Cond: &Expression{},
		Then: &CompoundStatement{},
		Else: &JumpStatement{Kind: JumpBreak},
	}
	want := "if ()\n{\n}\nelse\n  break;\n"
	if got := String(s); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDeclarationSpecifiersHas(t *testing.T) {
	s := intSpecs("unsigned", "int")
	s.Specs = append(s.Specs,
		&DeclarationSpecifier{Kind: SpecStorage, Storage: &StorageClassSpecifier{Name: "static"}},
		&DeclarationSpecifier{Kind: SpecFunction, Function: &FunctionSpecifier{Attrs: Attributes{"inline": ""}}},
	)
	for _, name := range []string{"unsigned", "int", "static", "inline"} {
		if !s.Has(name) {
			t.Errorf("expected %s", name)
		}
	}
	if s.Has("long") {
		t.Error("unexpected long")
	}
	var none *DeclarationSpecifiers
	if none.Has("int") {
		t.Error("nil specifiers have nothing")
	}
}

func TestKindNames(t *testing.T) {
	if got := PostArrow.String(); got != "arrow" {
		t.Errorf("PostArrow: got %q", got)
	}
	if got := UnarySizeofType.String(); got != "sizeof_type" {
		t.Errorf("UnarySizeofType: got %q", got)
	}
	if got := JumpKind(42).String(); got != "?" {
		t.Errorf("out of range: got %q", got)
	}
}

func TestCompoundItemsNil(t *testing.T) {
	var c *CompoundStatement
	if c.Items() != nil {
		t.Error("nil compound has no items")
	}
	if (&CompoundStatement{}).Items() != nil {
		t.Error("empty compound has no items")
	}
}
