package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raymyers/cparse/pkg/parser"
	"github.com/raymyers/cparse/pkg/typegen"
)

// resetDebugFlags resets every package-level flag variable between tests.
func resetDebugFlags() {
	dParse, dTokens, dTypes = false, false, false
	verbose, configFile, modelName, typedefNames = false, "", "", nil
	useCPP, includePaths, defineFlags, undefineFlags = false, nil, nil, nil
}

// writeFile creates name in a fresh temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout, stderr and
// the command's error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetDebugFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(normalizeFlags(args))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("expected version in output, got %q", out)
	}
}

func TestDebugFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	for _, flagName := range append(slices.Clone(debugFlagNames), "verbose", "config", "model", "typedef", "cpp", "define", "include", "undefine") {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

func TestNormalizeFlags(t *testing.T) {
	got := normalizeFlags([]string{"-dparse", "-dtokens", "-dtypes", "-D", "X", "-dother", "file.c"})
	want := []string{"--dparse", "--dtokens", "--dtypes", "-D", "X", "-dother", "file.c"}
	if !slices.Equal(got, want) {
		t.Errorf("normalizeFlags = %v, want %v", got, want)
	}
}

func TestNoArgsShowsHelp(t *testing.T) {
	out, _, err := execute(t)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cparse [flags] file") {
		t.Errorf("expected usage, got %q", out)
	}
}

func TestCompileSucceeds(t *testing.T) {
	testFile := writeFile(t, "ok.c", "typedef int myint; myint x; int main(void) { return x; }")
	out, errOut, err := execute(t, testFile)
	if err != nil {
		t.Fatalf("expected no error, got %v (%s)", err, out)
	}
	if out != "" || errOut != "" {
		t.Errorf("expected no output, got %q / %q", out, errOut)
	}
}

func TestVerbose(t *testing.T) {
	testFile := writeFile(t, "ok.c", "int x;")
	_, errOut, err := execute(t, "-v", testFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"cparse: lexing and parsing", "cparse: translating declarations...", "cparse: done."} {
		if !strings.Contains(errOut, want) {
			t.Errorf("expected %q in %q", want, errOut)
		}
	}
}

func TestDParseFlag(t *testing.T) {
	testFile := writeFile(t, "test.c", "int main() { return 0; }")
	out, _, err := execute(t, "-dparse", testFile)
	if err != nil {
		t.Errorf("expected no error for -dparse, got %v", err)
	}
	if !strings.Contains(out, "int main()") {
		t.Errorf("expected output to contain 'int main()', got %q", out)
	}
	if !strings.Contains(out, "return 0") {
		t.Errorf("expected output to contain 'return 0', got %q", out)
	}

	parsed, err := os.ReadFile(parsedOutputFilename(testFile))
	if err != nil {
		t.Fatalf("expected %s to be written: %v", parsedOutputFilename(testFile), err)
	}
	if string(parsed) != out {
		t.Errorf("file and stdout differ:\n%s\n---\n%s", parsed, out)
	}
}

func TestParsedOutputFilename(t *testing.T) {
	tests := map[string]string{
		"a.c":     "a.parsed.c",
		"dir/b.i": "dir/b.parsed.c",
		"c.h":     "c.h.parsed.c",
	}
	for in, want := range tests {
		if got := parsedOutputFilename(in); got != want {
			t.Errorf("parsedOutputFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDTokensFlag(t *testing.T) {
	testFile := writeFile(t, "tok.c", "int x = 42u;")
	out, _, err := execute(t, "-dtokens", testFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		testFile + ":1:1: int (KEYWORD)",
		testFile + ":1:5: x (IDENT)",
		testFile + ":1:7: = (SYMBOL)",
		testFile + ":1:9: 42u (INT)",
		testFile + ":1:12: ; (SYMBOL)",
	}
	if !slices.Equal(lines, want) {
		t.Errorf("unexpected token dump:\n%s", out)
	}
}

func TestDTokensWithLineMarkers(t *testing.T) {
	testFile := writeFile(t, "pre.i", "# 10 \"orig.c\"\nint y;\n")
	out, _, err := execute(t, "-dtokens", testFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "orig.c:10:1: int (KEYWORD)") {
		t.Errorf("expected positions from the line marker, got %q", out)
	}
}

func TestDTypesFlag(t *testing.T) {
	testFile := writeFile(t, "types.c", "struct S { char c; int i; }; struct S v; enum { A = 3 };")
	out, _, err := execute(t, "-dtypes", "-DDEBUG", testFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"v: var struct S", "A: enum_value enum <anonymous>", "size: 8", `DEBUG: "1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in the type dump:\n%s", want, out)
		}
	}
}

func TestModelFlag(t *testing.T) {
	testFile := writeFile(t, "m.c", "struct S { long l[3]; } v;")
	out, _, err := execute(t, "-dtypes", "--model", "llp64", testFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name: llp64", "long_size: 4", "size: 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in the type dump:\n%s", want, out)
		}
	}

	_, errOut, err := execute(t, "--model", "pdp11", testFile)
	if err == nil {
		t.Fatal("expected an error for an unknown model")
	}
	if !strings.Contains(errOut, "pdp11") {
		t.Errorf("expected the model named in %q", errOut)
	}
}

func TestSyntaxError(t *testing.T) {
	testFile := writeFile(t, "bad.c", "int main( { }")
	out, _, err := execute(t, testFile)
	if !errors.Is(err, ErrDiagnostics) || !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if !strings.Contains(out, testFile+":1:") || !strings.Contains(out, "error: parse error") {
		t.Errorf("expected the diagnostic on stdout, got %q", out)
	}
}

func TestSemanticError(t *testing.T) {
	testFile := writeFile(t, "redef.c", "struct S { int a; }; struct S { int b; };")
	out, _, err := execute(t, testFile)
	if !errors.Is(err, typegen.ErrSemantic) {
		t.Fatalf("expected a semantic error, got %v", err)
	}
	if !strings.Contains(out, "redefinition of struct S") {
		t.Errorf("expected the diagnostic on stdout, got %q", out)
	}
}

func TestTypedefFlag(t *testing.T) {
	testFile := writeFile(t, "td.c", "size_t n; HANDLE h;")
	if _, _, err := execute(t, testFile); err == nil {
		t.Fatal("expected unknown type names to fail without --typedef")
	}
	out, _, err := execute(t, "-T", "size_t", "--typedef", "HANDLE", testFile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Count(out, "warning: unknown type name") != 2 {
		t.Errorf("expected two warnings, got %q", out)
	}
}

func TestConfigFile(t *testing.T) {
	config := writeFile(t, "cparse.yaml", "typedef_names: [u32]\npack: 1\n")
	testFile := writeFile(t, "cfg.c", "u32 n; struct P { char c; int i; } p;")
	out, _, err := execute(t, "--config", config, "-dtypes", testFile)
	if err != nil {
		t.Fatalf("expected no error, got %v (%s)", err, out)
	}
	if !strings.Contains(out, "size: 5") {
		t.Errorf("expected the configured pack to apply:\n%s", out)
	}

	_, errOut, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), testFile)
	if err == nil || !strings.Contains(errOut, "reading config") {
		t.Errorf("expected a config error, got %v / %q", err, errOut)
	}
}

func TestMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.c")
	_, errOut, err := execute(t, missing)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(errOut, "cparse: error reading") {
		t.Errorf("expected a read error, got %q", errOut)
	}
}

func TestCPPPreprocessedInputReadVerbatim(t *testing.T) {
	testFile := writeFile(t, "v.i", "int z;\n")
	out, _, err := execute(t, "--cpp", "-dparse", testFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "int z;") {
		t.Errorf("unexpected output %q", out)
	}
}
