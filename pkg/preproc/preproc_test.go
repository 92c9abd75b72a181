package preproc

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raymyers/cparse/pkg/ctypes"
)

func TestNeedsPreprocessing(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"a.c", true},
		{"dir/b.h", true},
		{"a.i", false},
		{"A.I", false},
		{"noext", true},
	}
	for _, tt := range tests {
		if got := NeedsPreprocessing(tt.file); got != tt.want {
			t.Errorf("NeedsPreprocessing(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestMacro(t *testing.T) {
	tests := []struct {
		def, name, value string
	}{
		{"DEBUG", "DEBUG", "1"},
		{"N=10", "N", "10"},
		{"EMPTY=", "EMPTY", ""},
		{"EXPR=a=b", "EXPR", "a=b"},
	}
	for _, tt := range tests {
		name, value := Macro(tt.def)
		if name != tt.name || value != tt.value {
			t.Errorf("Macro(%q) = %q, %q", tt.def, name, value)
		}
	}
}

func TestRecordMacros(t *testing.T) {
	ctx := ctypes.NewContext(ctypes.LP64)
	RecordMacros(ctx, &Options{Defines: []string{"A", "B=2", "=x"}})
	RecordMacros(ctx, nil)

	macros := ctx.Macros()
	if len(macros) != 2 {
		t.Fatalf("expected 2 macros, got %d", len(macros))
	}
	if macros[0].Name != "A" || macros[0].Value != "1" || macros[1].Name != "B" || macros[1].Value != "2" {
		t.Errorf("unexpected macros %+v %+v", macros[0], macros[1])
	}
	if macros[0].Pos.Filename != "<command-line>" {
		t.Errorf("macro position = %v", macros[0].Pos)
	}
}

func TestArgs(t *testing.T) {
	got := Args(&Options{IncludePaths: []string{"inc"}, Defines: []string{"X=1"}, Undefines: []string{"Y"}})
	want := []string{"-E", "-Iinc", "-DX=1", "-UY"}
	if !slices.Equal(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestSourceReadsPreprocessedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.i")
	src := "# 1 \"x.c\"\nint x;\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	// no preprocessor runs for .i files, even a missing one
	got, err := Source(context.Background(), path, &Options{Command: "/nonexistent/cpp"})
	if err != nil {
		t.Fatal(err)
	}
	if got != src {
		t.Errorf("Source = %q", got)
	}
}

func TestPreprocessMissingCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.c")
	if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Preprocess(context.Background(), path, &Options{Command: filepath.Join(t.TempDir(), "no-cc")})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestPreprocess(t *testing.T) {
	if findPreprocessor() == "" {
		t.Skip("no C preprocessor available")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "n.h"), []byte("#define N 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "x.c")
	if err := os.WriteFile(path, []byte("#include \"n.h\"\nint a[N]; T v;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := Preprocess(context.Background(), path, &Options{Defines: []string{"T=long"}})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Skipf("preprocessor failed: %v", err)
		}
		t.Fatal(err)
	}
	if !strings.Contains(out, "int a[4];") || !strings.Contains(out, "long v;") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
