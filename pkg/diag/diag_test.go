package diag

import (
	"bytes"
	"errors"
	"testing"

	"modernc.org/token"
)

func TestItemFormat(t *testing.T) {
	pos := token.Position{Filename: "a.c", Line: 3, Column: 7}

	var in Info
	in.AddError(pos, "invalid %s", "number")
	in.AddWarning(pos, "packing is %d", 8)

	tests := []struct {
		got  string
		want string
	}{
		{in.Errors[0].String(), "a.c:3:7: error: invalid number"},
		{in.Warnings[0].String(), "a.c:3:7: warning: packing is 8"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestWriteToOrdersErrorsFirst(t *testing.T) {
	var in Info
	in.AddWarning(token.Position{Filename: "w.c", Line: 1, Column: 1}, "w")
	in.AddError(token.Position{Filename: "e.c", Line: 2, Column: 2}, "e")

	var buf bytes.Buffer
	if _, err := in.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	want := "e.c:2:2: error: e\nw.c:1:1: warning: w\n"
	if buf.String() != want {
		t.Errorf("WriteTo = %q, want %q", buf.String(), want)
	}
}

func TestErr(t *testing.T) {
	var in Info
	if in.Err() != nil {
		t.Fatal("empty Info should have nil Err")
	}
	in.AddWarning(token.Position{}, "only a warning")
	if in.Err() != nil {
		t.Fatal("warnings alone should not produce an error")
	}
	in.AddError(token.Position{Filename: "x.c", Line: 1, Column: 9}, "parse error (%d): %s", 1, ";")

	err := in.Err()
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("Err() = %T, want ErrorList", err)
	}
	if len(list) != 1 || err.Error() != "x.c:1:9: error: parse error (1): ;" {
		t.Errorf("unexpected error %q", err)
	}

	in.Reset()
	if in.HasErrors() || len(in.Warnings) != 0 {
		t.Error("Reset should clear everything")
	}
}
