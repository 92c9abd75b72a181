package lexer

import "testing"

func cursorFor(t *testing.T, input string) *Cursor {
	t.Helper()
	return NewCursor(tokenize(t, input).Tokens())
}

func TestCursorSaturates(t *testing.T) {
	c := cursorFor(t, "a b")
	c.Prev()
	if c.Index() != 0 {
		t.Fatalf("Prev at start moved to %d", c.Index())
	}
	for i := 0; i < 5; i++ {
		c.Next()
	}
	if !c.EOF() || c.Index() != c.Len()-1 {
		t.Fatalf("expected to stop on EOF, at %d of %d", c.Index(), c.Len())
	}
	if c.NextIf("") {
		t.Error("NextIf must not consume EOF")
	}
}

func TestCursorAppendsEOF(t *testing.T) {
	toks := []Token{{Type: TokenIdent, Literal: "x"}}
	c := NewCursor(toks)
	if c.Len() != 2 || c.At(1).Type != TokenEOF {
		t.Fatalf("expected an appended EOF, got %v", c)
	}
	if len(toks) != 1 {
		t.Error("NewCursor modified its argument")
	}
	if NewCursor(nil).Type() != TokenEOF {
		t.Error("empty cursor should start on EOF")
	}
}

func TestCursorCheckpoint(t *testing.T) {
	c := cursorFor(t, "int x ;")
	save := c.Index()
	if !c.NextIf("int") || c.Text() != "x" {
		t.Fatalf("NextIf(int) failed, at %q", c.Text())
	}
	if c.NextIf("y") {
		t.Fatal("NextIf(y) matched x")
	}
	c.Next()
	c.SetIndex(save)
	if c.Text() != "int" || c.Type() != TokenKeyword {
		t.Errorf("restore: expected int, got %q", c.Text())
	}
	c.SetIndex(100)
	if !c.EOF() {
		t.Error("SetIndex past the end should clamp to EOF")
	}
	c.SetIndex(-3)
	if c.Index() != 0 {
		t.Error("SetIndex below zero should clamp to 0")
	}
}

func TestParenClose(t *testing.T) {
	tests := []struct {
		input string
		start int
		want  int // -1 means Len()
	}{
		{"( a )", 0, 3},
		{"( ( a ) b ) c", 0, 6},
		{"( ( a ) b ) c", 1, 4},
		{"f ( x )", 0, 4},
		{"( a", 0, -1},
		{"a b", 0, -1},
		{`( ")" )`, 0, 3},
	}
	for _, tt := range tests {
		c := cursorFor(t, tt.input)
		c.SetIndex(tt.start)
		want := tt.want
		if want < 0 {
			want = c.Len()
		}
		if got := c.ParenClose(); got != want {
			t.Errorf("ParenClose(%q from %d) = %d, want %d", tt.input, tt.start, got, want)
		}
	}
}

func TestBraceClose(t *testing.T) {
	c := cursorFor(t, "{ mov eax , { 1 } } x")
	if got := c.BraceClose(); got != 8 {
		t.Errorf("BraceClose = %d, want 8", got)
	}
	c = cursorFor(t, "{ {")
	if got := c.BraceClose(); got != c.Len() {
		t.Errorf("unbalanced BraceClose = %d, want %d", got, c.Len())
	}
}
