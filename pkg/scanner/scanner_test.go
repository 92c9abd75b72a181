package scanner

import "testing"

func TestPeekNextPastEnd(t *testing.T) {
	s := New("t.c", "ab")
	if s.Get() != 'a' || s.Get() != 'b' {
		t.Fatal("expected to read a then b")
	}
	for i := 0; i < 3; i++ {
		if ch := s.Peek(); ch != 0 {
			t.Fatalf("Peek past end = %q, want 0", ch)
		}
		s.Next()
	}
	if !s.EOF() {
		t.Error("expected EOF")
	}
}

func TestPositions(t *testing.T) {
	s := New("t.c", "ab\ncd\n\nx")
	tests := []struct {
		advance    int
		line, col  int
		wantPeeked byte
	}{
		{0, 1, 1, 'a'},
		{1, 1, 2, 'b'},
		{2, 2, 1, 'c'},
		{2, 2, 3, '\n'},
		{1, 3, 1, '\n'},
		{1, 4, 1, 'x'},
	}
	for i, tt := range tests {
		s.Skip(tt.advance)
		if s.Line() != tt.line || s.Column() != tt.col {
			t.Errorf("step %d: pos = %d:%d, want %d:%d", i, s.Line(), s.Column(), tt.line, tt.col)
		}
		if s.Peek() != tt.wantPeeked {
			t.Errorf("step %d: Peek = %q, want %q", i, s.Peek(), tt.wantPeeked)
		}
	}
}

func TestUngetAcrossNewline(t *testing.T) {
	s := New("t.c", "abc\nd")
	s.Skip(4)
	if s.Line() != 2 || s.Column() != 1 {
		t.Fatalf("pos = %d:%d, want 2:1", s.Line(), s.Column())
	}
	s.Unget()
	if s.Line() != 1 || s.Column() != 4 {
		t.Errorf("after Unget pos = %d:%d, want 1:4", s.Line(), s.Column())
	}
	s.Unget()
	if s.Peek() != 'c' || s.Column() != 3 {
		t.Errorf("after second Unget Peek = %q col %d", s.Peek(), s.Column())
	}
	for i := 0; i < 10; i++ {
		s.Unget()
	}
	if s.Index() != 0 {
		t.Errorf("Unget should floor at 0, got %d", s.Index())
	}
}

func TestMatch(t *testing.T) {
	s := New("", "<<= x")
	if s.Filename() != DefaultFilename {
		t.Errorf("Filename = %q, want %q", s.Filename(), DefaultFilename)
	}
	if !s.MatchPeek("<<") || s.Index() != 0 {
		t.Fatal("MatchPeek should not consume")
	}
	if s.MatchGet("<<<") {
		t.Fatal("MatchGet matched a longer literal")
	}
	if !s.MatchGet("<<=") || s.Peek() != ' ' {
		t.Fatal("MatchGet should consume on match")
	}
}

func TestMatchNewlinePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for newline literal")
		}
	}()
	New("t.c", "a\n").MatchPeek("a\n")
}

func TestSetLine(t *testing.T) {
	s := New("t.c", "#line 10 \"foo.h\"\nint\nx")
	s.ReadLine()
	s.SetLine("foo.h", 10)
	s.Next()
	if p := s.Pos(); p.Filename != "foo.h" || p.Line != 10 || p.Column != 1 {
		t.Errorf("after directive pos = %v, want foo.h:10:1", p)
	}
	s.Skip(4)
	if p := s.Pos(); p.Line != 11 {
		t.Errorf("next line = %d, want 11", p.Line)
	}

	s = New("t.c", "# 5\ny")
	s.ReadLine()
	s.SetLine("", 5)
	s.Next()
	if p := s.Pos(); p.Filename != "t.c" || p.Line != 5 {
		t.Errorf("bare directive pos = %v, want t.c:5", p)
	}
}
