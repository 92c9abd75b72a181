package lexer

import (
	"math/rand"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		q    byte
		want string
	}{
		{"abc", '"', `"abc"`},
		{"a\"b", '"', `"a\"b"`},
		{"a'b", '"', `"a'b"`},
		{"a'b", '\'', `'a\'b'`},
		{"tab\there\n", '"', `"tab\there\n"`},
		{"back\\slash", '"', `"back\\slash"`},
		{"\x00", '"', `"\0"`},
		{"\x001", '"', `"\x001"`},
		{"\x1b\x80\xff", '"', `"\x1B\x80\xFF"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in, tt.q); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		q    byte
		want string
	}{
		{`"abc"`, '"', "abc"},
		{`"a\x41b"`, '"', "aAb"},
		{`"\x4a\x4A"`, '"', "JJ"},
		{`"\101\60"`, '"', "A0"},
		{`"\e\E"`, '"', "\x1b\x1b"},
		{`"\?\'\""`, '"', "?'\""},
		{`"a""b"`, '"', `a"b`},
		{`"ab"cd"`, '"', "ab"},
		{`  "pad"  `, '"', "pad"},
		{`'x'`, '\'', "x"},
		{`'\n'`, '\'', "\n"},
		{`"\q"`, '"', "q"},
	}
	for _, tt := range tests {
		if got := Unquote(tt.in, tt.q); got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteWide(t *testing.T) {
	tests := []struct {
		in   []rune
		want string
	}{
		{[]rune("hi"), `"hi"`},
		{[]rune{0xE9}, `"\xE9"`},
		{[]rune{0x7F}, `"\x7F"`},
		{[]rune{0x263A}, `"\u263A"`},
		{[]rune{0x1F600}, `"\U0001F600"`},
		{[]rune{0, '7'}, `"\x007"`},
	}
	for _, tt := range tests {
		if got := QuoteWide(tt.in, '"'); got != tt.want {
			t.Errorf("QuoteWide(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestUnquoteWide(t *testing.T) {
	got := UnquoteWide(`"éé\U0001F600\x41"`, '"')
	want := []rune{0xE9, 0xE9, 0x1F600, 'A'}
	if string(got) != string(want) {
		t.Errorf("UnquoteWide = %q, want %q", got, want)
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		b := make([]byte, rng.Intn(24))
		for j := range b {
			b[j] = byte(rng.Intn(256))
		}
		s := string(b)
		for _, q := range []byte{'"', '\''} {
			if got := Unquote(Quote(s, q), q); got != s {
				t.Fatalf("round trip of %q with %c: got %q via %s", s, q, got, Quote(s, q))
			}
		}
	}
}

func TestQuoteWideRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pick := func() rune {
		switch rng.Intn(4) {
		case 0:
			return rune(rng.Intn(0x80))
		case 1:
			return rune(0x80 + rng.Intn(0x80))
		case 2:
			return rune(0x100 + rng.Intn(0xFF00))
		}
		return rune(0x10000 + rng.Intn(0x100000))
	}
	for i := 0; i < 500; i++ {
		rs := make([]rune, rng.Intn(16))
		for j := range rs {
			rs[j] = pick()
		}
		got := UnquoteWide(QuoteWide(rs, '"'), '"')
		if len(got) != len(rs) {
			t.Fatalf("round trip of %q: got %q", rs, got)
		}
		for j := range rs {
			if got[j] != rs[j] {
				t.Fatalf("round trip of %q: rune %d is %U, want %U", rs, j, got[j], rs[j])
			}
		}
	}
}
