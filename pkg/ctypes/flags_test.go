package ctypes

import "testing"

// ruleBits are the flags NormalizeFlags looks at.
var ruleBits = []Flags{
	Void, Bool, Char, Short, Int, Long, LongLong, Int128, Floating, Complex,
	Imaginary, Signed, Unsigned, Array, Pointer, Alias, Tag, Func,
}

func forEachCombination(fn func(Flags)) {
	for mask := 0; mask < 1<<len(ruleBits); mask++ {
		var f Flags
		for i, b := range ruleBits {
			if mask&(1<<i) != 0 {
				f |= b
			}
		}
		fn(f)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	forEachCombination(func(f Flags) {
		once := NormalizeFlags(f)
		if twice := NormalizeFlags(once); twice != once {
			t.Fatalf("NormalizeFlags(%v) = %v, then %v", f, once, twice)
		}
	})
}

func TestIntegerFloatingDisjoint(t *testing.T) {
	forEachCombination(func(f Flags) {
		if IsInteger(f) && IsFloating(f) {
			t.Fatalf("%v is both integer and floating", f)
		}
	})
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		name string
		in   Flags
		want Flags
	}{
		{"empty is int", 0, Int},
		{"short int drops int", Short | Int, Short | Int},
		{"long int", Long | Int, Long | Int},
		{"pointer keeps int", Pointer | Int | LongLong, Pointer | Int | LongLong},
		{"bare unsigned", Unsigned, Unsigned | Int},
		{"unsigned char gains int", Unsigned | Char, Unsigned | Char | Int},
		{"signed int", Signed | Int, Int},
		{"signed char keeps signed", Signed | Char, Signed | Char | Int},
		{"void", Void, Void},
		{"double", Floating | Double, Floating | Double},
		{"struct tag", Tag, Tag},
		{"const is preserved", Const, Const | Int},
		{"signed pointer", Signed | Pointer, Pointer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeFlags(tt.in); got != tt.want {
				t.Errorf("NormalizeFlags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDropsRedundantInt(t *testing.T) {
	// the width survives; Int comes back only as the implicit default
	f := NormalizeFlags(Short | Int)
	if !f.Has(Short) {
		t.Fatalf("lost Short: %v", f)
	}
	if NormalizeFlags(Unsigned|Short|Int) != NormalizeFlags(Unsigned|Short) {
		t.Error("unsigned short int differs from unsigned short")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		in       Flags
		integer  bool
		floating bool
	}{
		{Int, true, false},
		{0, true, false},
		{Bool, true, false},
		{Char | Unsigned, true, false},
		{Long, true, false},
		{Int128, true, false},
		{Floating, false, true},
		{Floating | Long, false, true},
		{Floating | Complex, false, true},
		{Void, false, false},
		{Pointer, false, false},
		{Tag, false, false},
		{Tag | Int, true, false},
		{Array | Int, true, false},
	}
	for _, tt := range tests {
		if got := IsInteger(tt.in); got != tt.integer {
			t.Errorf("IsInteger(%v) = %v, want %v", tt.in, got, tt.integer)
		}
		if got := IsFloating(tt.in); got != tt.floating {
			t.Errorf("IsFloating(%v) = %v, want %v", tt.in, got, tt.floating)
		}
	}
}

func TestBasicName(t *testing.T) {
	tests := []struct {
		in   Flags
		want string
	}{
		{0, "int"},
		{Unsigned, "unsigned int"},
		{Signed | Int, "int"},
		{Signed | Char, "signed char"},
		{Unsigned | Long | Int, "unsigned long"},
		{Long | LongLong, "long long"},
		{Unsigned | LongLong, "unsigned long long"},
		{Int128 | Unsigned, "unsigned __int128"},
		{Short | Int | Const, "short"},
		{Floating, "float"},
		{Floating | Double, "double"},
		{Floating | Long, "long double"},
		{Floating | Double | Complex, "_Complex double"},
		{Floating | Float128, "__float128"},
		{Bool, "_Bool"},
		{Void, "void"},
	}
	for _, tt := range tests {
		if got := BasicName(tt.in); got != tt.want {
			t.Errorf("BasicName(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlagsString(t *testing.T) {
	if got := (Unsigned | Int | Const).String(); got != "int|unsigned|const" {
		t.Errorf("String() = %q", got)
	}
	if got := Flags(0).String(); got != "none" {
		t.Errorf("String() = %q", got)
	}
}
