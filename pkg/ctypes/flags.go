package ctypes

import "strings"

// Flags is the bitset describing a type: its arithmetic kind, signedness,
// derivation (pointer, array, function, alias, tag), qualifiers, storage and
// calling convention. Raw combinations are only meaningful after
// NormalizeFlags.
type Flags uint64

const (
	Void Flags = 1 << iota
	Bool
	Char
	Short
	Int
	Long
	LongLong
	Int128
	Floating
	Double
	Float80
	Float128
	Complex
	Imaginary
	Signed
	Unsigned

	Array
	Pointer
	Alias
	Func
	Tag

	Const
	Volatile
	Atomic
	Restrict
	ThreadLocal
	Extern
	Static

	Cdecl
	Stdcall
	Fastcall
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Void, "void"},
	{Bool, "bool"},
	{Char, "char"},
	{Short, "short"},
	{Int, "int"},
	{Long, "long"},
	{LongLong, "longlong"},
	{Int128, "int128"},
	{Floating, "floating"},
	{Double, "double"},
	{Float80, "float80"},
	{Float128, "float128"},
	{Complex, "complex"},
	{Imaginary, "imaginary"},
	{Signed, "signed"},
	{Unsigned, "unsigned"},
	{Array, "array"},
	{Pointer, "pointer"},
	{Alias, "alias"},
	{Func, "func"},
	{Tag, "tag"},
	{Const, "const"},
	{Volatile, "volatile"},
	{Atomic, "atomic"},
	{Restrict, "restrict"},
	{ThreadLocal, "thread_local"},
	{Extern, "extern"},
	{Static, "static"},
	{Cdecl, "cdecl"},
	{Stdcall, "stdcall"},
	{Fastcall, "fastcall"},
}

const (
	widths    = Short | Long | LongLong | Int128
	intKinds  = Char | widths | Int
	nonInts   = Void | Bool | Floating | Complex | Imaginary | Array | Pointer | Alias | Tag | Func
	qualifier = Const | Volatile | Atomic | Restrict
	storage   = ThreadLocal | Extern | Static
)

// Qualifiers returns only the type qualifier bits of f.
func (f Flags) Qualifiers() Flags { return f & qualifier }

// Storage returns only the storage class bits of f.
func (f Flags) Storage() Flags { return f & storage }

// Has reports whether every bit of mask is set in f.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Any reports whether some bit of mask is set in f.
func (f Flags) Any(mask Flags) bool { return f&mask != 0 }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// NormalizeFlags applies C's type-specifier combination rules. It is
// idempotent.
//
//   - "int" next to a width specifier is redundant, except on pointers
//     where Int|LongLong marks a 64-bit pointer.
//   - bare "unsigned" is "unsigned int".
//   - "signed" only matters for char.
//   - no type at all is "int".
func NormalizeFlags(f Flags) Flags {
	if f.Any(Int) && f.Any(widths) && !f.Any(Pointer) {
		f &^= Int
	}
	if f.Any(Unsigned) && !f.Any(intKinds) {
		f |= Int
	}
	if f.Any(Signed) && !f.Any(Char) {
		f &^= Signed
	}
	if !f.Any(nonInts) {
		f |= Int
	}
	return f
}

// IsInteger reports whether f describes an integer type.
func IsInteger(f Flags) bool {
	f = NormalizeFlags(f)
	if f.Any(Floating) {
		return false
	}
	return f.Any(Bool | Char | Int | Int128)
}

// IsFloating reports whether f describes a real or complex floating type.
func IsFloating(f Flags) bool {
	return NormalizeFlags(f).Any(Floating)
}

// BasicName returns the canonical spelling of an arithmetic type, as
// registered in the root scope, ignoring qualifiers and storage.
func BasicName(f Flags) string {
	f = NormalizeFlags(f)
	var parts []string
	switch {
	case f.Any(Void):
		return "void"
	case f.Any(Bool):
		return "_Bool"
	case f.Any(Floating):
		if f.Any(Complex) {
			parts = append(parts, "_Complex")
		}
		if f.Any(Imaginary) {
			parts = append(parts, "_Imaginary")
		}
		switch {
		case f.Any(Float80):
			parts = append(parts, "__float80")
		case f.Any(Float128):
			parts = append(parts, "__float128")
		case f.Any(Long):
			parts = append(parts, "long double")
		case f.Any(Double):
			parts = append(parts, "double")
		default:
			parts = append(parts, "float")
		}
		return strings.Join(parts, " ")
	}
	if f.Any(Unsigned) {
		parts = append(parts, "unsigned")
	} else if f.Any(Signed) {
		parts = append(parts, "signed")
	}
	switch {
	case f.Any(Char):
		parts = append(parts, "char")
	case f.Any(Short):
		parts = append(parts, "short")
	case f.Any(LongLong):
		parts = append(parts, "long long")
	case f.Any(Long):
		parts = append(parts, "long")
	case f.Any(Int128):
		parts = append(parts, "__int128")
	default:
		parts = append(parts, "int")
	}
	return strings.Join(parts, " ")
}
