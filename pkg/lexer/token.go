package lexer

import "github.com/raymyers/cparse/pkg/scanner"

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenSymbol
	TokenKeyword
	TokenIdent
	TokenChar   // 'a', L'a'
	TokenInt    // 42, 0x2Au
	TokenString // "hello", L"hello"
	TokenFloat  // 1.5e3f
)

var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenSymbol:  "SYMBOL",
	TokenKeyword: "KEYWORD",
	TokenIdent:   "IDENT",
	TokenChar:    "CHAR",
	TokenInt:     "INT",
	TokenString:  "STRING",
	TokenFloat:   "FLOAT",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token. Fix holds the literal's prefix ("L") or
// suffix ("u", "ul", "f", ...).
type Token struct {
	Type    TokenType
	Literal string
	Fix     string
	Pos     scanner.Position
}

// keywords is the fixed C keyword set, including the GNU and MSVC
// extensions the parser understands.
var keywords = map[string]bool{
	"_Alignas":       true,
	"_Alignof":       true,
	"_Atomic":        true,
	"_Bool":          true,
	"_Complex":       true,
	"_Generic":       true,
	"_Imaginary":     true,
	"_Noreturn":      true,
	"_Static_assert": true,
	"_Thread_local":  true,
	"__asm":          true,
	"__asm__":        true,
	"__attribute__":  true,
	"__cdecl":        true,
	"__declspec":     true,
	"__fastcall":     true,
	"__float128":     true,
	"__float80":      true,
	"__forceinline":  true,
	"__inline":       true,
	"__inline__":     true,
	"__int128":       true,
	"__int64":        true,
	"__pragma":       true,
	"__ptr64":        true,
	"__restrict__":   true,
	"__stdcall":      true,
	"__volatile__":   true,
	"auto":           true,
	"break":          true,
	"case":           true,
	"char":           true,
	"const":          true,
	"continue":       true,
	"default":        true,
	"do":             true,
	"double":         true,
	"else":           true,
	"enum":           true,
	"extern":         true,
	"float":          true,
	"for":            true,
	"goto":           true,
	"if":             true,
	"inline":         true,
	"int":            true,
	"long":           true,
	"register":       true,
	"restrict":       true,
	"return":         true,
	"short":          true,
	"signed":         true,
	"sizeof":         true,
	"static":         true,
	"struct":         true,
	"switch":         true,
	"typedef":        true,
	"union":          true,
	"unsigned":       true,
	"void":           true,
	"volatile":       true,
	"while":          true,
}

// IsKeyword reports whether ident is a keyword.
func IsKeyword(ident string) bool {
	return keywords[ident]
}

// symbols holds every punctuator, grouped by first byte for longest-match
// lookup.
var symbols = groupSymbols([]string{
	"!", "!=", "#", "##", "%", "%=", "&", "&&", "&=", "(", ")",
	"*", "*=", "+", "++", "+=", ",", "-", "--", "-=", "->", ".", "...",
	"/", "/=", ":", ";", "<", "<<", "<<=", "<=", "=", "==", ">", ">=",
	">>", ">>=", "?", "[", "]", "^", "^=", "{", "|", "|=", "||", "}", "~",
})

func groupSymbols(list []string) map[byte][]string {
	m := make(map[byte][]string)
	for _, s := range list {
		m[s[0]] = append(m[s[0]], s)
	}
	return m
}
