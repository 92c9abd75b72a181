// Package lexer turns C source text into a flat token array. It understands
// comments, #line markers, #pragma pack and the MSVC __pragma operator.
package lexer

import (
	"strings"

	"github.com/raymyers/cparse/pkg/diag"
	"github.com/raymyers/cparse/pkg/scanner"
)

// DefaultPack is the structure packing in effect when no pragma says
// otherwise.
const DefaultPack = 8

// Lexer tokenizes C source code
type Lexer struct {
	s      *scanner.Scanner
	diag   *diag.Info
	tokens []Token
	packs  []int // packing in effect for each token

	pack        int
	defaultPack int
	packStack   []packEntry

	pragmaBegin int // index of a pending __pragma token, or -1
	pragmaParen int
}

type packEntry struct {
	name  string
	value int
}

// New creates a Lexer for src. Diagnostics are recorded in info.
func New(name, src string, info *diag.Info) *Lexer {
	if info == nil {
		info = &diag.Info{}
	}
	return &Lexer{
		s:           scanner.New(name, src),
		diag:        info,
		pack:        DefaultPack,
		defaultPack: DefaultPack,
		pragmaBegin: -1,
	}
}

// SetDefaultPack changes the packing used before any pragma and restored by
// "#pragma pack()".
func (l *Lexer) SetDefaultPack(n int) {
	if n <= 0 {
		n = DefaultPack
	}
	l.defaultPack = n
	l.pack = n
}

// Tokens returns the token array. After a successful Tokenize it ends with
// exactly one EOF token.
func (l *Lexer) Tokens() []Token { return l.tokens }

// Pack returns the packing currently in effect.
func (l *Lexer) Pack() int { return l.pack }

// PackAt returns the packing that was in effect when token i was read.
func (l *Lexer) PackAt(i int) int {
	if i >= 0 && i < len(l.packs) {
		return l.packs[i]
	}
	return l.pack
}

// Diag returns the diagnostics sink.
func (l *Lexer) Diag() *diag.Info { return l.diag }

func (l *Lexer) push(tok Token) {
	l.tokens = append(l.tokens, tok)
	l.packs = append(l.packs, l.pack)
}

func (l *Lexer) newToken(typ TokenType) Token {
	return Token{Type: typ, Pos: l.s.Pos()}
}

// Tokenize reads the whole input. On failure it records one error and
// returns false.
func (l *Lexer) Tokenize() bool {
	l.pragmaBegin = -1
	l.pragmaParen = 0

	s := l.s
	for {
		ch := s.Peek()
		for isSpace(ch) {
			s.Next()
			ch = s.Peek()
		}

		switch {
		case s.MatchPeek("/*"):
			start := s.Pos()
			s.Skip(2)
			for !s.MatchGet("*/") {
				if s.EOF() {
					l.diag.AddError(start, "comment not terminated")
					return false
				}
				s.Next()
			}
			continue

		case s.MatchGet("//"):
			for !s.EOF() && s.Peek() != '\n' {
				s.Next()
			}
			continue

		case ch == '#':
			start := s.Pos()
			s.Next()
			l.directive(strings.TrimSpace(s.ReadLine()), start)
			continue

		case isDigit(ch), ch == '.' && isDigit(s.PeekAt(1)):
			start := s.Pos()
			if !l.scanNumber() {
				l.diag.AddError(start, "invalid number")
				return false
			}
			continue

		case s.MatchPeek("L'"), s.MatchPeek(`L"`), ch == '"', ch == '\'':
			start := s.Pos()
			if !l.scanQuoted() {
				l.diag.AddError(start, "invalid escape sequence")
				return false
			}
			continue

		case isAlpha(ch) || ch == '_':
			l.scanIdentifier()
			continue

		case ch == 0 && s.EOF():
			l.push(l.newToken(TokenEOF))
			return true
		}

		if !l.scanSymbol() {
			l.diag.AddError(s.Pos(), "invalid character")
			return false
		}
	}
}

// Fixup removes GNU __extension__ markers from the token array.
func (l *Lexer) Fixup() {
	toks := l.tokens[:0]
	packs := l.packs[:0]
	for i, tok := range l.tokens {
		if tok.Type == TokenIdent && tok.Literal == "__extension__" {
			continue
		}
		toks = append(toks, tok)
		packs = append(packs, l.packs[i])
	}
	l.tokens = toks
	l.packs = packs
}

func (l *Lexer) scanNumber() bool {
	s := l.s
	tok := l.newToken(TokenInt)
	var sb strings.Builder

	if s.MatchPeek("0x") || s.MatchPeek("0X") {
		sb.WriteByte(s.Get())
		sb.WriteByte(s.Get())
		digits := 0
		for isHexDigit(s.Peek()) {
			sb.WriteByte(s.Get())
			digits++
		}
		if digits == 0 {
			return false
		}
		tok.Literal = sb.String()
		tok.Fix = l.suffix("uUlL")
		l.push(tok)
		return true
	}

	for isDigit(s.Peek()) {
		sb.WriteByte(s.Get())
	}

	switch s.Peek() {
	case '.':
		sb.WriteByte(s.Get())
		for isDigit(s.Peek()) {
			sb.WriteByte(s.Get())
		}
		fallthrough
	case 'e', 'E':
		tok.Type = TokenFloat
		if !l.exponent(&sb) {
			return false
		}
		tok.Literal = sb.String()
		tok.Fix = l.suffix("fFlL")
		l.push(tok)
		return true
	}

	tok.Literal = sb.String()
	tok.Fix = l.suffix("uUlL")
	if tok.Literal[0] == '0' && strings.ContainsAny(tok.Literal, "89") {
		return false
	}
	l.push(tok)
	return true
}

// exponent reads an optional e[+-]digits part. An exponent without digits
// is invalid.
func (l *Lexer) exponent(sb *strings.Builder) bool {
	s := l.s
	if ch := s.Peek(); ch != 'e' && ch != 'E' {
		return true
	}
	sb.WriteByte(s.Get())
	if ch := s.Peek(); ch == '+' || ch == '-' {
		sb.WriteByte(s.Get())
	}
	digits := 0
	for isDigit(s.Peek()) {
		sb.WriteByte(s.Get())
		digits++
	}
	return digits > 0
}

func (l *Lexer) suffix(allowed string) string {
	var sb strings.Builder
	for ch := l.s.Peek(); ch != 0 && strings.IndexByte(allowed, ch) >= 0; ch = l.s.Peek() {
		sb.WriteByte(l.s.Get())
	}
	return sb.String()
}

// scanQuoted reads a string or character literal, with an optional L
// prefix. A closing quote immediately followed by another quote does not end
// the literal.
func (l *Lexer) scanQuoted() bool {
	s := l.s
	tok := l.newToken(TokenString)
	if s.Peek() == 'L' {
		tok.Fix = "L"
		s.Next()
	}
	q := s.Peek()
	if q == '\'' {
		tok.Type = TokenChar
	}

	var sb strings.Builder
	sb.WriteByte(s.Get())
	for {
		ch := s.Peek()
		switch {
		case ch == 0 && s.EOF():
			return false
		case ch == '\\':
			sb.WriteByte(s.Get())
			if !validEscape(s.Peek(), s.PeekAt(1), tok.Fix == "L") {
				return false
			}
		case ch == q:
			sb.WriteByte(s.Get())
			if s.Peek() != q {
				tok.Literal = sb.String()
				l.push(tok)
				return true
			}
		}
		sb.WriteByte(s.Get())
	}
}

func validEscape(ch, next byte, wide bool) bool {
	switch ch {
	case '\'', '"', '?', '\\', 'a', 'b', 'e', 'E', 'f', 'n', 'r', 't', 'v', '\n':
		return true
	case 'x':
		return isHexDigit(next)
	case 'u', 'U':
		return wide && isHexDigit(next)
	}
	return isOctal(ch)
}

func (l *Lexer) scanIdentifier() {
	s := l.s
	tok := l.newToken(TokenIdent)
	var sb strings.Builder
	for ch := s.Peek(); isAlnum(ch) || ch == '_'; ch = s.Peek() {
		sb.WriteByte(s.Get())
	}
	tok.Literal = sb.String()
	if keywords[tok.Literal] {
		tok.Type = TokenKeyword
		if tok.Literal == "__pragma" {
			l.pragmaBegin = len(l.tokens)
			l.pragmaParen = 0
		}
	}
	l.push(tok)
}

func (l *Lexer) scanSymbol() bool {
	s := l.s
	tok := l.newToken(TokenSymbol)
	for _, sym := range symbols[s.Peek()] {
		if len(sym) > len(tok.Literal) && s.MatchPeek(sym) {
			tok.Literal = sym
		}
	}
	if tok.Literal == "" {
		return false
	}
	s.Skip(len(tok.Literal))
	l.push(tok)

	if l.pragmaBegin >= 0 {
		switch tok.Literal {
		case "(":
			l.pragmaParen++
		case ")":
			l.pragmaParen--
			if l.pragmaParen == 0 {
				l.flushPragma()
			}
		}
	}
	return true
}

// flushPragma removes a complete __pragma(...) from the token array and runs
// its contents through the pragma handler.
func (l *Lexer) flushPragma() {
	begin := l.pragmaBegin
	l.pragmaBegin = -1
	buf := append([]Token(nil), l.tokens[begin:]...)
	l.tokens = l.tokens[:begin]
	l.packs = l.packs[:begin]
	if len(buf) < 3 {
		return
	}
	args := append(buf[2:len(buf)-1:len(buf)-1], Token{Type: TokenEOF, Pos: buf[len(buf)-1].Pos})
	l.pragma(args, buf[0].Pos)
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isOctal(ch byte) bool    { return '0' <= ch && ch <= '7' }
func isAlpha(ch byte) bool    { return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' }
func isAlnum(ch byte) bool    { return isAlpha(ch) || isDigit(ch) }
func isHexDigit(ch byte) bool { return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F' }
