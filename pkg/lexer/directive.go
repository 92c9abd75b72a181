package lexer

import (
	"strconv"

	"github.com/raymyers/cparse/pkg/diag"
	"github.com/raymyers/cparse/pkg/scanner"
)

// directive handles the text of a '#' line. Only pragmas and line markers
// are understood; anything else, including malformed input, is ignored.
func (l *Lexer) directive(text string, pos scanner.Position) {
	sub := New(pos.Filename, text, &diag.Info{})
	if !sub.Tokenize() {
		return
	}
	toks := sub.Tokens()
	switch {
	case toks[0].Literal == "pragma":
		l.pragma(toks[1:], pos)
	case toks[0].Literal == "line", toks[0].Type == TokenInt:
		l.lineMarker(toks)
	}
}

// lineMarker handles "line N ["file"]" and the bare "N ["file"]" form
// emitted by preprocessors.
func (l *Lexer) lineMarker(toks []Token) bool {
	i := 0
	if toks[0].Literal == "line" {
		i = 1
	}
	if toks[i].Type != TokenInt || toks[i].Fix != "" {
		return false
	}
	n, err := strconv.Atoi(toks[i].Literal)
	if err != nil || n <= 0 {
		return false
	}
	file := ""
	if toks[i+1].Type == TokenString && toks[i+1].Fix == "" {
		file = Unquote(toks[i+1].Literal, '"')
	}
	l.s.SetLine(file, n)
	return true
}

// pragma handles the tokens after "pragma" (or inside __pragma). toks
// always ends with an EOF token. Only "pack" is understood.
func (l *Lexer) pragma(toks []Token, pos scanner.Position) bool {
	at := func(i int) Token {
		if i < len(toks) {
			return toks[i]
		}
		return Token{Type: TokenEOF}
	}
	if at(0).Literal != "pack" || at(1).Literal != "(" {
		return false
	}

	arg := at(2)
	switch {
	case arg.Literal == ")":
		l.pack = l.defaultPack
	case arg.Literal == "show":
		l.diag.AddWarning(pos, "packing is %d", l.pack)
	case arg.Literal == "push":
		entry := packEntry{value: l.pack}
		i := 3
		if at(i).Literal == "," && at(i+1).Type == TokenIdent && at(i+1).Literal != "_CRT_PACKING" {
			entry.name = at(i + 1).Literal
			i += 2
		}
		l.packStack = append(l.packStack, entry)
		if at(i).Literal == "," {
			if n, ok := packValue(at(i + 1)); ok {
				l.pack = n
			}
		}
	case arg.Literal == "pop":
		l.popPack(at(3), at(4))
	case arg.Literal == "_CRT_PACKING":
		l.pack = DefaultPack
	case arg.Type == TokenInt:
		if n, ok := packValue(arg); ok {
			l.pack = n
		}
	default:
		return false
	}
	return true
}

// popPack restores the packing saved by the matching push. "pop, name" pops
// through the entry pushed with that name; "pop, N" pops and then sets N.
func (l *Lexer) popPack(sep, arg Token) {
	if len(l.packStack) == 0 {
		return
	}
	if sep.Literal == "," && arg.Type == TokenIdent && arg.Literal != "_CRT_PACKING" {
		for i := len(l.packStack) - 1; i >= 0; i-- {
			if l.packStack[i].name == arg.Literal {
				l.pack = l.packStack[i].value
				l.packStack = l.packStack[:i]
				return
			}
		}
		return
	}
	top := l.packStack[len(l.packStack)-1]
	l.packStack = l.packStack[:len(l.packStack)-1]
	l.pack = top.value
	if sep.Literal == "," {
		if n, ok := packValue(arg); ok {
			l.pack = n
		}
	}
}

// packValue reads a packing argument. Zero means 1.
func packValue(tok Token) (int, bool) {
	if tok.Literal == "_CRT_PACKING" {
		return DefaultPack, true
	}
	if tok.Type != TokenInt {
		return 0, false
	}
	n, err := strconv.ParseInt(tok.Literal, 0, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	if n == 0 {
		n = 1
	}
	return int(n), true
}
