package lexer

import "github.com/raymyers/cparse/pkg/scanner"

// Cursor is a bidirectional position in a token array. Saving and restoring
// the index is the parser's backtracking primitive.
type Cursor struct {
	toks []Token
	i    int
}

// NewCursor creates a Cursor over toks, appending an EOF token if toks
// does not already end with one.
func NewCursor(toks []Token) *Cursor {
	if len(toks) == 0 || toks[len(toks)-1].Type != TokenEOF {
		eof := Token{Type: TokenEOF}
		if len(toks) > 0 {
			eof.Pos = toks[len(toks)-1].Pos
		}
		toks = append(toks[:len(toks):len(toks)], eof)
	}
	return &Cursor{toks: toks}
}

// Token returns the current token.
func (c *Cursor) Token() Token { return c.toks[c.i] }

// Type returns the current token's type.
func (c *Cursor) Type() TokenType { return c.toks[c.i].Type }

// Text returns the current token's literal text.
func (c *Cursor) Text() string { return c.toks[c.i].Literal }

// Fix returns the current token's prefix or suffix.
func (c *Cursor) Fix() string { return c.toks[c.i].Fix }

// Pos returns the current token's position.
func (c *Cursor) Pos() scanner.Position { return c.toks[c.i].Pos }

// EOF reports whether the cursor is on the EOF token.
func (c *Cursor) EOF() bool { return c.toks[c.i].Type == TokenEOF }

// Next advances one token, stopping on the final EOF token.
func (c *Cursor) Next() {
	if c.i < len(c.toks)-1 {
		c.i++
	}
}

// Prev steps back one token, stopping at the first.
func (c *Cursor) Prev() {
	if c.i > 0 {
		c.i--
	}
}

// NextIf advances past the current token if its text is text.
func (c *Cursor) NextIf(text string) bool {
	if c.toks[c.i].Literal == text && c.toks[c.i].Type != TokenEOF {
		c.Next()
		return true
	}
	return false
}

// Index returns the current index.
func (c *Cursor) Index() int { return c.i }

// SetIndex moves the cursor to i, clamped to the array.
func (c *Cursor) SetIndex(i int) {
	switch {
	case i < 0:
		i = 0
	case i >= len(c.toks):
		i = len(c.toks) - 1
	}
	c.i = i
}

// Len returns the number of tokens, including EOF.
func (c *Cursor) Len() int { return len(c.toks) }

// At returns token i.
func (c *Cursor) At(i int) Token { return c.toks[i] }

// ParenClose returns the index just past the ')' that balances the nesting
// starting at the current token, or Len() if there is none.
func (c *Cursor) ParenClose() int { return c.closing("(", ")") }

// BraceClose is ParenClose for braces.
func (c *Cursor) BraceClose() int { return c.closing("{", "}") }

func (c *Cursor) closing(open, close string) int {
	nest := 0
	for i := c.i; i < len(c.toks); i++ {
		if c.toks[i].Type != TokenSymbol {
			continue
		}
		switch c.toks[i].Literal {
		case open:
			nest++
		case close:
			nest--
			if nest == 0 {
				return i + 1
			}
		}
	}
	return len(c.toks)
}
