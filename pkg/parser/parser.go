// Package parser implements a backtracking recursive descent parser for C
// with GNU and MSVC extensions. Every visit method either returns a node or
// returns nil with the cursor and the name sets left as they were.
package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/diag"
	"github.com/raymyers/cparse/pkg/lexer"
	"github.com/raymyers/cparse/pkg/scanner"
)

var (
	// ErrLex is returned when the input cannot be tokenized.
	ErrLex = errors.New("lexical error")
	// ErrSyntax is returned when the token stream is not a translation unit.
	ErrSyntax = errors.New("syntax error")
)

// Parser parses a token array into a cabs tree.
type Parser struct {
	l    *lexer.Lexer
	c    *lexer.Cursor
	diag *diag.Info

	typedefs   *nameSet
	enumConsts *nameSet

	far      int // furthest token index reached
	attempts int
}

// New creates a Parser over the tokens of an already tokenized lexer.
// Extra typedef names from opts are visible from the first token.
func New(l *lexer.Lexer, opts Options) *Parser {
	p := &Parser{
		l:          l,
		c:          lexer.NewCursor(l.Tokens()),
		diag:       l.Diag(),
		typedefs:   newNameSet("__builtin_va_list", "va_list"),
		enumConsts: newNameSet(),
	}
	for _, name := range opts.TypedefNames {
		p.typedefs.seed(name)
	}
	return p
}

// Parse parses the whole token array. On failure it records one
// diagnostic at the furthest token the parser reached.
func (p *Parser) Parse() (*cabs.TranslationUnit, error) {
	tu := p.visitTranslationUnit()
	if tu == nil {
		tok := p.c.At(p.far)
		p.diag.AddError(tok.Pos, "parse error (%s): %s", tok.Type, tok.Literal)
		return nil, fmt.Errorf("%w: %v", ErrSyntax, p.diag.Err())
	}
	return tu, nil
}

// TypedefNames returns the typedef names known after parsing, sorted.
func (p *Parser) TypedefNames() []string { return p.typedefs.sorted() }

// EnumConstants returns the enumeration constants seen, sorted.
func (p *Parser) EnumConstants() []string { return p.enumConsts.sorted() }

// Attempts returns how many speculative alternatives were tried.
func (p *Parser) Attempts() int { return p.attempts }

// Diag returns the diagnostics sink.
func (p *Parser) Diag() *diag.Info { return p.diag }

// Result is everything a parse session produces.
type Result struct {
	Unit     *cabs.TranslationUnit
	Tokens   []lexer.Token
	Typedefs []string
	Diag     *diag.Info
}

// ParseString lexes and parses src. The returned Result is never nil; its
// Diag holds the diagnostics of a failed parse.
func ParseString(src string, opts Options) (*Result, error) {
	info := &diag.Info{}
	res := &Result{Diag: info}

	l := lexer.New(opts.Filename, src, info)
	l.SetDefaultPack(opts.Pack)
	if !l.Tokenize() {
		return res, fmt.Errorf("%w: %v", ErrLex, info.Err())
	}
	l.Fixup()
	res.Tokens = l.Tokens()

	p := New(l, opts)
	unit, err := p.Parse()
	res.Typedefs = p.TypedefNames()
	if err != nil {
		return res, err
	}
	res.Unit = unit
	return res, nil
}

// Cursor helpers. Every forward move goes through these so that the error
// position can report the furthest token reached.

func (p *Parser) text() string          { return p.c.Text() }
func (p *Parser) typ() lexer.TokenType  { return p.c.Type() }
func (p *Parser) pos() scanner.Position { return p.c.Pos() }

func (p *Parser) is(text string) bool {
	return p.c.Type() != lexer.TokenEOF && p.c.Text() == text
}

func (p *Parser) isSymbol(text string) bool {
	return p.c.Type() == lexer.TokenSymbol && p.c.Text() == text
}

func (p *Parser) next() {
	p.c.Next()
	if i := p.c.Index(); i > p.far {
		p.far = i
	}
}

func (p *Parser) nextIf(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) seek(i int) {
	p.c.SetIndex(i)
	if i := p.c.Index(); i > p.far {
		p.far = i
	}
}

// checkpoint is everything a failed alternative has to undo.
type checkpoint struct {
	index      int
	typedefs   int
	enumConsts int
}

func (p *Parser) save() checkpoint {
	return checkpoint{p.c.Index(), p.typedefs.mark(), p.enumConsts.mark()}
}

func (p *Parser) restore(cp checkpoint) {
	p.c.SetIndex(cp.index)
	p.typedefs.rollback(cp.typedefs)
	p.enumConsts.rollback(cp.enumConsts)
}

// attempt runs fn and, if it yields the zero value, puts the cursor and
// the name sets back where they were.
func attempt[T comparable](p *Parser, fn func() T) T {
	p.attempts++
	cp := p.save()
	n := fn()
	var zero T
	if n == zero {
		p.restore(cp)
	}
	return n
}

// firstOf tries each alternative in order and returns the first success.
func firstOf[T comparable](p *Parser, alts ...func() T) T {
	var zero T
	for _, alt := range alts {
		if n := attempt(p, alt); n != zero {
			return n
		}
	}
	return zero
}

// many collects successes of fn until it fails. The failing try leaves no
// trace.
func many[T comparable](p *Parser, fn func() T) []T {
	var list []T
	var zero T
	for {
		n := attempt(p, fn)
		if n == zero {
			return list
		}
		list = append(list, n)
	}
}

// nameSet is a set of names with an undo journal. Seeded names are
// permanent; added names can be rolled back to a mark.
type nameSet struct {
	names   map[string]bool
	journal []string
}

func newNameSet(seed ...string) *nameSet {
	s := &nameSet{names: make(map[string]bool)}
	for _, name := range seed {
		s.seed(name)
	}
	return s
}

func (s *nameSet) seed(name string) { s.names[name] = true }

func (s *nameSet) has(name string) bool { return s.names[name] }

func (s *nameSet) add(name string) {
	if s.names[name] {
		return
	}
	s.names[name] = true
	s.journal = append(s.journal, name)
}

func (s *nameSet) mark() int { return len(s.journal) }

func (s *nameSet) rollback(mark int) {
	if mark >= len(s.journal) {
		return
	}
	for _, name := range s.journal[mark:] {
		delete(s.names, name)
	}
	s.journal = s.journal[:mark]
}

func (s *nameSet) sorted() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
