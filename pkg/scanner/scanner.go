// Package scanner provides character-level access to C source text with
// file, line and column tracking.
package scanner

import (
	"strings"

	"modernc.org/token"
)

// DefaultFilename is used when the source has no name.
const DefaultFilename = "(anonymous)"

// Position is a resolved source location. Lines and columns are 1-based.
type Position = token.Position

// Scanner walks a source buffer one byte at a time.
type Scanner struct {
	src  string
	off  int
	file *token.File
}

// New creates a Scanner over src. Line and column information is computed
// from the newlines in src up front.
func New(name, src string) *Scanner {
	if name == "" {
		name = DefaultFilename
	}
	f := token.NewFile(name, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			f.AddLine(i + 1)
		}
	}
	return &Scanner{src: src, file: f}
}

// Peek returns the current byte, or 0 at end of input.
func (s *Scanner) Peek() byte {
	if s.off < len(s.src) {
		return s.src[s.off]
	}
	return 0
}

// PeekAt returns the byte n positions ahead of the current one, or 0.
func (s *Scanner) PeekAt(n int) byte {
	if i := s.off + n; i >= 0 && i < len(s.src) {
		return s.src[i]
	}
	return 0
}

// Get returns the current byte and advances past it.
func (s *Scanner) Get() byte {
	ch := s.Peek()
	s.Next()
	return ch
}

// Next advances one byte. It is a no-op at end of input.
func (s *Scanner) Next() {
	if s.off < len(s.src) {
		s.off++
	}
}

// Unget steps back one byte. Crossing a newline moves back to the end of the
// previous line.
func (s *Scanner) Unget() {
	if s.off > 0 {
		s.off--
	}
}

// Skip advances n bytes, stopping at end of input.
func (s *Scanner) Skip(n int) {
	s.off += n
	if s.off > len(s.src) {
		s.off = len(s.src)
	}
}

// MatchPeek reports whether the input at the current position starts with
// lit. lit must not contain a newline.
func (s *Scanner) MatchPeek(lit string) bool {
	checkLiteral(lit)
	return strings.HasPrefix(s.src[s.off:], lit)
}

// MatchGet is MatchPeek that also consumes lit on success.
func (s *Scanner) MatchGet(lit string) bool {
	if !s.MatchPeek(lit) {
		return false
	}
	s.Skip(len(lit))
	return true
}

func checkLiteral(lit string) {
	if strings.IndexByte(lit, '\n') >= 0 {
		panic("scanner: literal contains a newline: " + lit)
	}
}

// EOF reports whether all input has been consumed.
func (s *Scanner) EOF() bool { return s.off >= len(s.src) }

// Index returns the byte offset of the current position.
func (s *Scanner) Index() int { return s.off }

// Pos returns the current position, adjusted by any line directives.
func (s *Scanner) Pos() Position {
	return s.file.PositionFor(s.file.Pos(s.off), true)
}

// Filename returns the file name in effect at the current position.
func (s *Scanner) Filename() string { return s.Pos().Filename }

// Line returns the current 1-based line.
func (s *Scanner) Line() int { return s.Pos().Line }

// Column returns the current 1-based column.
func (s *Scanner) Column() int { return s.Pos().Column }

// SetLine makes the line following the current one report as line in file.
// An empty file keeps the current file name.
func (s *Scanner) SetLine(file string, line int) {
	if file == "" {
		file = s.Filename()
	}
	next := strings.IndexByte(s.src[s.off:], '\n')
	if next < 0 {
		return
	}
	s.file.AddLineInfo(s.off+next+1, file, line)
}

// ReadLine consumes input up to, but not including, the next newline and
// returns it.
func (s *Scanner) ReadLine() string {
	start := s.off
	for s.off < len(s.src) && s.src[s.off] != '\n' {
		s.off++
	}
	return s.src[start:s.off]
}
