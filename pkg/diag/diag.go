// Package diag collects errors and warnings produced while lexing and parsing.
package diag

import (
	"fmt"
	"io"
	"strings"

	"modernc.org/token"
)

// Severity distinguishes errors from warnings.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Item is a single diagnostic.
type Item struct {
	Pos      token.Position
	Severity Severity
	Msg      string
}

// String formats the item as file:line:column: severity: message.
func (d Item) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Msg)
}

// Info accumulates diagnostics for one parse session.
type Info struct {
	Errors   []Item
	Warnings []Item
}

// AddError records an error at pos.
func (in *Info) AddError(pos token.Position, format string, args ...any) {
	in.Errors = append(in.Errors, Item{pos, Error, fmt.Sprintf(format, args...)})
}

// AddWarning records a warning at pos.
func (in *Info) AddWarning(pos token.Position, format string, args ...any) {
	in.Warnings = append(in.Warnings, Item{pos, Warning, fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error was recorded.
func (in *Info) HasErrors() bool { return len(in.Errors) > 0 }

// Reset discards all diagnostics.
func (in *Info) Reset() {
	in.Errors = nil
	in.Warnings = nil
}

// WriteTo writes every error and then every warning, one per line.
func (in *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, list := range [][]Item{in.Errors, in.Warnings} {
		for _, d := range list {
			m, err := fmt.Fprintln(w, d)
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Err returns the recorded errors as an error, or nil when there are none.
func (in *Info) Err() error {
	if len(in.Errors) == 0 {
		return nil
	}
	return ErrorList(append([]Item(nil), in.Errors...))
}

// ErrorList is a list of error diagnostics usable as an error value.
type ErrorList []Item

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	}
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
