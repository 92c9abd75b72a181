package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Quote renders s as a C literal delimited by q. Bytes outside the printable
// ASCII range are written as \xHH.
func Quote(s string, q byte) string {
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\'', '"':
			if ch == q {
				sb.WriteByte('\\')
			}
			sb.WriteByte(ch)
		case '\\':
			sb.WriteString(`\\`)
		case 0:
			// \0 followed by a digit would read back as a longer octal escape.
			if i+1 < len(s) && isDigit(s[i+1]) {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		default:
			if esc, ok := simpleEscapes[ch]; ok {
				sb.WriteString(esc)
			} else if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&sb, `\x%02X`, ch)
			} else {
				sb.WriteByte(ch)
			}
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

var simpleEscapes = map[byte]string{
	'\a': `\a`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
}

var unescapes = map[byte]byte{
	'\'': '\'',
	'"':  '"',
	'?':  '?',
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'e':  0x1B,
	'E':  0x1B,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// Unquote decodes a C literal delimited by q. Inside a string literal a
// doubled quote stands for one quote; any other unescaped q ends the
// literal.
func Unquote(s string, q byte) string {
	var sb strings.Builder
	for _, r := range unquote(s, q, false) {
		sb.WriteByte(byte(r))
	}
	return sb.String()
}

// QuoteWide renders a wide literal body (without the L prefix).
func QuoteWide(rs []rune, q byte) string {
	var sb strings.Builder
	sb.WriteByte(q)
	for i, r := range rs {
		switch {
		case r == '\'' || r == '"':
			if r == rune(q) {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == 0:
			if i+1 < len(rs) && rs[i+1] < utf8.RuneSelf && isDigit(byte(rs[i+1])) {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		case r < utf8.RuneSelf && simpleEscapes[byte(r)] != "":
			sb.WriteString(simpleEscapes[byte(r)])
		case r < 0x20 || r >= 0x7F && r <= 0xFF:
			fmt.Fprintf(&sb, `\x%02X`, r)
		case r > 0xFF && r <= 0xFFFF:
			fmt.Fprintf(&sb, `\u%04X`, r)
		case r > 0xFFFF:
			fmt.Fprintf(&sb, `\U%08X`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// UnquoteWide decodes a wide literal body. Unescaped bytes are read as UTF-8.
func UnquoteWide(s string, q byte) []rune {
	return unquote(s, q, true)
}

func unquote(s string, q byte, wide bool) []rune {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		s = s[1 : len(s)-1]
	}
	var out []rune
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\\' && i+1 < len(s):
			i++
			ch = s[i]
			if r, ok := unescapes[ch]; ok {
				out = append(out, rune(r))
				continue
			}
			switch {
			case ch == 'x':
				n, w := readDigits(s[i+1:], 16, 2)
				out = append(out, rune(n))
				i += w
			case wide && ch == 'u':
				n, w := readDigits(s[i+1:], 16, 4)
				out = append(out, rune(n))
				i += w
			case wide && ch == 'U':
				n, w := readDigits(s[i+1:], 16, 8)
				out = append(out, rune(n))
				i += w
			case isOctal(ch):
				n, w := readDigits(s[i:], 8, 3)
				out = append(out, rune(n))
				i += w - 1
			default:
				out = append(out, rune(ch))
			}
		case ch == q:
			if q == '"' && i+1 < len(s) && s[i+1] == q {
				out = append(out, '"')
				i++
				continue
			}
			return out
		case wide && ch >= utf8.RuneSelf:
			r, w := utf8.DecodeRuneInString(s[i:])
			out = append(out, r)
			i += w - 1
		default:
			out = append(out, rune(ch))
		}
	}
	return out
}

// readDigits reads up to max digits of base from the front of s.
func readDigits(s string, base, max int) (n uint32, width int) {
	for width < max && width < len(s) {
		d, ok := digitValue(s[width])
		if !ok || d >= base {
			break
		}
		n = n*uint32(base) + uint32(d)
		width++
	}
	return n, width
}

func digitValue(ch byte) (int, bool) {
	switch {
	case isDigit(ch):
		return int(ch - '0'), true
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10, true
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 10, true
	}
	return 0, false
}
