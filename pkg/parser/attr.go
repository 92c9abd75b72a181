package parser

import (
	"strings"

	"github.com/raymyers/cparse/pkg/cabs"
)

// scanFunctionAttribute reads a calling convention or an attribute into
// attrs.
func (p *Parser) scanFunctionAttribute(attrs cabs.Attributes) bool {
	switch p.text() {
	case "__cdecl", "__fastcall", "__stdcall":
		attrs[p.text()[2:]] = ""
		p.next()
		return true
	}
	return p.scanAttribute(attrs)
}

// scanFunctionAttributes reads any number of function attributes and
// returns nil when there were none.
func (p *Parser) scanFunctionAttributes() cabs.Attributes {
	attrs := cabs.Attributes{}
	for p.scanFunctionAttribute(attrs) {
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// scanAttribute reads one __declspec(...) or __attribute__((...)).
func (p *Parser) scanAttribute(attrs cabs.Attributes) bool {
	cp := p.save()
	if p.scanDeclspec(attrs) {
		return true
	}
	p.restore(cp)
	if p.scanGNUAttribute(attrs) {
		return true
	}
	p.restore(cp)
	return false
}

// scanDeclspec reads __declspec(name tokens...). The value is the text of
// the tokens after the name.
func (p *Parser) scanDeclspec(attrs cabs.Attributes) bool {
	if !p.nextIf("__declspec") || !p.nextIf("(") {
		return false
	}
	if p.nextIf(")") {
		return true
	}
	name := p.text()
	p.next()
	var value strings.Builder
	level := 1
	for {
		if p.c.EOF() {
			return false
		}
		switch p.text() {
		case "(":
			level++
		case ")":
			level--
		}
		if level == 0 {
			break
		}
		value.WriteString(p.text())
		p.next()
	}
	p.next()
	attrs[name] = value.String()
	return true
}

// scanGNUAttribute reads __attribute__((name, name(args), ...)). Names lose
// surrounding double underscores and argument text is normalized.
func (p *Parser) scanGNUAttribute(attrs cabs.Attributes) bool {
	if !p.nextIf("__attribute__") || !p.isSymbol("(") {
		return false
	}
	end := p.c.ParenClose()
	if end >= p.c.Len() {
		return false
	}
	p.next()
	if !p.nextIf("(") {
		return false
	}
	for !p.isSymbol(")") && p.c.Index() < end {
		name := trimUnderline(p.text())
		p.next()
		value := ""
		if p.isSymbol("(") {
			argsEnd := p.c.ParenClose()
			var items []string
			for p.c.Index() < argsEnd && !p.c.EOF() {
				item := p.text()
				if item == "__alignof" {
					item = "alignof"
				}
				items = append(items, trimUnderline(item))
				p.next()
			}
			value = normalizeAttrValue(strings.Join(items, " "))
		}
		attrs[name] = value
		if !p.nextIf(",") {
			break
		}
	}
	p.seek(end)
	return true
}

// trimUnderline turns __name__ into name.
func trimUnderline(s string) string {
	if len(s) > 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__") {
		return s[2 : len(s)-2]
	}
	return s
}

var attrSpacing = strings.NewReplacer(
	" (", "(",
	"( ", "(",
	", ", ",",
	" ,", ",",
	" )", ")",
	") ", ")",
)

// normalizeAttrValue strips enclosing parentheses and the blanks around
// separators.
func normalizeAttrValue(v string) string {
	v = strings.TrimSpace(v)
	for len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' && enclosed(v) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	// Replacements can expose new pairs, e.g. " ( (" or ") ) ".
	for {
		next := attrSpacing.Replace(v)
		if next == v {
			return v
		}
		v = next
	}
}

// enclosed reports whether the parenthesis opening v closes at its end.
func enclosed(v string) bool {
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(v)-1 {
				return false
			}
		}
	}
	return depth == 0
}
