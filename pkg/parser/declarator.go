package parser

import (
	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/lexer"
)

// declarator = {function-attribute}, [pointer], {function-attribute},
// direct-declarator;
func (p *Parser) visitDeclarator() *cabs.Declarator {
	d := &cabs.Declarator{}
	attrs := cabs.Attributes{}
	for p.scanFunctionAttribute(attrs) {
	}
	d.Pointer = p.visitPointer()
	for p.scanFunctionAttribute(attrs) {
	}
	if len(attrs) > 0 {
		d.Attrs = attrs
	}
	if d.Direct = p.visitDirectDeclarator(); d.Direct == nil {
		return nil
	}
	return d
}

// pointer = '*', [type-qualifier-list], [pointer];
func (p *Parser) visitPointer() *cabs.Pointer {
	if !p.nextIf("*") {
		return nil
	}
	ptr := &cabs.Pointer{}
	ptr.Quals = p.visitTypeQualifierList()
	ptr.Next = p.visitPointer()
	return ptr
}

// direct-declarator = (identifier | '(', declarator, ')'),
// {array-suffix | function-suffix};
//
// A typedef-name is accepted as the identifier.
func (p *Parser) visitDirectDeclarator() *cabs.DirectDeclarator {
	d := &cabs.DirectDeclarator{Pos: p.pos()}
	switch {
	case p.nextIf("("):
		d.Kind = cabs.DirNested
		if d.Nested = p.visitDeclarator(); d.Nested == nil || !p.nextIf(")") {
			return nil
		}
	case p.typ() == lexer.TokenIdent:
		d.Kind = cabs.DirIdent
		d.Ident = p.text()
		p.next()
	default:
		return nil
	}

	for p.isSymbol("[") || p.isSymbol("(") {
		pos := p.pos()
		suffix := attempt(p, func() *cabs.DirectDeclarator {
			if p.nextIf("(") {
				return p.visitFunctionSuffix()
			}
			return p.visitArraySuffix().declarator()
		})
		if suffix == nil {
			break
		}
		suffix.Child = d
		suffix.Pos = pos
		d = suffix
	}
	return d
}

// visitFunctionSuffix reads the rest of '(', [parameter-type-list |
// identifier-list], ')' after the opening parenthesis.
func (p *Parser) visitFunctionSuffix() *cabs.DirectDeclarator {
	d := &cabs.DirectDeclarator{Kind: cabs.DirFunc}
	if p.nextIf(")") {
		return d
	}
	return firstOf(p,
		func() *cabs.DirectDeclarator {
			if d.Params = p.visitParameterTypeList(); d.Params != nil && p.nextIf(")") {
				return d
			}
			d.Params = nil
			return nil
		},
		func() *cabs.DirectDeclarator {
			if d.Idents = p.visitIdentifierList(); d.Idents != nil && p.nextIf(")") {
				return d
			}
			d.Idents = nil
			return nil
		},
	)
}

// arraySuffix is a parsed '[' ... ']' shared by declarators and abstract
// declarators.
type arraySuffix struct {
	quals  *cabs.TypeQualifierList
	static bool
	star   bool
	size   *cabs.AssignmentExpression
}

func (a *arraySuffix) declarator() *cabs.DirectDeclarator {
	if a == nil {
		return nil
	}
	return &cabs.DirectDeclarator{Kind: cabs.DirArray, Quals: a.quals, Static: a.static, Star: a.star, Size: a.size}
}

func (a *arraySuffix) abstract() *cabs.DirectAbstractDeclarator {
	if a == nil {
		return nil
	}
	return &cabs.DirectAbstractDeclarator{Kind: cabs.DirArray, Quals: a.quals, Static: a.static, Star: a.star, Size: a.size}
}

// visitArraySuffix reads '[' followed by one of, in order:
//
//	']'
//	'*', ']'
//	'static', [type-qualifier-list], assignment-expression, ']'
//	type-qualifier-list, ['*' | ['static'], assignment-expression], ']'
//	assignment-expression, ']'
func (p *Parser) visitArraySuffix() *arraySuffix {
	if !p.nextIf("[") {
		return nil
	}
	return firstOf(p,
		func() *arraySuffix {
			if p.nextIf("]") {
				return &arraySuffix{}
			}
			return nil
		},
		func() *arraySuffix {
			if p.nextIf("*") && p.nextIf("]") {
				return &arraySuffix{star: true}
			}
			return nil
		},
		func() *arraySuffix {
			if !p.nextIf("static") {
				return nil
			}
			a := &arraySuffix{static: true}
			a.quals = p.visitTypeQualifierList()
			if a.size = p.visitAssignmentExpression(); a.size == nil || !p.nextIf("]") {
				return nil
			}
			return a
		},
		func() *arraySuffix {
			a := &arraySuffix{}
			if a.quals = p.visitTypeQualifierList(); a.quals == nil {
				return nil
			}
			switch {
			case p.nextIf("]"):
				return a
			case p.nextIf("*"):
				a.star = true
			default:
				a.static = p.nextIf("static")
				if a.size = p.visitAssignmentExpression(); a.size == nil {
					return nil
				}
			}
			if !p.nextIf("]") {
				return nil
			}
			return a
		},
		func() *arraySuffix {
			a := &arraySuffix{}
			if a.size = p.visitAssignmentExpression(); a.size == nil || !p.nextIf("]") {
				return nil
			}
			return a
		},
	)
}

// identifier-list = identifier, {',', identifier};
func (p *Parser) visitIdentifierList() *cabs.IdentifierList {
	name := p.visitIdentifier()
	if name == "" {
		return nil
	}
	list := &cabs.IdentifierList{Idents: []string{name}}
	for p.nextIf(",") {
		if name = p.visitIdentifier(); name == "" {
			return nil
		}
		list.Idents = append(list.Idents, name)
	}
	return list
}

// parameter-type-list = parameter-list, [',', '...'];
func (p *Parser) visitParameterTypeList() *cabs.ParameterTypeList {
	params := p.visitParameterList()
	if params == nil {
		return nil
	}
	l := &cabs.ParameterTypeList{Params: params}
	if p.nextIf(",") {
		if !p.nextIf("...") {
			return nil
		}
		l.Variadic = true
	}
	return l
}

// parameter-list = parameter-declaration, {',', parameter-declaration};
//
// A ',' followed by '...' is left for the parameter type list.
func (p *Parser) visitParameterList() *cabs.ParameterList {
	first := p.visitParameterDeclaration()
	if first == nil {
		return nil
	}
	list := &cabs.ParameterList{Params: []*cabs.ParameterDeclaration{first}}
	for p.nextIf(",") {
		if p.isSymbol("...") {
			p.c.Prev()
			break
		}
		param := p.visitParameterDeclaration()
		if param == nil {
			return nil
		}
		list.Params = append(list.Params, param)
	}
	return list
}

// parameter-declaration = declaration-specifiers, [declarator |
// abstract-declarator];
func (p *Parser) visitParameterDeclaration() *cabs.ParameterDeclaration {
	param := &cabs.ParameterDeclaration{}
	if param.Specs = p.visitDeclarationSpecifiers(); param.Specs == nil {
		return nil
	}
	if param.Declarator = attempt(p, p.visitDeclarator); param.Declarator == nil {
		param.Abstract = attempt(p, p.visitAbstractDeclarator)
	}
	return param
}

// abstract-declarator = {function-attribute}, pointer, {function-attribute},
// [direct-abstract-declarator] | {function-attribute},
// direct-abstract-declarator;
func (p *Parser) visitAbstractDeclarator() *cabs.AbstractDeclarator {
	a := &cabs.AbstractDeclarator{}
	attrs := cabs.Attributes{}
	for p.scanFunctionAttribute(attrs) {
	}
	if a.Pointer = p.visitPointer(); a.Pointer != nil {
		for p.scanFunctionAttribute(attrs) {
		}
		a.Direct = attempt(p, p.visitDirectAbstractDeclarator)
	} else if a.Direct = p.visitDirectAbstractDeclarator(); a.Direct == nil {
		return nil
	}
	if len(attrs) > 0 {
		a.Attrs = attrs
	}
	return a
}

// direct-abstract-declarator = ('(', [parameter-type-list], ')' |
// '(', abstract-declarator, ')' | array-suffix),
// {array-suffix | '(', [parameter-type-list], ')'};
func (p *Parser) visitDirectAbstractDeclarator() *cabs.DirectAbstractDeclarator {
	var d *cabs.DirectAbstractDeclarator
	if p.isSymbol("(") {
		d = firstOf(p,
			func() *cabs.DirectAbstractDeclarator {
				p.next()
				return p.visitAbstractFunctionSuffix()
			},
			func() *cabs.DirectAbstractDeclarator {
				p.next()
				nested := p.visitAbstractDeclarator()
				if nested == nil || !p.nextIf(")") {
					return nil
				}
				return &cabs.DirectAbstractDeclarator{Kind: cabs.DirNested, Nested: nested}
			},
		)
	} else {
		d = p.visitArraySuffix().abstract()
	}
	if d == nil {
		return nil
	}

	for p.isSymbol("[") || p.isSymbol("(") {
		suffix := attempt(p, func() *cabs.DirectAbstractDeclarator {
			if p.nextIf("(") {
				return p.visitAbstractFunctionSuffix()
			}
			return p.visitArraySuffix().abstract()
		})
		if suffix == nil {
			break
		}
		suffix.Child = d
		d = suffix
	}
	return d
}

// visitAbstractFunctionSuffix reads the rest of '(', [parameter-type-list],
// ')' after the opening parenthesis.
func (p *Parser) visitAbstractFunctionSuffix() *cabs.DirectAbstractDeclarator {
	d := &cabs.DirectAbstractDeclarator{Kind: cabs.DirFunc}
	if p.nextIf(")") {
		return d
	}
	if d.Params = p.visitParameterTypeList(); d.Params == nil || !p.nextIf(")") {
		return nil
	}
	return d
}
