package parser

import (
	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/lexer"
)

// expression = assignment-expression, {',', assignment-expression};
func (p *Parser) visitExpression() *cabs.Expression {
	first := p.visitAssignmentExpression()
	if first == nil {
		return nil
	}
	e := &cabs.Expression{Items: []*cabs.AssignmentExpression{first}}
	for p.nextIf(",") {
		next := p.visitAssignmentExpression()
		if next == nil {
			return nil
		}
		e.Items = append(e.Items, next)
	}
	return e
}

var assignOps = map[string]bool{
	"=": true, "*=": true, "/=": true, "%=": true, "+=": true, "-=": true,
	"<<=": true, ">>=": true, "&=": true, "^=": true, "|=": true,
}

// assignment-expression = unary-expression, assignment-operator,
// assignment-expression | conditional-expression;
func (p *Parser) visitAssignmentExpression() *cabs.AssignmentExpression {
	return firstOf(p,
		func() *cabs.AssignmentExpression {
			u := p.visitUnaryExpression()
			if u == nil || p.typ() != lexer.TokenSymbol || !assignOps[p.text()] {
				return nil
			}
			e := &cabs.AssignmentExpression{Unary: u, Op: p.text()}
			p.next()
			if e.Next = p.visitAssignmentExpression(); e.Next == nil {
				return nil
			}
			return e
		},
		func() *cabs.AssignmentExpression {
			if c := p.visitConditionalExpression(); c != nil {
				return &cabs.AssignmentExpression{Cond: c}
			}
			return nil
		},
	)
}

// conditional-expression = logical-or-expression, ['?', expression, ':',
// conditional-expression];
func (p *Parser) visitConditionalExpression() *cabs.ConditionalExpression {
	c := &cabs.ConditionalExpression{}
	if c.Cond = p.visitLogicalOrExpression(); c.Cond == nil {
		return nil
	}
	if !p.nextIf("?") {
		return c
	}
	if c.Then = p.visitExpression(); c.Then == nil || !p.nextIf(":") {
		return nil
	}
	if c.Else = p.visitConditionalExpression(); c.Else == nil {
		return nil
	}
	return c
}

// operandList parses "operand {op operand}" for the list levels.
func operandList[T comparable](p *Parser, op string, operand func() T) []T {
	var zero T
	first := operand()
	if first == zero {
		return nil
	}
	list := []T{first}
	for p.isSymbol(op) {
		p.next()
		next := operand()
		if next == zero {
			return nil
		}
		list = append(list, next)
	}
	return list
}

// logical-or-expression = logical-and-expression, {'||', logical-and-expression};
func (p *Parser) visitLogicalOrExpression() *cabs.LogicalOrExpression {
	if ops := operandList(p, "||", p.visitLogicalAndExpression); ops != nil {
		return &cabs.LogicalOrExpression{Operands: ops}
	}
	return nil
}

// logical-and-expression = inclusive-or-expression, {'&&', inclusive-or-expression};
func (p *Parser) visitLogicalAndExpression() *cabs.LogicalAndExpression {
	if ops := operandList(p, "&&", p.visitInclusiveOrExpression); ops != nil {
		return &cabs.LogicalAndExpression{Operands: ops}
	}
	return nil
}

// inclusive-or-expression = exclusive-or-expression, {'|', exclusive-or-expression};
func (p *Parser) visitInclusiveOrExpression() *cabs.InclusiveOrExpression {
	if ops := operandList(p, "|", p.visitExclusiveOrExpression); ops != nil {
		return &cabs.InclusiveOrExpression{Operands: ops}
	}
	return nil
}

// exclusive-or-expression = and-expression, {'^', and-expression};
func (p *Parser) visitExclusiveOrExpression() *cabs.ExclusiveOrExpression {
	if ops := operandList(p, "^", p.visitAndExpression); ops != nil {
		return &cabs.ExclusiveOrExpression{Operands: ops}
	}
	return nil
}

// and-expression = equality-expression, {'&', equality-expression};
func (p *Parser) visitAndExpression() *cabs.AndExpression {
	if ops := operandList(p, "&", p.visitEqualityExpression); ops != nil {
		return &cabs.AndExpression{Operands: ops}
	}
	return nil
}

// matchOp returns the current symbol if it is one of ops.
func (p *Parser) matchOp(ops ...string) (string, bool) {
	if p.typ() != lexer.TokenSymbol {
		return "", false
	}
	for _, op := range ops {
		if p.text() == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

// equality-expression = relational-expression, {('==' | '!='), relational-expression};
func (p *Parser) visitEqualityExpression() *cabs.EqualityExpression {
	rhs := p.visitRelationalExpression()
	if rhs == nil {
		return nil
	}
	e := &cabs.EqualityExpression{Rhs: rhs}
	for {
		op, ok := p.matchOp("==", "!=")
		if !ok {
			return e
		}
		if rhs = p.visitRelationalExpression(); rhs == nil {
			return nil
		}
		e = &cabs.EqualityExpression{Prev: e, Op: op, Rhs: rhs}
	}
}

// relational-expression = shift-expression, {('<' | '>' | '<=' | '>='), shift-expression};
func (p *Parser) visitRelationalExpression() *cabs.RelationalExpression {
	rhs := p.visitShiftExpression()
	if rhs == nil {
		return nil
	}
	e := &cabs.RelationalExpression{Rhs: rhs}
	for {
		op, ok := p.matchOp("<", ">", "<=", ">=")
		if !ok {
			return e
		}
		if rhs = p.visitShiftExpression(); rhs == nil {
			return nil
		}
		e = &cabs.RelationalExpression{Prev: e, Op: op, Rhs: rhs}
	}
}

// shift-expression = additive-expression, {('<<' | '>>'), additive-expression};
func (p *Parser) visitShiftExpression() *cabs.ShiftExpression {
	rhs := p.visitAdditiveExpression()
	if rhs == nil {
		return nil
	}
	e := &cabs.ShiftExpression{Rhs: rhs}
	for {
		op, ok := p.matchOp("<<", ">>")
		if !ok {
			return e
		}
		if rhs = p.visitAdditiveExpression(); rhs == nil {
			return nil
		}
		e = &cabs.ShiftExpression{Prev: e, Op: op, Rhs: rhs}
	}
}

// additive-expression = multiplicative-expression, {('+' | '-'), multiplicative-expression};
func (p *Parser) visitAdditiveExpression() *cabs.AdditiveExpression {
	rhs := p.visitMultiplicativeExpression()
	if rhs == nil {
		return nil
	}
	e := &cabs.AdditiveExpression{Rhs: rhs}
	for {
		op, ok := p.matchOp("+", "-")
		if !ok {
			return e
		}
		if rhs = p.visitMultiplicativeExpression(); rhs == nil {
			return nil
		}
		e = &cabs.AdditiveExpression{Prev: e, Op: op, Rhs: rhs}
	}
}

// multiplicative-expression = cast-expression, {('*' | '/' | '%'), cast-expression};
func (p *Parser) visitMultiplicativeExpression() *cabs.MultiplicativeExpression {
	rhs := p.visitCastExpression()
	if rhs == nil {
		return nil
	}
	e := &cabs.MultiplicativeExpression{Rhs: rhs}
	for {
		op, ok := p.matchOp("*", "/", "%")
		if !ok {
			return e
		}
		if rhs = p.visitCastExpression(); rhs == nil {
			return nil
		}
		e = &cabs.MultiplicativeExpression{Prev: e, Op: op, Rhs: rhs}
	}
}

// cast-expression = '(', type-name, ')', cast-expression | unary-expression;
func (p *Parser) visitCastExpression() *cabs.CastExpression {
	return firstOf(p,
		func() *cabs.CastExpression {
			if !p.nextIf("(") {
				return nil
			}
			c := &cabs.CastExpression{}
			if c.TypeName = p.visitTypeName(); c.TypeName == nil || !p.nextIf(")") {
				return nil
			}
			if c.Cast = p.visitCastExpression(); c.Cast == nil {
				return nil
			}
			return c
		},
		func() *cabs.CastExpression {
			if u := p.visitUnaryExpression(); u != nil {
				return &cabs.CastExpression{Unary: u}
			}
			return nil
		},
	)
}

// unary-expression = postfix-expression | ('++' | '--'), unary-expression |
// unary-operator, cast-expression | 'sizeof', unary-expression |
// 'sizeof', '(', type-name, ')' | '_Alignof', '(', type-name, ')';
func (p *Parser) visitUnaryExpression() *cabs.UnaryExpression {
	if p.typ() == lexer.TokenSymbol {
		switch op := p.text(); op {
		case "++", "--":
			p.next()
			u := &cabs.UnaryExpression{Kind: cabs.UnaryPreInc}
			if op == "--" {
				u.Kind = cabs.UnaryPreDec
			}
			if u.Unary = p.visitUnaryExpression(); u.Unary == nil {
				return nil
			}
			return u
		case "&", "*", "+", "-", "~", "!":
			p.next()
			u := &cabs.UnaryExpression{Kind: cabs.UnaryOp, Op: op}
			if u.Cast = p.visitCastExpression(); u.Cast == nil {
				return nil
			}
			return u
		}
	}

	switch {
	case p.nextIf("sizeof"):
		return firstOf(p,
			func() *cabs.UnaryExpression {
				if inner := p.visitUnaryExpression(); inner != nil {
					return &cabs.UnaryExpression{Kind: cabs.UnarySizeofExpr, Unary: inner}
				}
				return nil
			},
			func() *cabs.UnaryExpression {
				if tn := p.parenTypeName(); tn != nil {
					return &cabs.UnaryExpression{Kind: cabs.UnarySizeofType, TypeName: tn}
				}
				return nil
			},
		)
	case p.nextIf("_Alignof"):
		if tn := p.parenTypeName(); tn != nil {
			return &cabs.UnaryExpression{Kind: cabs.UnaryAlignof, TypeName: tn}
		}
		return nil
	}

	if pf := p.visitPostfixExpression(); pf != nil {
		return &cabs.UnaryExpression{Kind: cabs.UnaryPostfix, Postfix: pf}
	}
	return nil
}

// parenTypeName reads '(', type-name, ')'.
func (p *Parser) parenTypeName() *cabs.TypeName {
	if !p.nextIf("(") {
		return nil
	}
	tn := p.visitTypeName()
	if tn == nil || !p.nextIf(")") {
		return nil
	}
	return tn
}

// postfix-expression = ('(', type-name, ')', '{', initializer-list, [','], '}' |
// primary-expression), {postfix-suffix};
func (p *Parser) visitPostfixExpression() *cabs.PostfixExpression {
	e := firstOf(p,
		func() *cabs.PostfixExpression {
			tn := p.parenTypeName()
			if tn == nil || !p.nextIf("{") {
				return nil
			}
			e := &cabs.PostfixExpression{Kind: cabs.PostCompound, TypeName: tn, Inits: &cabs.InitializerList{}}
			if !p.isSymbol("}") {
				if e.Inits = p.visitInitializerList(); e.Inits == nil {
					return nil
				}
				p.nextIf(",")
			}
			if !p.nextIf("}") {
				return nil
			}
			return e
		},
		func() *cabs.PostfixExpression {
			if prim := p.visitPrimaryExpression(); prim != nil {
				return &cabs.PostfixExpression{Kind: cabs.PostPrimary, Primary: prim}
			}
			return nil
		},
	)
	if e == nil {
		return nil
	}

	for {
		suffix := attempt(p, p.visitPostfixSuffix)
		if suffix == nil {
			return e
		}
		suffix.Child = e
		e = suffix
	}
}

// postfix-suffix = '[', expression, ']' | '(', [argument-expression-list], ')' |
// ('.' | '->'), identifier | '++' | '--';
func (p *Parser) visitPostfixSuffix() *cabs.PostfixExpression {
	if p.typ() != lexer.TokenSymbol {
		return nil
	}
	switch op := p.text(); op {
	case "[":
		p.next()
		e := &cabs.PostfixExpression{Kind: cabs.PostIndex}
		if e.Index = p.visitExpression(); e.Index == nil || !p.nextIf("]") {
			return nil
		}
		return e
	case "(":
		p.next()
		e := &cabs.PostfixExpression{Kind: cabs.PostCall}
		e.Args = attempt(p, p.visitArgumentExpressionList)
		if !p.nextIf(")") {
			return nil
		}
		return e
	case ".", "->":
		p.next()
		e := &cabs.PostfixExpression{Kind: cabs.PostMember}
		if op == "->" {
			e.Kind = cabs.PostArrow
		}
		if e.Member = p.visitIdentifier(); e.Member == "" {
			return nil
		}
		return e
	case "++":
		p.next()
		return &cabs.PostfixExpression{Kind: cabs.PostInc}
	case "--":
		p.next()
		return &cabs.PostfixExpression{Kind: cabs.PostDec}
	}
	return nil
}

// argument-expression-list = assignment-expression, {',', assignment-expression};
func (p *Parser) visitArgumentExpressionList() *cabs.ArgumentExpressionList {
	first := p.visitAssignmentExpression()
	if first == nil {
		return nil
	}
	l := &cabs.ArgumentExpressionList{Args: []*cabs.AssignmentExpression{first}}
	for p.nextIf(",") {
		next := p.visitAssignmentExpression()
		if next == nil {
			return nil
		}
		l.Args = append(l.Args, next)
	}
	return l
}

// primary-expression = '(', expression, ')' | enumeration-constant |
// identifier | constant | string, {string} | generic-selection;
func (p *Parser) visitPrimaryExpression() *cabs.PrimaryExpression {
	prim := &cabs.PrimaryExpression{Pos: p.pos()}
	switch p.typ() {
	case lexer.TokenSymbol:
		if !p.nextIf("(") {
			return nil
		}
		prim.Kind = cabs.PrimParen
		if prim.Expr = p.visitExpression(); prim.Expr == nil || !p.nextIf(")") {
			return nil
		}
		return prim
	case lexer.TokenIdent:
		if p.enumConsts.has(p.text()) {
			prim.Kind = cabs.PrimConstant
			prim.Constant = &cabs.Constant{Kind: cabs.ConstEnum, Text: p.text()}
			p.next()
			return prim
		}
		if prim.Ident = p.visitIdentifier(); prim.Ident == "" {
			return nil
		}
		prim.Kind = cabs.PrimIdent
		return prim
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenChar:
		prim.Kind = cabs.PrimConstant
		prim.Constant = p.visitConstant()
		return prim
	case lexer.TokenString:
		prim.Kind = cabs.PrimString
		prim.String = p.visitStringLiteral()
		return prim
	case lexer.TokenKeyword:
		if prim.Generic = p.visitGenericSelection(); prim.Generic == nil {
			return nil
		}
		prim.Kind = cabs.PrimGeneric
		return prim
	}
	return nil
}

// visitConstant reads an integer, floating or character literal.
func (p *Parser) visitConstant() *cabs.Constant {
	c := &cabs.Constant{Text: p.text(), Fix: p.c.Fix()}
	switch p.typ() {
	case lexer.TokenInt:
		c.Kind = cabs.ConstInt
	case lexer.TokenFloat:
		c.Kind = cabs.ConstFloat
	case lexer.TokenChar:
		c.Kind = cabs.ConstChar
	default:
		return nil
	}
	p.next()
	return c
}

// visitStringLiteral concatenates adjacent string literals that share a
// prefix and re-quotes the result. A wide literal never absorbs a narrow
// one or the other way round.
func (p *Parser) visitStringLiteral() *cabs.StringLiteral {
	if p.typ() != lexer.TokenString {
		return nil
	}
	fix := p.c.Fix()
	if fix == "L" {
		var rs []rune
		for p.typ() == lexer.TokenString && p.c.Fix() == fix {
			rs = append(rs, lexer.UnquoteWide(p.text(), '"')...)
			p.next()
		}
		return &cabs.StringLiteral{Text: lexer.QuoteWide(rs, '"'), Fix: fix}
	}
	var s string
	for p.typ() == lexer.TokenString && p.c.Fix() == fix {
		s += lexer.Unquote(p.text(), '"')
		p.next()
	}
	return &cabs.StringLiteral{Text: lexer.Quote(s, '"'), Fix: fix}
}

// generic-selection = '_Generic', '(', assignment-expression, ',',
// generic-association, {',', generic-association}, ')';
func (p *Parser) visitGenericSelection() *cabs.GenericSelection {
	if !p.nextIf("_Generic") || !p.nextIf("(") {
		return nil
	}
	g := &cabs.GenericSelection{Assocs: &cabs.GenericAssocList{}}
	if g.Control = p.visitAssignmentExpression(); g.Control == nil || !p.nextIf(",") {
		return nil
	}
	for {
		a := p.visitGenericAssociation()
		if a == nil {
			return nil
		}
		g.Assocs.Assocs = append(g.Assocs.Assocs, a)
		if !p.nextIf(",") {
			break
		}
	}
	if !p.nextIf(")") {
		return nil
	}
	return g
}

// generic-association = (type-name | 'default'), ':', assignment-expression;
func (p *Parser) visitGenericAssociation() *cabs.GenericAssociation {
	a := &cabs.GenericAssociation{}
	if !p.nextIf("default") {
		if a.TypeName = p.visitTypeName(); a.TypeName == nil {
			return nil
		}
	}
	if !p.nextIf(":") {
		return nil
	}
	if a.Expr = p.visitAssignmentExpression(); a.Expr == nil {
		return nil
	}
	return a
}
