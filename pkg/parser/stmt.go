package parser

import (
	"strings"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/lexer"
)

// stmt adapts a visit method returning a concrete statement so that a
// failure comes back as a nil interface.
func stmt[T interface {
	comparable
	cabs.Stmt
}](fn func() T) func() cabs.Stmt {
	return func() cabs.Stmt {
		var zero T
		if s := fn(); s != zero {
			return s
		}
		return nil
	}
}

// statement = labeled-statement | compound-statement | expression-statement |
// selection-statement | iteration-statement | jump-statement | asm-statement;
func (p *Parser) visitStatement() cabs.Stmt {
	return firstOf(p,
		stmt(p.visitLabeledStatement),
		stmt(p.visitCompoundStatement),
		stmt(p.visitExpressionStatement),
		stmt(p.visitSelectionStatement),
		stmt(p.visitIterationStatement),
		stmt(p.visitJumpStatement),
		stmt(p.visitAsmStatement),
	)
}

// labeled-statement = identifier, ':', statement |
// 'case', constant-expression, ':', statement | 'default', ':', statement;
func (p *Parser) visitLabeledStatement() *cabs.LabeledStatement {
	s := &cabs.LabeledStatement{Pos: p.pos()}
	switch {
	case p.nextIf("case"):
		s.Kind = cabs.LabelCase
		if s.Expr = p.visitConditionalExpression(); s.Expr == nil {
			return nil
		}
	case p.nextIf("default"):
		s.Kind = cabs.LabelDefault
	default:
		s.Kind = cabs.LabelIdent
		if s.Label = p.visitIdentifier(); s.Label == "" {
			return nil
		}
	}
	if !p.nextIf(":") {
		return nil
	}
	if s.Stmt = p.visitStatement(); s.Stmt == nil {
		return nil
	}
	return s
}

// compound-statement = '{', {block-item}, '}';
func (p *Parser) visitCompoundStatement() *cabs.CompoundStatement {
	s := &cabs.CompoundStatement{Pos: p.pos()}
	if !p.nextIf("{") {
		return nil
	}
	if items := many(p, p.visitBlockItem); len(items) > 0 {
		s.List = &cabs.BlockItemList{Items: items}
	}
	if !p.nextIf("}") {
		return nil
	}
	return s
}

// block-item = declaration | statement;
func (p *Parser) visitBlockItem() *cabs.BlockItem {
	if d := attempt(p, p.visitDeclaration); d != nil {
		return &cabs.BlockItem{Decl: d}
	}
	if s := p.visitStatement(); s != nil {
		return &cabs.BlockItem{Stmt: s}
	}
	return nil
}

// expression-statement = [expression], ';';
func (p *Parser) visitExpressionStatement() *cabs.ExpressionStatement {
	s := &cabs.ExpressionStatement{Pos: p.pos()}
	if p.nextIf(";") {
		return s
	}
	if s.Expr = p.visitExpression(); s.Expr == nil || !p.nextIf(";") {
		return nil
	}
	return s
}

// parenExpression reads '(', expression, ')'.
func (p *Parser) parenExpression() *cabs.Expression {
	if !p.nextIf("(") {
		return nil
	}
	e := p.visitExpression()
	if e == nil || !p.nextIf(")") {
		return nil
	}
	return e
}

// selection-statement = 'if', '(', expression, ')', statement,
// ['else', statement] | 'switch', '(', expression, ')', statement;
func (p *Parser) visitSelectionStatement() *cabs.SelectionStatement {
	s := &cabs.SelectionStatement{Pos: p.pos()}
	switch {
	case p.nextIf("if"):
		s.Kind = cabs.SelIf
	case p.nextIf("switch"):
		s.Kind = cabs.SelSwitch
	default:
		return nil
	}
	if s.Cond = p.parenExpression(); s.Cond == nil {
		return nil
	}
	if s.Then = p.visitStatement(); s.Then == nil {
		return nil
	}
	if s.Kind == cabs.SelIf && p.nextIf("else") {
		if s.Else = p.visitStatement(); s.Else == nil {
			return nil
		}
	}
	return s
}

// iteration-statement = 'while', '(', expression, ')', statement |
// 'do', statement, 'while', '(', expression, ')', ';' |
// 'for', '(', (expression, ';' | ';' | declaration), [expression], ';',
// [expression], ')', statement;
func (p *Parser) visitIterationStatement() *cabs.IterationStatement {
	s := &cabs.IterationStatement{Pos: p.pos()}
	switch {
	case p.nextIf("while"):
		s.Kind = cabs.IterWhile
		if s.Cond = p.parenExpression(); s.Cond == nil {
			return nil
		}
		if s.Body = p.visitStatement(); s.Body == nil {
			return nil
		}
	case p.nextIf("do"):
		s.Kind = cabs.IterDo
		if s.Body = p.visitStatement(); s.Body == nil || !p.nextIf("while") {
			return nil
		}
		if s.Cond = p.parenExpression(); s.Cond == nil || !p.nextIf(";") {
			return nil
		}
	case p.nextIf("for"):
		s.Kind = cabs.IterFor
		if !p.nextIf("(") || !p.visitForInit(s) {
			return nil
		}
		if !p.isSymbol(";") {
			if s.Cond = p.visitExpression(); s.Cond == nil {
				return nil
			}
		}
		if !p.nextIf(";") {
			return nil
		}
		if !p.isSymbol(")") {
			if s.Step = p.visitExpression(); s.Step == nil {
				return nil
			}
		}
		if !p.nextIf(")") {
			return nil
		}
		if s.Body = p.visitStatement(); s.Body == nil {
			return nil
		}
	default:
		return nil
	}
	return s
}

// visitForInit reads the first clause of a for loop including its ';'.
func (p *Parser) visitForInit(s *cabs.IterationStatement) bool {
	s.Init = attempt(p, func() *cabs.Expression {
		e := p.visitExpression()
		if e == nil || !p.nextIf(";") {
			return nil
		}
		return e
	})
	if s.Init != nil || p.nextIf(";") {
		return true
	}
	s.InitDecl = attempt(p, p.visitDeclaration)
	return s.InitDecl != nil
}

// jump-statement = 'goto', identifier, ';' | 'continue', ';' | 'break', ';' |
// 'return', [expression], ';';
func (p *Parser) visitJumpStatement() *cabs.JumpStatement {
	s := &cabs.JumpStatement{Pos: p.pos()}
	switch {
	case p.nextIf("goto"):
		s.Kind = cabs.JumpGoto
		if s.Label = p.visitIdentifier(); s.Label == "" {
			return nil
		}
	case p.nextIf("continue"):
		s.Kind = cabs.JumpContinue
	case p.nextIf("break"):
		s.Kind = cabs.JumpBreak
	case p.nextIf("return"):
		s.Kind = cabs.JumpReturn
		if !p.isSymbol(";") {
			if s.Expr = p.visitExpression(); s.Expr == nil {
				return nil
			}
		}
	default:
		return nil
	}
	if !p.nextIf(";") {
		return nil
	}
	return s
}

// asm-statement = ('__asm__' | '__asm'), ['__volatile__' | 'volatile'],
// '(', ..., ')', ';' | '__asm', '{', ..., '}';
//
// The body is kept as the space separated token text.
func (p *Parser) visitAsmStatement() *cabs.AsmStatement {
	if p.typ() != lexer.TokenKeyword || (p.text() != "__asm__" && p.text() != "__asm") {
		return nil
	}
	s := &cabs.AsmStatement{Keyword: p.text(), Pos: p.pos()}
	p.next()

	start := p.c.Index()
	if p.isSymbol("{") {
		end := p.c.BraceClose()
		if end >= p.c.Len() {
			return nil
		}
		s.Text = p.joinTokens(start, end)
		p.seek(end)
		return s
	}

	if !p.nextIf("__volatile__") {
		p.nextIf("volatile")
	}
	if !p.isSymbol("(") {
		return nil
	}
	end := p.c.ParenClose()
	if end >= p.c.Len() {
		return nil
	}
	s.Text = p.joinTokens(start, end)
	p.seek(end)
	if !p.nextIf(";") {
		return nil
	}
	return s
}

// joinTokens returns the literals of tokens [from, to) joined by blanks.
func (p *Parser) joinTokens(from, to int) string {
	parts := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		tok := p.c.At(i)
		if tok.Type == lexer.TokenEOF {
			break
		}
		switch tok.Type {
		case lexer.TokenString, lexer.TokenChar:
			parts = append(parts, tok.Fix+tok.Literal)
		default:
			parts = append(parts, tok.Literal+tok.Fix)
		}
	}
	return strings.Join(parts, " ")
}
