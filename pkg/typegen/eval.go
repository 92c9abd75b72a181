package typegen

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/ctypes"
	"github.com/raymyers/cparse/pkg/lexer"
)

var (
	// ErrNotConstant is returned for expressions that cannot be folded.
	ErrNotConstant = errors.New("not an integer constant expression")
	// ErrDivideByZero is returned for a constant division or remainder by
	// zero.
	ErrDivideByZero = errors.New("division by zero in constant expression")
)

// Eval folds e in the current scope.
func (t *Translator) Eval(e cabs.Expr) (ctypes.Value, error) {
	return t.eval(e)
}

// constValue folds e and reports a diagnostic naming what when it is not
// an integer constant.
func (t *Translator) constValue(e cabs.Expr, what string) (ctypes.Value, bool) {
	v, err := t.eval(e)
	if err == nil {
		if _, ok := ctypes.AsInt64(v); !ok {
			err = ErrNotConstant
		}
	}
	if err != nil {
		t.diag.AddError(t.pos, "%s: %v", what, err)
		return nil, false
	}
	return v, true
}

func (t *Translator) constInt(e cabs.Expr, what string) (int64, bool) {
	v, ok := t.constValue(e, what)
	if !ok {
		return 0, false
	}
	n, _ := ctypes.AsInt64(v)
	return n, true
}

func notConstant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotConstant, fmt.Sprintf(format, args...))
}

func (t *Translator) eval(e cabs.Expr) (ctypes.Value, error) {
	switch e := e.(type) {
	case *cabs.Expression:
		if e == nil || len(e.Items) == 0 {
			return nil, ErrNotConstant
		}
		if len(e.Items) > 1 {
			return nil, notConstant("comma operator")
		}
		return t.eval(e.Items[0])
	case *cabs.AssignmentExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		if e.Unary != nil {
			return nil, notConstant("assignment")
		}
		return t.eval(e.Cond)
	case *cabs.ConditionalExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		c, err := t.eval(e.Cond)
		if err != nil || e.Then == nil {
			return c, err
		}
		if truth(c) {
			return t.eval(e.Then)
		}
		return t.eval(e.Else)
	case *cabs.LogicalOrExpression:
		return foldLogical(t, e.Operands, true)
	case *cabs.LogicalAndExpression:
		return foldLogical(t, e.Operands, false)
	case *cabs.InclusiveOrExpression:
		return foldList(t, e.Operands, "|")
	case *cabs.ExclusiveOrExpression:
		return foldList(t, e.Operands, "^")
	case *cabs.AndExpression:
		return foldList(t, e.Operands, "&")
	case *cabs.EqualityExpression:
		return t.chain(e.Prev, e.Prev != nil, e.Op, e.Rhs)
	case *cabs.RelationalExpression:
		return t.chain(e.Prev, e.Prev != nil, e.Op, e.Rhs)
	case *cabs.ShiftExpression:
		return t.chain(e.Prev, e.Prev != nil, e.Op, e.Rhs)
	case *cabs.AdditiveExpression:
		return t.chain(e.Prev, e.Prev != nil, e.Op, e.Rhs)
	case *cabs.MultiplicativeExpression:
		return t.chain(e.Prev, e.Prev != nil, e.Op, e.Rhs)
	case *cabs.CastExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		if e.TypeName == nil {
			return t.eval(e.Unary)
		}
		v, err := t.eval(e.Cast)
		if err != nil {
			return nil, err
		}
		return t.convert(v, t.typeName(e.TypeName))
	case *cabs.UnaryExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		return t.unary(e)
	case *cabs.PostfixExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		if e.Kind != cabs.PostPrimary {
			return nil, notConstant("%s expression", e.Kind)
		}
		return t.eval(e.Primary)
	case *cabs.PrimaryExpression:
		if e == nil {
			return nil, ErrNotConstant
		}
		return t.primary(e)
	}
	return nil, ErrNotConstant
}

func foldList[T cabs.Expr](t *Translator, operands []T, op string) (ctypes.Value, error) {
	var acc ctypes.Value
	for i, o := range operands {
		v, err := t.eval(o)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = v
			continue
		}
		if acc, err = binary(op, acc, v); err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return nil, ErrNotConstant
	}
	return acc, nil
}

// foldLogical folds || (or) and && (!or) with short circuit: operands
// after the deciding one are not evaluated.
func foldLogical[T cabs.Expr](t *Translator, operands []T, or bool) (ctypes.Value, error) {
	for _, o := range operands {
		v, err := t.eval(o)
		if err != nil {
			return nil, err
		}
		if len(operands) == 1 {
			return v, nil
		}
		if truth(v) == or {
			return boolValue(or), nil
		}
	}
	return boolValue(!or), nil
}

func (t *Translator) chain(prev cabs.Expr, hasPrev bool, op string, rhs cabs.Expr) (ctypes.Value, error) {
	if !hasPrev {
		return t.eval(rhs)
	}
	l, err := t.eval(prev)
	if err != nil {
		return nil, err
	}
	r, err := t.eval(rhs)
	if err != nil {
		return nil, err
	}
	return binary(op, l, r)
}

func (t *Translator) unary(e *cabs.UnaryExpression) (ctypes.Value, error) {
	switch e.Kind {
	case cabs.UnaryPostfix:
		return t.eval(e.Postfix)
	case cabs.UnaryOp:
		switch e.Op {
		case "&", "*":
			return nil, notConstant("unary %s", e.Op)
		}
		v, err := t.eval(e.Cast)
		if err != nil {
			return nil, err
		}
		return unaryOp(e.Op, v)
	case cabs.UnarySizeofType:
		return t.sizeof(t.typeName(e.TypeName))
	case cabs.UnarySizeofExpr:
		typ, err := t.exprType(e.Unary)
		if err != nil {
			return nil, err
		}
		return t.sizeof(typ)
	case cabs.UnaryAlignof:
		u := t.ctx.Type(t.ctx.Underlying(t.typeName(e.TypeName)))
		if u == nil {
			return nil, ErrNotConstant
		}
		return ctypes.UintValue(max(u.Align, u.Alignas)), nil
	}
	return nil, notConstant("%s expression", e.Kind)
}

func (t *Translator) sizeof(typ ctypes.TypeID) (ctypes.Value, error) {
	u := t.ctx.Type(t.ctx.Underlying(typ))
	switch {
	case u == nil:
		return nil, ErrNotConstant
	case u.Flags.Any(ctypes.Func):
		return nil, notConstant("sizeof of a function type")
	case u.Flags.Any(ctypes.Array) && u.Count < 0:
		return nil, notConstant("sizeof of an array of unknown size")
	case u.Struct != 0 && !t.ctx.Struct(u.Struct).Complete:
		return nil, notConstant("sizeof of incomplete %s", u.Name)
	}
	return ctypes.UintValue(u.Size), nil
}

// exprType types the few operands of sizeof that are foldable: names of
// objects, string literals and parenthesized forms of those.
func (t *Translator) exprType(u *cabs.UnaryExpression) (ctypes.TypeID, error) {
	if u == nil || u.Kind != cabs.UnaryPostfix || u.Postfix.Kind != cabs.PostPrimary {
		return 0, notConstant("sizeof of a complex expression")
	}
	prim := u.Postfix.Primary
	switch prim.Kind {
	case cabs.PrimIdent:
		e := t.ctx.Entity(t.ctx.ResolveEntry(t.scope, prim.Ident))
		if e == nil || e.Kind == ctypes.EntityTypedef {
			return 0, notConstant("undeclared %s", prim.Ident)
		}
		return e.Type, nil
	case cabs.PrimString:
		n := len(stringValue(prim.String)) + 1
		return t.ctx.AddArrayType(t.ctx.Basic(ctypes.Char), n, prim.Pos), nil
	case cabs.PrimConstant:
		v, err := t.primary(prim)
		if err != nil {
			return 0, err
		}
		if _, ok := v.(ctypes.UintValue); ok {
			return t.ctx.Basic(ctypes.Unsigned | ctypes.Int), nil
		}
		return t.ctx.Basic(ctypes.Int), nil
	case cabs.PrimParen:
		if prim.Expr != nil && len(prim.Expr.Items) == 1 {
			a := prim.Expr.Items[0]
			if a.Unary == nil && a.Cond != nil && a.Cond.Then == nil {
				if inner := soleUnary(a.Cond); inner != nil {
					return t.exprType(inner)
				}
			}
		}
	}
	return 0, notConstant("sizeof of a complex expression")
}

// soleUnary returns the unary expression that c consists of, if c has no
// operators at all.
func soleUnary(c *cabs.ConditionalExpression) *cabs.UnaryExpression {
	or := c.Cond
	if len(or.Operands) != 1 {
		return nil
	}
	and := or.Operands[0]
	if len(and.Operands) != 1 {
		return nil
	}
	ior := and.Operands[0]
	if len(ior.Operands) != 1 {
		return nil
	}
	xor := ior.Operands[0]
	if len(xor.Operands) != 1 {
		return nil
	}
	band := xor.Operands[0]
	if len(band.Operands) != 1 {
		return nil
	}
	eq := band.Operands[0]
	if eq.Prev != nil || eq.Rhs.Prev != nil || eq.Rhs.Rhs.Prev != nil || eq.Rhs.Rhs.Rhs.Prev != nil || eq.Rhs.Rhs.Rhs.Rhs.Prev != nil {
		return nil
	}
	cast := eq.Rhs.Rhs.Rhs.Rhs.Rhs
	if cast.TypeName != nil {
		return nil
	}
	return cast.Unary
}

func (t *Translator) primary(p *cabs.PrimaryExpression) (ctypes.Value, error) {
	switch p.Kind {
	case cabs.PrimIdent:
		return t.enumConstant(p.Ident)
	case cabs.PrimConstant:
		c := p.Constant
		switch c.Kind {
		case cabs.ConstInt:
			return intConstant(c.Text, c.Fix)
		case cabs.ConstChar:
			return charConstant(c.Text, c.Fix)
		case cabs.ConstEnum:
			return t.enumConstant(c.Text)
		}
		return nil, notConstant("floating constant %s%s", c.Text, c.Fix)
	case cabs.PrimString:
		return ctypes.StringValue(stringValue(p.String)), nil
	case cabs.PrimParen:
		return t.eval(p.Expr)
	}
	return nil, notConstant("generic selection")
}

func (t *Translator) enumConstant(name string) (ctypes.Value, error) {
	e := t.ctx.Entity(t.ctx.ResolveEntry(t.scope, name))
	if e == nil || e.Kind != ctypes.EntityEnumValue {
		return nil, notConstant("%s is not an enumeration constant", name)
	}
	if v, ok := t.ctx.Enum(ctypes.EnumID(e.Ref)).Lookup(name); ok {
		return v, nil
	}
	return nil, notConstant("%s has no value", name)
}

// intConstant parses an integer literal. The u suffix, or a value too
// large for a signed 64-bit integer, makes it unsigned.
func intConstant(text, fix string) (ctypes.Value, error) {
	n, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return nil, notConstant("integer constant %s out of range", text)
	}
	if strings.ContainsAny(fix, "uU") || n > math.MaxInt64 {
		return ctypes.UintValue(n), nil
	}
	return ctypes.IntValue(n), nil
}

// charConstant gives a narrow character constant the value of a signed
// char, and folds multi-character constants big endian into an int.
func charConstant(text, fix string) (ctypes.Value, error) {
	if fix != "" {
		rs := lexer.UnquoteWide(text, '\'')
		if len(rs) == 0 {
			return nil, notConstant("empty character constant")
		}
		return ctypes.IntValue(rs[0]), nil
	}
	s := lexer.Unquote(text, '\'')
	switch len(s) {
	case 0:
		return nil, notConstant("empty character constant")
	case 1:
		return ctypes.IntValue(int8(s[0])), nil
	}
	var v int32
	for i := 0; i < len(s); i++ {
		v = v<<8 | int32(s[i])
	}
	return ctypes.IntValue(v), nil
}

func stringValue(s *cabs.StringLiteral) string {
	if s.Fix != "" {
		return string(lexer.UnquoteWide(s.Text, '"'))
	}
	return lexer.Unquote(s.Text, '"')
}

func truth(v ctypes.Value) bool {
	n, ok := ctypes.AsUint64(v)
	if !ok {
		return v != nil
	}
	return n != 0
}

func boolValue(b bool) ctypes.Value {
	if b {
		return ctypes.IntValue(1)
	}
	return ctypes.IntValue(0)
}

func unaryOp(op string, v ctypes.Value) (ctypes.Value, error) {
	switch v := v.(type) {
	case ctypes.IntValue:
		switch op {
		case "+":
			return v, nil
		case "-":
			return -v, nil
		case "~":
			return ^v, nil
		case "!":
			return boolValue(v == 0), nil
		}
	case ctypes.UintValue:
		switch op {
		case "+":
			return v, nil
		case "-":
			return -v, nil
		case "~":
			return ^v, nil
		case "!":
			return boolValue(v == 0), nil
		}
	}
	return nil, notConstant("unary %s", op)
}

// binary applies op to two integer constants. An unsigned operand makes
// the operation unsigned; a shift takes the signedness of its left
// operand.
func binary(op string, l, r ctypes.Value) (ctypes.Value, error) {
	x, okx := ctypes.AsInt64(l)
	y, oky := ctypes.AsInt64(r)
	if !okx || !oky {
		return nil, notConstant("operator %s on a non-integer", op)
	}
	_, lu := l.(ctypes.UintValue)
	_, ru := r.(ctypes.UintValue)
	unsigned := lu || ru
	if op == "<<" || op == ">>" {
		unsigned = lu
	}

	if unsigned {
		a, b := uint64(x), uint64(y)
		switch op {
		case "*":
			return ctypes.UintValue(a * b), nil
		case "/", "%":
			if b == 0 {
				return nil, ErrDivideByZero
			}
			if op == "/" {
				return ctypes.UintValue(a / b), nil
			}
			return ctypes.UintValue(a % b), nil
		case "+":
			return ctypes.UintValue(a + b), nil
		case "-":
			return ctypes.UintValue(a - b), nil
		case "<<":
			return ctypes.UintValue(a << b), nil
		case ">>":
			return ctypes.UintValue(a >> b), nil
		case "<":
			return boolValue(a < b), nil
		case ">":
			return boolValue(a > b), nil
		case "<=":
			return boolValue(a <= b), nil
		case ">=":
			return boolValue(a >= b), nil
		case "==":
			return boolValue(a == b), nil
		case "!=":
			return boolValue(a != b), nil
		case "&":
			return ctypes.UintValue(a & b), nil
		case "^":
			return ctypes.UintValue(a ^ b), nil
		case "|":
			return ctypes.UintValue(a | b), nil
		}
		return nil, notConstant("operator %s", op)
	}

	switch op {
	case "*":
		return ctypes.IntValue(x * y), nil
	case "/", "%":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		if op == "/" {
			return ctypes.IntValue(x / y), nil
		}
		return ctypes.IntValue(x % y), nil
	case "+":
		return ctypes.IntValue(x + y), nil
	case "-":
		return ctypes.IntValue(x - y), nil
	case "<<":
		return ctypes.IntValue(x << uint64(y)), nil
	case ">>":
		return ctypes.IntValue(x >> uint64(y)), nil
	case "<":
		return boolValue(x < y), nil
	case ">":
		return boolValue(x > y), nil
	case "<=":
		return boolValue(x <= y), nil
	case ">=":
		return boolValue(x >= y), nil
	case "==":
		return boolValue(x == y), nil
	case "!=":
		return boolValue(x != y), nil
	case "&":
		return ctypes.IntValue(x & y), nil
	case "^":
		return ctypes.IntValue(x ^ y), nil
	case "|":
		return ctypes.IntValue(x | y), nil
	}
	return nil, notConstant("operator %s", op)
}

// convert casts an integer constant to typ, truncating to its size.
func (t *Translator) convert(v ctypes.Value, typ ctypes.TypeID) (ctypes.Value, error) {
	n, ok := ctypes.AsUint64(v)
	if !ok {
		return nil, notConstant("cast of a non-integer")
	}
	u := t.ctx.Type(t.ctx.Underlying(typ))
	if u == nil {
		return nil, ErrNotConstant
	}
	f := u.Flags
	switch {
	case f.Any(ctypes.Pointer):
		return truncate(n, u.Size, true), nil
	case f.Any(ctypes.Bool):
		return boolValue(n != 0), nil
	case f.Any(ctypes.Floating | ctypes.Array | ctypes.Func | ctypes.Void):
		return nil, notConstant("cast to %s", u.Name)
	case f.Any(ctypes.Tag) && u.Enum == 0:
		return nil, notConstant("cast to %s", u.Name)
	}
	return truncate(n, u.Size, f.Any(ctypes.Unsigned)), nil
}

func truncate(n uint64, size int, unsigned bool) ctypes.Value {
	if size <= 0 || size >= 8 {
		if unsigned {
			return ctypes.UintValue(n)
		}
		return ctypes.IntValue(n)
	}
	bits := uint(size * 8)
	n &= 1<<bits - 1
	if unsigned {
		return ctypes.UintValue(n)
	}
	if n&(1<<(bits-1)) != 0 {
		return ctypes.IntValue(int64(n) - int64(1)<<bits)
	}
	return ctypes.IntValue(n)
}
