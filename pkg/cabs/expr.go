package cabs

import "modernc.org/token"

// Expression is a comma separated list of assignments.
type Expression struct {
	Items []*AssignmentExpression
}

// AssignmentExpression is either a conditional expression or
// "unary op assignment", right-recursive through Next.
type AssignmentExpression struct {
	Cond  *ConditionalExpression
	Unary *UnaryExpression
	Op    string
	Next  *AssignmentExpression
}

// IsAssign reports whether e is the "unary op assignment" form.
func (e *AssignmentExpression) IsAssign() bool { return e.Unary != nil }

// ConditionalExpression is "cond [? then : else]", right-recursive
// through Else.
type ConditionalExpression struct {
	Cond *LogicalOrExpression
	Then *Expression
	Else *ConditionalExpression
}

// LogicalOrExpression is operands joined by "||".
type LogicalOrExpression struct {
	Operands []*LogicalAndExpression
}

// LogicalAndExpression is operands joined by "&&".
type LogicalAndExpression struct {
	Operands []*InclusiveOrExpression
}

// InclusiveOrExpression is operands joined by "|".
type InclusiveOrExpression struct {
	Operands []*ExclusiveOrExpression
}

// ExclusiveOrExpression is operands joined by "^".
type ExclusiveOrExpression struct {
	Operands []*AndExpression
}

// AndExpression is operands joined by "&".
type AndExpression struct {
	Operands []*EqualityExpression
}

// EqualityExpression is "Prev Op Rhs" with Op "==" or "!=", or just Rhs
// when Prev is nil.
type EqualityExpression struct {
	Prev *EqualityExpression
	Op   string
	Rhs  *RelationalExpression
}

// RelationalExpression is the "<", ">", "<=", ">=" level.
type RelationalExpression struct {
	Prev *RelationalExpression
	Op   string
	Rhs  *ShiftExpression
}

// ShiftExpression is the "<<", ">>" level.
type ShiftExpression struct {
	Prev *ShiftExpression
	Op   string
	Rhs  *AdditiveExpression
}

// AdditiveExpression is the "+", "-" level.
type AdditiveExpression struct {
	Prev *AdditiveExpression
	Op   string
	Rhs  *MultiplicativeExpression
}

// MultiplicativeExpression is the "*", "/", "%" level.
type MultiplicativeExpression struct {
	Prev *MultiplicativeExpression
	Op   string
	Rhs  *CastExpression
}

// CastExpression is "( type-name ) cast" or a unary expression.
type CastExpression struct {
	TypeName *TypeName
	Cast     *CastExpression
	Unary    *UnaryExpression
}

// UnaryKind discriminates UnaryExpression.
type UnaryKind int

const (
	UnaryPostfix    UnaryKind = iota
	UnaryPreInc               // ++ unary
	UnaryPreDec               // -- unary
	UnaryOp                   // & * + - ~ ! cast
	UnarySizeofExpr           // sizeof unary
	UnarySizeofType           // sizeof ( type-name )
	UnaryAlignof              // _Alignof ( type-name )
)

// UnaryExpression is a postfix expression or a prefix operator form.
type UnaryExpression struct {
	Kind     UnaryKind
	Postfix  *PostfixExpression
	Unary    *UnaryExpression
	Op       string
	Cast     *CastExpression
	TypeName *TypeName
}

// PostfixKind discriminates PostfixExpression.
type PostfixKind int

const (
	PostPrimary  PostfixKind = iota
	PostCompound             // ( type-name ) { initializer-list }
	PostIndex                // child [ expression ]
	PostCall                 // child ( arguments )
	PostMember               // child . identifier
	PostArrow                // child -> identifier
	PostInc                  // child ++
	PostDec                  // child --
)

// PostfixExpression is a primary expression or compound literal with a
// chain of suffixes; each suffix wraps the previous chain in Child.
type PostfixExpression struct {
	Kind     PostfixKind
	Primary  *PrimaryExpression
	TypeName *TypeName
	Inits    *InitializerList
	Child    *PostfixExpression
	Index    *Expression
	Args     *ArgumentExpressionList
	Member   string
}

// ArgumentExpressionList is the arguments of a call.
type ArgumentExpressionList struct {
	Args []*AssignmentExpression
}

// PrimaryKind discriminates PrimaryExpression.
type PrimaryKind int

const (
	PrimIdent PrimaryKind = iota
	PrimConstant
	PrimString
	PrimParen
	PrimGeneric
)

// PrimaryExpression is an identifier, constant, string, parenthesized
// expression or generic selection.
type PrimaryExpression struct {
	Kind     PrimaryKind
	Ident    string
	Constant *Constant
	String   *StringLiteral
	Expr     *Expression
	Generic  *GenericSelection
	Pos      token.Position
}

// ConstKind discriminates Constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstChar
	ConstEnum
)

// Constant is a numeric, character or enumeration constant. Text is the
// literal as written; Fix is its suffix or "L" prefix.
type Constant struct {
	Kind ConstKind
	Text string
	Fix  string
}

// StringLiteral is one or more adjacent string tokens concatenated and
// re-quoted. Fix is "L" for wide strings.
type StringLiteral struct {
	Text string
	Fix  string
}

// GenericSelection is _Generic ( control , associations ).
type GenericSelection struct {
	Control *AssignmentExpression
	Assocs  *GenericAssocList
}

// GenericAssocList is the associations of a generic selection.
type GenericAssocList struct {
	Assocs []*GenericAssociation
}

// GenericAssociation maps a type name, or default when TypeName is nil,
// to an expression.
type GenericAssociation struct {
	TypeName *TypeName
	Expr     *AssignmentExpression
}

func (*Expression) implCabsNode()               {}
func (*AssignmentExpression) implCabsNode()     {}
func (*ConditionalExpression) implCabsNode()    {}
func (*LogicalOrExpression) implCabsNode()      {}
func (*LogicalAndExpression) implCabsNode()     {}
func (*InclusiveOrExpression) implCabsNode()    {}
func (*ExclusiveOrExpression) implCabsNode()    {}
func (*AndExpression) implCabsNode()            {}
func (*EqualityExpression) implCabsNode()       {}
func (*RelationalExpression) implCabsNode()     {}
func (*ShiftExpression) implCabsNode()          {}
func (*AdditiveExpression) implCabsNode()       {}
func (*MultiplicativeExpression) implCabsNode() {}
func (*CastExpression) implCabsNode()           {}
func (*UnaryExpression) implCabsNode()          {}
func (*PostfixExpression) implCabsNode()        {}
func (*ArgumentExpressionList) implCabsNode()   {}
func (*PrimaryExpression) implCabsNode()        {}
func (*Constant) implCabsNode()                 {}
func (*StringLiteral) implCabsNode()            {}
func (*GenericSelection) implCabsNode()         {}
func (*GenericAssocList) implCabsNode()         {}
func (*GenericAssociation) implCabsNode()       {}

func (*Expression) implCabsExpr()               {}
func (*AssignmentExpression) implCabsExpr()     {}
func (*ConditionalExpression) implCabsExpr()    {}
func (*LogicalOrExpression) implCabsExpr()      {}
func (*LogicalAndExpression) implCabsExpr()     {}
func (*InclusiveOrExpression) implCabsExpr()    {}
func (*ExclusiveOrExpression) implCabsExpr()    {}
func (*AndExpression) implCabsExpr()            {}
func (*EqualityExpression) implCabsExpr()       {}
func (*RelationalExpression) implCabsExpr()     {}
func (*ShiftExpression) implCabsExpr()          {}
func (*AdditiveExpression) implCabsExpr()       {}
func (*MultiplicativeExpression) implCabsExpr() {}
func (*CastExpression) implCabsExpr()           {}
func (*UnaryExpression) implCabsExpr()          {}
func (*PostfixExpression) implCabsExpr()        {}
func (*PrimaryExpression) implCabsExpr()        {}
func (*Constant) implCabsExpr()                 {}
func (*StringLiteral) implCabsExpr()            {}
func (*GenericSelection) implCabsExpr()         {}
