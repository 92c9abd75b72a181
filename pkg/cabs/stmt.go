package cabs

import "modernc.org/token"

// LabelKind discriminates LabeledStatement.
type LabelKind int

const (
	LabelIdent LabelKind = iota
	LabelCase
	LabelDefault
)

// LabeledStatement is "ident :", "case constant :" or "default :"
// followed by a statement.
type LabeledStatement struct {
	Kind  LabelKind
	Label string
	Expr  *ConditionalExpression
	Stmt  Stmt
	Pos   token.Position
}

// CompoundStatement is a braced block. List is nil for "{}".
type CompoundStatement struct {
	List *BlockItemList
	Pos  token.Position
}

// Items returns the block items, or nil for an empty block.
func (c *CompoundStatement) Items() []*BlockItem {
	if c == nil || c.List == nil {
		return nil
	}
	return c.List.Items
}

// BlockItemList is the contents of a compound statement.
type BlockItemList struct {
	Items []*BlockItem
}

// BlockItem is a declaration or a statement.
type BlockItem struct {
	Decl *Declaration
	Stmt Stmt
}

// ExpressionStatement is "[expression] ;".
type ExpressionStatement struct {
	Expr *Expression
	Pos  token.Position
}

// SelectionKind discriminates SelectionStatement.
type SelectionKind int

const (
	SelIf SelectionKind = iota
	SelSwitch
)

// SelectionStatement is if, if-else or switch.
type SelectionStatement struct {
	Kind SelectionKind
	Cond *Expression
	Then Stmt
	Else Stmt
	Pos  token.Position
}

// IterationKind discriminates IterationStatement.
type IterationKind int

const (
	IterWhile IterationKind = iota
	IterDo
	IterFor
)

// IterationStatement is while, do-while or for. A for loop has either Init
// or InitDecl.
type IterationStatement struct {
	Kind     IterationKind
	Init     *Expression
	InitDecl *Declaration
	Cond     *Expression
	Step     *Expression
	Body     Stmt
	Pos      token.Position
}

// JumpKind discriminates JumpStatement.
type JumpKind int

const (
	JumpGoto JumpKind = iota
	JumpContinue
	JumpBreak
	JumpReturn
)

// JumpStatement is goto, continue, break or return.
type JumpStatement struct {
	Kind  JumpKind
	Label string
	Expr  *Expression
	Pos   token.Position
}

// AsmStatement is an inline assembly block kept as opaque token text.
type AsmStatement struct {
	Keyword string
	Text    string
	Pos     token.Position
}

func (*LabeledStatement) implCabsNode()    {}
func (*CompoundStatement) implCabsNode()   {}
func (*BlockItemList) implCabsNode()       {}
func (*BlockItem) implCabsNode()           {}
func (*ExpressionStatement) implCabsNode() {}
func (*SelectionStatement) implCabsNode()  {}
func (*IterationStatement) implCabsNode()  {}
func (*JumpStatement) implCabsNode()       {}
func (*AsmStatement) implCabsNode()        {}

func (*LabeledStatement) implCabsStmt()    {}
func (*CompoundStatement) implCabsStmt()   {}
func (*ExpressionStatement) implCabsStmt() {}
func (*SelectionStatement) implCabsStmt()  {}
func (*IterationStatement) implCabsStmt()  {}
func (*JumpStatement) implCabsStmt()       {}
func (*AsmStatement) implCabsStmt()        {}

var (
	declKindNames      = []string{"declaration", "empty", "static_assert"}
	specKindNames      = []string{"storage", "type", "qualifier", "function", "alignment"}
	typeSpecKindNames  = []string{"keyword", "atomic", "struct_or_union", "enum", "typedef_name"}
	directKindNames    = []string{"ident", "nested", "array", "func"}
	unaryKindNames     = []string{"postfix", "pre_inc", "pre_dec", "op", "sizeof_expr", "sizeof_type", "alignof"}
	postfixKindNames   = []string{"primary", "compound", "index", "call", "member", "arrow", "post_inc", "post_dec"}
	primaryKindNames   = []string{"ident", "constant", "string", "paren", "generic"}
	constKindNames     = []string{"int", "float", "char", "enum"}
	labelKindNames     = []string{"label", "case", "default"}
	selectionKindNames = []string{"if", "switch"}
	iterationKindNames = []string{"while", "do", "for"}
	jumpKindNames      = []string{"goto", "continue", "break", "return"}
)

func kindName(names []string, k int) string {
	if k >= 0 && k < len(names) {
		return names[k]
	}
	return "?"
}

func (k DeclKind) String() string      { return kindName(declKindNames, int(k)) }
func (k SpecKind) String() string      { return kindName(specKindNames, int(k)) }
func (k TypeSpecKind) String() string  { return kindName(typeSpecKindNames, int(k)) }
func (k DirectKind) String() string    { return kindName(directKindNames, int(k)) }
func (k UnaryKind) String() string     { return kindName(unaryKindNames, int(k)) }
func (k PostfixKind) String() string   { return kindName(postfixKindNames, int(k)) }
func (k PrimaryKind) String() string   { return kindName(primaryKindNames, int(k)) }
func (k ConstKind) String() string     { return kindName(constKindNames, int(k)) }
func (k LabelKind) String() string     { return kindName(labelKindNames, int(k)) }
func (k SelectionKind) String() string { return kindName(selectionKindNames, int(k)) }
func (k IterationKind) String() string { return kindName(iterationKindNames, int(k)) }
func (k JumpKind) String() string      { return kindName(jumpKindNames, int(k)) }
