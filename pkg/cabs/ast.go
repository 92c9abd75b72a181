// Package cabs defines the concrete syntax tree for C: one struct per
// grammar production, from TranslationUnit down to AsmStatement.
package cabs

import "modernc.org/token"

// Node is the base interface for all AST nodes
type Node interface {
	implCabsNode()
}

// Expr is implemented by every expression-level node
type Expr interface {
	Node
	implCabsExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implCabsStmt()
}

// Definition is an external declaration: a *FunctionDefinition or a
// *Declaration.
type Definition interface {
	Node
	implDefinition()
}

// Attributes holds __attribute__, __declspec and calling-convention
// annotations by name. Values are normalized argument text.
type Attributes map[string]string

// TranslationUnit is the root of the tree.
type TranslationUnit struct {
	Decls []Definition
}

// FunctionDefinition is specifiers, declarator, optional K&R parameter
// declarations and a body.
type FunctionDefinition struct {
	Specs      *DeclarationSpecifiers
	Attrs      Attributes
	Declarator *Declarator
	KRDecls    *DeclarationList
	Body       *CompoundStatement
	Pos        token.Position
}

// DeclarationList is the K&R parameter declaration list.
type DeclarationList struct {
	Decls []*Declaration
}

// DeclKind discriminates Declaration.
type DeclKind int

const (
	DeclNormal DeclKind = iota
	DeclEmpty           // a lone ';'
	DeclStaticAssert
)

// Declaration is "specifiers [init-declarator-list] ;", an empty
// declaration or a static assertion.
type Declaration struct {
	Kind         DeclKind
	Specs        *DeclarationSpecifiers
	Inits        *InitDeclaratorList
	Attrs        Attributes
	StaticAssert *StaticAssertDeclaration
	Pos          token.Position
}

// IsTypedef reports whether the declaration starts with a typedef
// storage class.
func (d *Declaration) IsTypedef() bool {
	return d.Specs != nil && d.Specs.Has("typedef")
}

// DeclarationSpecifiers is the ordered specifier sequence.
type DeclarationSpecifiers struct {
	Specs []*DeclarationSpecifier
}

// Has reports whether a storage class, keyword type specifier, qualifier
// or function specifier called name is present.
func (s *DeclarationSpecifiers) Has(name string) bool {
	if s == nil {
		return false
	}
	for _, sp := range s.Specs {
		switch {
		case sp.Storage != nil && sp.Storage.Name == name,
			sp.Type != nil && sp.Type.Kind == TypeKeyword && sp.Type.Name == name,
			sp.Qualifier != nil && sp.Qualifier.Name == name:
			return true
		case sp.Function != nil:
			if _, ok := sp.Function.Attrs[name]; ok {
				return true
			}
		}
	}
	return false
}

// SpecKind discriminates DeclarationSpecifier.
type SpecKind int

const (
	SpecStorage SpecKind = iota
	SpecType
	SpecQualifier
	SpecFunction
	SpecAlignment
)

// DeclarationSpecifier is one storage class, type specifier, qualifier,
// function specifier or alignment specifier.
type DeclarationSpecifier struct {
	Kind      SpecKind
	Storage   *StorageClassSpecifier
	Type      *TypeSpecifier
	Qualifier *TypeQualifier
	Function  *FunctionSpecifier
	Alignment *AlignmentSpecifier
}

// StorageClassSpecifier is a storage keyword, or attributes in storage
// position when Name is empty.
type StorageClassSpecifier struct {
	Name  string
	Attrs Attributes
}

// TypeSpecKind discriminates TypeSpecifier.
type TypeSpecKind int

const (
	TypeKeyword TypeSpecKind = iota
	TypeAtomic
	TypeStructOrUnion
	TypeEnum
	TypeTypedefName
)

// TypeSpecifier is a type keyword, _Atomic(type-name), a struct, union or
// enum specifier, or a typedef-name.
type TypeSpecifier struct {
	Kind          TypeSpecKind
	Name          string
	Atomic        *AtomicTypeSpecifier
	StructOrUnion *StructOrUnionSpecifier
	Enum          *EnumSpecifier
	Pos           token.Position
}

// TypeQualifier is const, restrict, volatile, _Atomic or __ptr64.
type TypeQualifier struct {
	Name string
}

// TypeQualifierList is a run of qualifiers.
type TypeQualifierList struct {
	Quals []*TypeQualifier
}

// Names returns the qualifier names in order.
func (l *TypeQualifierList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, len(l.Quals))
	for i, q := range l.Quals {
		names[i] = q.Name
	}
	return names
}

// FunctionSpecifier holds inline, _Noreturn or attributes.
type FunctionSpecifier struct {
	Attrs Attributes
}

// AlignmentSpecifier is _Alignas(type-name) or _Alignas(constant).
type AlignmentSpecifier struct {
	TypeName *TypeName
	Expr     *ConditionalExpression
}

// InitDeclaratorList is the comma separated declarators of a declaration.
type InitDeclaratorList struct {
	Decls []*InitDeclarator
}

// InitDeclarator is a declarator with an optional initializer.
type InitDeclarator struct {
	Declarator *Declarator
	Attrs      Attributes
	Init       *Initializer
}

// Declarator is an optional pointer followed by a direct declarator.
// Attributes may appear before and after the pointer.
type Declarator struct {
	Attrs   Attributes
	Pointer *Pointer
	Direct  *DirectDeclarator
}

// Name returns the declared identifier, looking through nested
// declarators.
func (d *Declarator) Name() string {
	if id := d.Ident(); id != nil {
		return id.Ident
	}
	return ""
}

// Ident returns the innermost identifier node of d, or nil.
func (d *Declarator) Ident() *DirectDeclarator {
	for d != nil {
		dd := d.Direct
		for dd != nil && dd.Child != nil {
			dd = dd.Child
		}
		if dd == nil {
			return nil
		}
		if dd.Kind == DirIdent {
			return dd
		}
		d = dd.Nested
	}
	return nil
}

// DirectKind discriminates DirectDeclarator and DirectAbstractDeclarator.
type DirectKind int

const (
	DirIdent  DirectKind = iota
	DirNested            // ( declarator )
	DirArray             // child [ ... ]
	DirFunc              // child ( ... )
)

// DirectDeclarator is an identifier, a parenthesized declarator, or an
// array or function suffix applied to Child.
type DirectDeclarator struct {
	Kind   DirectKind
	Ident  string
	Nested *Declarator
	Child  *DirectDeclarator

	// array suffix
	Quals  *TypeQualifierList
	Static bool
	Star   bool // [*]
	Size   *AssignmentExpression

	// function suffix
	Params *ParameterTypeList
	Idents *IdentifierList

	Pos token.Position
}

// Pointer is "*" with optional qualifiers, chained for "**".
type Pointer struct {
	Quals *TypeQualifierList
	Next  *Pointer
}

// ParameterTypeList is a parameter list with an optional ellipsis.
type ParameterTypeList struct {
	Params   *ParameterList
	Variadic bool
}

// ParameterList is the comma separated parameter declarations.
type ParameterList struct {
	Params []*ParameterDeclaration
}

// ParameterDeclaration is specifiers with a declarator, an abstract
// declarator or neither.
type ParameterDeclaration struct {
	Specs      *DeclarationSpecifiers
	Declarator *Declarator
	Abstract   *AbstractDeclarator
}

// IdentifierList is a K&R parameter name list.
type IdentifierList struct {
	Idents []string
}

// Initializer is an assignment expression or a braced list.
type Initializer struct {
	Expr *AssignmentExpression
	List *InitializerList
}

// InitializerList is the contents of a braced initializer.
type InitializerList struct {
	Items []*DesignativeInitializer
}

// DesignativeInitializer is an initializer with an optional designation.
type DesignativeInitializer struct {
	Designation *Designation
	Init        *Initializer
}

// Designation is a designator list followed by '='.
type Designation struct {
	List *DesignatorList
}

// DesignatorList is a run of designators.
type DesignatorList struct {
	Designators []*Designator
}

// Designator is "[ constant ]" or ". identifier".
type Designator struct {
	Index *ConditionalExpression
	Field string
}

// StructOrUnionSpecifier is a struct or union with an optional tag and
// body. Pack is the #pragma pack in effect at the keyword.
type StructOrUnionSpecifier struct {
	Union   bool
	Attrs   Attributes
	Tag     string
	HasBody bool
	Decls   *StructDeclarationList
	Pack    int
	Pos     token.Position
}

// Keyword returns "struct" or "union".
func (s *StructOrUnionSpecifier) Keyword() string {
	if s.Union {
		return "union"
	}
	return "struct"
}

// StructDeclarationList is the body of a struct or union.
type StructDeclarationList struct {
	Decls []*StructDeclaration
}

// StructDeclKind discriminates StructDeclaration.
type StructDeclKind int

const (
	StructDeclFields StructDeclKind = iota
	StructDeclEmpty
	StructDeclStaticAssert
)

// StructDeclaration declares members. Anonymous struct and union members
// have no Declarators.
type StructDeclaration struct {
	Kind         StructDeclKind
	Specs        *SpecifierQualifierList
	Declarators  *StructDeclaratorList
	Attrs        Attributes
	StaticAssert *StaticAssertDeclaration
}

// SpecifierQualifierList is the specifier sequence of a member or type
// name.
type SpecifierQualifierList struct {
	Items []*SpecifierQualifier
}

// SpecifierQualifier is a type specifier, a qualifier, an alignment
// specifier or attributes.
type SpecifierQualifier struct {
	Type      *TypeSpecifier
	Qualifier *TypeQualifier
	Alignment *AlignmentSpecifier
	Attrs     Attributes
}

// StructDeclaratorList is the comma separated member declarators.
type StructDeclaratorList struct {
	Decls []*StructDeclarator
}

// StructDeclarator is a declarator, a bit-field, or an unnamed bit-field.
type StructDeclarator struct {
	Declarator *Declarator
	Width      *ConditionalExpression
}

// EnumSpecifier is an enum with an optional tag and enumerator list.
type EnumSpecifier struct {
	Tag     string
	Attrs   Attributes
	HasBody bool
	List    *EnumeratorList
	Pos     token.Position
}

// EnumeratorList is the enumerators of an enum body.
type EnumeratorList struct {
	Enumerators []*Enumerator
}

// Enumerator is an enumeration constant with an optional value.
type Enumerator struct {
	Name  string
	Value *ConditionalExpression
	Pos   token.Position
}

// AtomicTypeSpecifier is _Atomic ( type-name ).
type AtomicTypeSpecifier struct {
	TypeName *TypeName
}

// TypeName is the operand of casts, sizeof and compound literals.
type TypeName struct {
	Specs    *SpecifierQualifierList
	Abstract *AbstractDeclarator
}

// AbstractDeclarator is a declarator without an identifier.
type AbstractDeclarator struct {
	Attrs   Attributes
	Pointer *Pointer
	Direct  *DirectAbstractDeclarator
}

// DirectAbstractDeclarator is a parenthesized abstract declarator or an
// array or function suffix applied to Child (which may be nil).
type DirectAbstractDeclarator struct {
	Kind   DirectKind
	Nested *AbstractDeclarator
	Child  *DirectAbstractDeclarator

	Quals  *TypeQualifierList
	Static bool
	Star   bool
	Size   *AssignmentExpression

	Params *ParameterTypeList
}

// StaticAssertDeclaration is _Static_assert ( constant , string ).
type StaticAssertDeclaration struct {
	Cond    *ConditionalExpression
	Message *StringLiteral
	Pos     token.Position
}

func (*TranslationUnit) implCabsNode()          {}
func (*FunctionDefinition) implCabsNode()       {}
func (*DeclarationList) implCabsNode()          {}
func (*Declaration) implCabsNode()              {}
func (*DeclarationSpecifiers) implCabsNode()    {}
func (*DeclarationSpecifier) implCabsNode()     {}
func (*StorageClassSpecifier) implCabsNode()    {}
func (*TypeSpecifier) implCabsNode()            {}
func (*TypeQualifier) implCabsNode()            {}
func (*TypeQualifierList) implCabsNode()        {}
func (*FunctionSpecifier) implCabsNode()        {}
func (*AlignmentSpecifier) implCabsNode()       {}
func (*InitDeclaratorList) implCabsNode()       {}
func (*InitDeclarator) implCabsNode()           {}
func (*Declarator) implCabsNode()               {}
func (*DirectDeclarator) implCabsNode()         {}
func (*Pointer) implCabsNode()                  {}
func (*ParameterTypeList) implCabsNode()        {}
func (*ParameterList) implCabsNode()            {}
func (*ParameterDeclaration) implCabsNode()     {}
func (*IdentifierList) implCabsNode()           {}
func (*Initializer) implCabsNode()              {}
func (*InitializerList) implCabsNode()          {}
func (*DesignativeInitializer) implCabsNode()   {}
func (*Designation) implCabsNode()              {}
func (*DesignatorList) implCabsNode()           {}
func (*Designator) implCabsNode()               {}
func (*StructOrUnionSpecifier) implCabsNode()   {}
func (*StructDeclarationList) implCabsNode()    {}
func (*StructDeclaration) implCabsNode()        {}
func (*SpecifierQualifierList) implCabsNode()   {}
func (*SpecifierQualifier) implCabsNode()       {}
func (*StructDeclaratorList) implCabsNode()     {}
func (*StructDeclarator) implCabsNode()         {}
func (*EnumSpecifier) implCabsNode()            {}
func (*EnumeratorList) implCabsNode()           {}
func (*Enumerator) implCabsNode()               {}
func (*AtomicTypeSpecifier) implCabsNode()      {}
func (*TypeName) implCabsNode()                 {}
func (*AbstractDeclarator) implCabsNode()       {}
func (*DirectAbstractDeclarator) implCabsNode() {}
func (*StaticAssertDeclaration) implCabsNode()  {}

func (*FunctionDefinition) implDefinition() {}
func (*Declaration) implDefinition()        {}
