package cabs

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Printer renders the tree back to C source.
type Printer struct {
	w      io.Writer
	indent int

	// Parens wraps every binary, conditional and assignment expression in
	// parentheses, making the parsed precedence visible.
	Parens bool
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// String renders n as C text.
func String(n Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(n)
	return sb.String()
}

// ParenString renders n with explicit parentheses around every operator.
func ParenString(n Node) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	p.Parens = true
	p.Print(n)
	return sb.String()
}

// PrintTranslationUnit prints every external declaration, one per
// paragraph.
func (p *Printer) PrintTranslationUnit(tu *TranslationUnit) {
	for i, def := range tu.Decls {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.printDefinition(def)
	}
}

// Print renders any node. Statements and definitions end with a newline;
// other nodes are printed inline.
func (p *Printer) Print(n Node) {
	switch n := n.(type) {
	case *TranslationUnit:
		p.PrintTranslationUnit(n)
	case Definition:
		p.printDefinition(n)
	case Stmt:
		p.printStmt(n)
	case *Declarator:
		p.printDeclarator(n)
	case *TypeName:
		p.printTypeName(n)
	case *Initializer:
		p.printInitializer(n)
	case *DeclarationSpecifiers:
		p.printSpecs(n)
	case Expr:
		p.printExpr(n)
	default:
		fmt.Fprintf(p.w, "/* unknown node %T */", n)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printDefinition(def Definition) {
	switch d := def.(type) {
	case *FunctionDefinition:
		p.printFunctionDefinition(d)
	case *Declaration:
		p.writeIndent()
		p.printDeclaration(d)
		fmt.Fprintln(p.w)
	default:
		fmt.Fprintf(p.w, "/* unknown definition %T */\n", def)
	}
}

func (p *Printer) printFunctionDefinition(f *FunctionDefinition) {
	p.writeIndent()
	if len(f.Specs.Specs) > 0 {
		p.printSpecs(f.Specs)
		fmt.Fprint(p.w, " ")
	}
	p.printAttrs(f.Attrs, true)
	p.printDeclarator(f.Declarator)
	fmt.Fprintln(p.w)
	if f.KRDecls != nil {
		p.indent++
		for _, d := range f.KRDecls.Decls {
			p.writeIndent()
			p.printDeclaration(d)
			fmt.Fprintln(p.w)
		}
		p.indent--
	}
	p.printCompound(f.Body)
}

func (p *Printer) printDeclaration(d *Declaration) {
	switch d.Kind {
	case DeclEmpty:
		fmt.Fprint(p.w, ";")
		return
	case DeclStaticAssert:
		p.printStaticAssert(d.StaticAssert)
		return
	}
	p.printSpecs(d.Specs)
	if d.Inits != nil {
		for i, init := range d.Inits.Decls {
			if i > 0 {
				fmt.Fprint(p.w, ",")
			}
			fmt.Fprint(p.w, " ")
			p.printInitDeclarator(init)
		}
	}
	if len(d.Attrs) > 0 {
		fmt.Fprint(p.w, " ")
		p.printAttrs(d.Attrs, false)
	}
	fmt.Fprint(p.w, ";")
}

func (p *Printer) printStaticAssert(s *StaticAssertDeclaration) {
	fmt.Fprint(p.w, "_Static_assert(")
	p.printExpr(s.Cond)
	fmt.Fprint(p.w, ", ")
	p.printExpr(s.Message)
	fmt.Fprint(p.w, ");")
}

func (p *Printer) printInitDeclarator(d *InitDeclarator) {
	p.printDeclarator(d.Declarator)
	if len(d.Attrs) > 0 {
		fmt.Fprint(p.w, " ")
		p.printAttrs(d.Attrs, false)
	}
	if d.Init != nil {
		fmt.Fprint(p.w, " = ")
		p.printInitializer(d.Init)
	}
}

// printAttrs prints attributes in name order. Keyword-like attributes are
// printed as keywords.
func (p *Printer) printAttrs(attrs Attributes, trailingSpace bool) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			fmt.Fprint(p.w, " ")
		}
		switch value := attrs[name]; {
		case name == "inline" || name == "_Noreturn":
			fmt.Fprint(p.w, name)
		case name == "asm":
			fmt.Fprintf(p.w, "__asm__(%s)", value)
		case (name == "cdecl" || name == "stdcall" || name == "fastcall") && value == "":
			fmt.Fprint(p.w, "__"+name)
		case value == "":
			fmt.Fprintf(p.w, "__attribute__((%s))", name)
		default:
			fmt.Fprintf(p.w, "__attribute__((%s(%s)))", name, value)
		}
	}
	if trailingSpace {
		fmt.Fprint(p.w, " ")
	}
}

func (p *Printer) printSpecs(s *DeclarationSpecifiers) {
	if s == nil {
		return
	}
	for i, sp := range s.Specs {
		if i > 0 {
			fmt.Fprint(p.w, " ")
		}
		switch sp.Kind {
		case SpecStorage:
			if sp.Storage.Name != "" {
				fmt.Fprint(p.w, sp.Storage.Name)
			} else {
				p.printAttrs(sp.Storage.Attrs, false)
			}
		case SpecType:
			p.printTypeSpecifier(sp.Type)
		case SpecQualifier:
			fmt.Fprint(p.w, sp.Qualifier.Name)
		case SpecFunction:
			p.printAttrs(sp.Function.Attrs, false)
		case SpecAlignment:
			p.printAlignment(sp.Alignment)
		}
	}
}

func (p *Printer) printSpecQuals(l *SpecifierQualifierList) {
	for i, sq := range l.Items {
		if i > 0 {
			fmt.Fprint(p.w, " ")
		}
		switch {
		case sq.Type != nil:
			p.printTypeSpecifier(sq.Type)
		case sq.Qualifier != nil:
			fmt.Fprint(p.w, sq.Qualifier.Name)
		case sq.Alignment != nil:
			p.printAlignment(sq.Alignment)
		default:
			p.printAttrs(sq.Attrs, false)
		}
	}
}

func (p *Printer) printAlignment(a *AlignmentSpecifier) {
	fmt.Fprint(p.w, "_Alignas(")
	if a.TypeName != nil {
		p.printTypeName(a.TypeName)
	} else {
		p.printExpr(a.Expr)
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printTypeSpecifier(t *TypeSpecifier) {
	switch t.Kind {
	case TypeKeyword, TypeTypedefName:
		fmt.Fprint(p.w, t.Name)
	case TypeAtomic:
		fmt.Fprint(p.w, "_Atomic(")
		p.printTypeName(t.Atomic.TypeName)
		fmt.Fprint(p.w, ")")
	case TypeStructOrUnion:
		p.printStructOrUnion(t.StructOrUnion)
	case TypeEnum:
		p.printEnum(t.Enum)
	}
}

func (p *Printer) printStructOrUnion(s *StructOrUnionSpecifier) {
	fmt.Fprint(p.w, s.Keyword())
	if len(s.Attrs) > 0 {
		fmt.Fprint(p.w, " ")
		p.printAttrs(s.Attrs, false)
	}
	if s.Tag != "" {
		fmt.Fprint(p.w, " ", s.Tag)
	}
	if !s.HasBody {
		return
	}
	fmt.Fprintln(p.w, " {")
	p.indent++
	if s.Decls != nil {
		for _, d := range s.Decls.Decls {
			p.writeIndent()
			p.printStructDeclaration(d)
			fmt.Fprintln(p.w)
		}
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printStructDeclaration(d *StructDeclaration) {
	switch d.Kind {
	case StructDeclEmpty:
		fmt.Fprint(p.w, ";")
		return
	case StructDeclStaticAssert:
		p.printStaticAssert(d.StaticAssert)
		return
	}
	p.printSpecQuals(d.Specs)
	if d.Declarators != nil {
		for i, sd := range d.Declarators.Decls {
			if i > 0 {
				fmt.Fprint(p.w, ",")
			}
			fmt.Fprint(p.w, " ")
			if sd.Declarator != nil {
				p.printDeclarator(sd.Declarator)
			}
			if sd.Width != nil {
				if sd.Declarator != nil {
					fmt.Fprint(p.w, " ")
				}
				fmt.Fprint(p.w, ": ")
				p.printExpr(sd.Width)
			}
		}
	}
	if len(d.Attrs) > 0 {
		fmt.Fprint(p.w, " ")
		p.printAttrs(d.Attrs, false)
	}
	fmt.Fprint(p.w, ";")
}

func (p *Printer) printEnum(e *EnumSpecifier) {
	fmt.Fprint(p.w, "enum")
	if len(e.Attrs) > 0 {
		fmt.Fprint(p.w, " ")
		p.printAttrs(e.Attrs, false)
	}
	if e.Tag != "" {
		fmt.Fprint(p.w, " ", e.Tag)
	}
	if !e.HasBody {
		return
	}
	fmt.Fprintln(p.w, " {")
	p.indent++
	var list []*Enumerator
	if e.List != nil {
		list = e.List.Enumerators
	}
	for i, en := range list {
		p.writeIndent()
		fmt.Fprint(p.w, en.Name)
		if en.Value != nil {
			fmt.Fprint(p.w, " = ")
			p.printExpr(en.Value)
		}
		if i < len(list)-1 {
			fmt.Fprint(p.w, ",")
		}
		fmt.Fprintln(p.w)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printPointer(ptr *Pointer) {
	for ; ptr != nil; ptr = ptr.Next {
		fmt.Fprint(p.w, "*")
		if names := ptr.Quals.Names(); len(names) > 0 {
			fmt.Fprint(p.w, strings.Join(names, " "), " ")
		}
	}
}

func (p *Printer) printDeclarator(d *Declarator) {
	if d == nil {
		return
	}
	p.printAttrs(d.Attrs, true)
	p.printPointer(d.Pointer)
	p.printDirect(d.Direct)
}

func (p *Printer) printDirect(d *DirectDeclarator) {
	if d == nil {
		return
	}
	switch d.Kind {
	case DirIdent:
		fmt.Fprint(p.w, d.Ident)
	case DirNested:
		fmt.Fprint(p.w, "(")
		p.printDeclarator(d.Nested)
		fmt.Fprint(p.w, ")")
	case DirArray:
		p.printDirect(d.Child)
		p.printArraySuffix(d.Quals, d.Static, d.Star, d.Size)
	case DirFunc:
		p.printDirect(d.Child)
		fmt.Fprint(p.w, "(")
		if d.Params != nil {
			p.printParams(d.Params)
		} else if d.Idents != nil {
			fmt.Fprint(p.w, strings.Join(d.Idents.Idents, ", "))
		}
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printArraySuffix(quals *TypeQualifierList, static, star bool, size *AssignmentExpression) {
	var parts []string
	if static {
		parts = append(parts, "static")
	}
	parts = append(parts, quals.Names()...)
	fmt.Fprint(p.w, "[", strings.Join(parts, " "))
	if star {
		fmt.Fprint(p.w, "*")
	}
	if size != nil {
		if len(parts) > 0 {
			fmt.Fprint(p.w, " ")
		}
		p.printExpr(size)
	}
	fmt.Fprint(p.w, "]")
}

func (p *Printer) printParams(l *ParameterTypeList) {
	for i, param := range l.Params.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printSpecs(param.Specs)
		switch {
		case param.Declarator != nil:
			fmt.Fprint(p.w, " ")
			p.printDeclarator(param.Declarator)
		case param.Abstract != nil:
			fmt.Fprint(p.w, " ")
			p.printAbstract(param.Abstract)
		}
	}
	if l.Variadic {
		fmt.Fprint(p.w, ", ...")
	}
}

func (p *Printer) printTypeName(t *TypeName) {
	p.printSpecQuals(t.Specs)
	if t.Abstract != nil {
		fmt.Fprint(p.w, " ")
		p.printAbstract(t.Abstract)
	}
}

func (p *Printer) printAbstract(a *AbstractDeclarator) {
	p.printAttrs(a.Attrs, a.Pointer != nil || a.Direct != nil)
	p.printPointer(a.Pointer)
	p.printDirectAbstract(a.Direct)
}

func (p *Printer) printDirectAbstract(d *DirectAbstractDeclarator) {
	if d == nil {
		return
	}
	switch d.Kind {
	case DirNested:
		fmt.Fprint(p.w, "(")
		p.printAbstract(d.Nested)
		fmt.Fprint(p.w, ")")
	case DirArray:
		p.printDirectAbstract(d.Child)
		p.printArraySuffix(d.Quals, d.Static, d.Star, d.Size)
	case DirFunc:
		p.printDirectAbstract(d.Child)
		fmt.Fprint(p.w, "(")
		if d.Params != nil {
			p.printParams(d.Params)
		}
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printInitializer(i *Initializer) {
	if i.List == nil {
		p.printExpr(i.Expr)
		return
	}
	fmt.Fprint(p.w, "{")
	p.printInitList(i.List)
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printInitList(l *InitializerList) {
	for i, item := range l.Items {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		if item.Designation != nil {
			for _, d := range item.Designation.List.Designators {
				if d.Index != nil {
					fmt.Fprint(p.w, "[")
					p.printExpr(d.Index)
					fmt.Fprint(p.w, "]")
				} else {
					fmt.Fprint(p.w, ".", d.Field)
				}
			}
			fmt.Fprint(p.w, " = ")
		}
		p.printInitializer(item.Init)
	}
}

func (p *Printer) printCompound(c *CompoundStatement) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, item := range c.Items() {
		if item.Decl != nil {
			p.writeIndent()
			p.printDeclaration(item.Decl)
			fmt.Fprintln(p.w)
		} else {
			p.printStmt(item.Stmt)
		}
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

// printBody prints the body of a control statement one level deeper,
// except that a block stays at the statement's level.
func (p *Printer) printBody(s Stmt) {
	if c, ok := s.(*CompoundStatement); ok {
		p.printCompound(c)
		return
	}
	p.indent++
	p.printStmt(s)
	p.indent--
}

func (p *Printer) printStmt(stmt Stmt) {
	if c, ok := stmt.(*CompoundStatement); ok {
		p.printCompound(c)
		return
	}
	p.writeIndent()
	switch s := stmt.(type) {
	case *LabeledStatement:
		switch s.Kind {
		case LabelIdent:
			fmt.Fprintf(p.w, "%s:\n", s.Label)
		case LabelCase:
			fmt.Fprint(p.w, "case ")
			p.printExpr(s.Expr)
			fmt.Fprintln(p.w, ":")
		case LabelDefault:
			fmt.Fprintln(p.w, "default:")
		}
		p.printBody(s.Stmt)
	case *ExpressionStatement:
		if s.Expr != nil {
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case *SelectionStatement:
		if s.Kind == SelSwitch {
			fmt.Fprint(p.w, "switch (")
		} else {
			fmt.Fprint(p.w, "if (")
		}
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printBody(s.Then)
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.printBody(s.Else)
		}
	case *IterationStatement:
		switch s.Kind {
		case IterWhile:
			fmt.Fprint(p.w, "while (")
			p.printExpr(s.Cond)
			fmt.Fprintln(p.w, ")")
			p.printBody(s.Body)
		case IterDo:
			fmt.Fprintln(p.w, "do")
			p.printBody(s.Body)
			p.writeIndent()
			fmt.Fprint(p.w, "while (")
			p.printExpr(s.Cond)
			fmt.Fprintln(p.w, ");")
		case IterFor:
			fmt.Fprint(p.w, "for (")
			if s.InitDecl != nil {
				p.printDeclaration(s.InitDecl)
			} else {
				if s.Init != nil {
					p.printExpr(s.Init)
				}
				fmt.Fprint(p.w, ";")
			}
			fmt.Fprint(p.w, " ")
			if s.Cond != nil {
				p.printExpr(s.Cond)
			}
			fmt.Fprint(p.w, "; ")
			if s.Step != nil {
				p.printExpr(s.Step)
			}
			fmt.Fprintln(p.w, ")")
			p.printBody(s.Body)
		}
	case *JumpStatement:
		switch s.Kind {
		case JumpGoto:
			fmt.Fprintf(p.w, "goto %s;\n", s.Label)
		case JumpContinue:
			fmt.Fprintln(p.w, "continue;")
		case JumpBreak:
			fmt.Fprintln(p.w, "break;")
		case JumpReturn:
			fmt.Fprint(p.w, "return")
			if s.Expr != nil {
				fmt.Fprint(p.w, " ")
				p.printExpr(s.Expr)
			}
			fmt.Fprintln(p.w, ";")
		}
	case *AsmStatement:
		if !strings.HasPrefix(s.Text, "{") {
			fmt.Fprintf(p.w, "%s %s;\n", s.Keyword, s.Text)
		} else {
			fmt.Fprintf(p.w, "%s %s\n", s.Keyword, s.Text)
		}
	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */;\n", stmt)
	}
}

func (p *Printer) open(wrap bool) {
	if wrap && p.Parens {
		fmt.Fprint(p.w, "(")
	}
}

func (p *Printer) close(wrap bool) {
	if wrap && p.Parens {
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case *Expression:
		for i, item := range e.Items {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(item)
		}
	case *AssignmentExpression:
		if e.Unary == nil {
			p.printExpr(e.Cond)
			return
		}
		p.open(true)
		p.printExpr(e.Unary)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printExpr(e.Next)
		p.close(true)
	case *ConditionalExpression:
		wrap := e.Then != nil
		p.open(wrap)
		p.printExpr(e.Cond)
		if wrap {
			fmt.Fprint(p.w, " ? ")
			p.printExpr(e.Then)
			fmt.Fprint(p.w, " : ")
			p.printExpr(e.Else)
		}
		p.close(wrap)
	case *LogicalOrExpression:
		printList(p, e.Operands, "||")
	case *LogicalAndExpression:
		printList(p, e.Operands, "&&")
	case *InclusiveOrExpression:
		printList(p, e.Operands, "|")
	case *ExclusiveOrExpression:
		printList(p, e.Operands, "^")
	case *AndExpression:
		printList(p, e.Operands, "&")
	case *EqualityExpression:
		p.printChain(e.Prev != nil, e.Prev, e.Op, e.Rhs)
	case *RelationalExpression:
		p.printChain(e.Prev != nil, e.Prev, e.Op, e.Rhs)
	case *ShiftExpression:
		p.printChain(e.Prev != nil, e.Prev, e.Op, e.Rhs)
	case *AdditiveExpression:
		p.printChain(e.Prev != nil, e.Prev, e.Op, e.Rhs)
	case *MultiplicativeExpression:
		p.printChain(e.Prev != nil, e.Prev, e.Op, e.Rhs)
	case *CastExpression:
		if e.TypeName == nil {
			p.printExpr(e.Unary)
			return
		}
		fmt.Fprint(p.w, "(")
		p.printTypeName(e.TypeName)
		fmt.Fprint(p.w, ")")
		p.printExpr(e.Cast)
	case *UnaryExpression:
		p.printUnary(e)
	case *PostfixExpression:
		p.printPostfix(e)
	case *PrimaryExpression:
		p.printPrimary(e)
	case *Constant:
		if e.Kind == ConstChar {
			fmt.Fprint(p.w, e.Fix, e.Text)
		} else {
			fmt.Fprint(p.w, e.Text, e.Fix)
		}
	case *StringLiteral:
		fmt.Fprint(p.w, e.Fix, e.Text)
	case *GenericSelection:
		fmt.Fprint(p.w, "_Generic(")
		p.printExpr(e.Control)
		for _, a := range e.Assocs.Assocs {
			fmt.Fprint(p.w, ", ")
			if a.TypeName == nil {
				fmt.Fprint(p.w, "default")
			} else {
				p.printTypeName(a.TypeName)
			}
			fmt.Fprint(p.w, ": ")
			p.printExpr(a.Expr)
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func printList[T Expr](p *Printer, operands []T, op string) {
	wrap := len(operands) > 1
	p.open(wrap)
	for i, operand := range operands {
		if i > 0 {
			fmt.Fprintf(p.w, " %s ", op)
		}
		p.printExpr(operand)
	}
	p.close(wrap)
}

func (p *Printer) printChain(hasPrev bool, prev Expr, op string, rhs Expr) {
	if !hasPrev {
		p.printExpr(rhs)
		return
	}
	p.open(true)
	p.printExpr(prev)
	fmt.Fprintf(p.w, " %s ", op)
	p.printExpr(rhs)
	p.close(true)
}

func (p *Printer) printUnary(u *UnaryExpression) {
	switch u.Kind {
	case UnaryPostfix:
		p.printExpr(u.Postfix)
	case UnaryPreInc:
		fmt.Fprint(p.w, "++")
		p.printExpr(u.Unary)
	case UnaryPreDec:
		fmt.Fprint(p.w, "--")
		p.printExpr(u.Unary)
	case UnaryOp:
		fmt.Fprint(p.w, u.Op)
		p.printExpr(u.Cast)
	case UnarySizeofExpr:
		fmt.Fprint(p.w, "sizeof ")
		p.printExpr(u.Unary)
	case UnarySizeofType:
		fmt.Fprint(p.w, "sizeof(")
		p.printTypeName(u.TypeName)
		fmt.Fprint(p.w, ")")
	case UnaryAlignof:
		fmt.Fprint(p.w, "_Alignof(")
		p.printTypeName(u.TypeName)
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printPostfix(e *PostfixExpression) {
	switch e.Kind {
	case PostPrimary:
		p.printExpr(e.Primary)
	case PostCompound:
		fmt.Fprint(p.w, "(")
		p.printTypeName(e.TypeName)
		fmt.Fprint(p.w, "){")
		p.printInitList(e.Inits)
		fmt.Fprint(p.w, "}")
	case PostIndex:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case PostCall:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, "(")
		if e.Args != nil {
			for i, arg := range e.Args.Args {
				if i > 0 {
					fmt.Fprint(p.w, ", ")
				}
				p.printExpr(arg)
			}
		}
		fmt.Fprint(p.w, ")")
	case PostMember:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, ".", e.Member)
	case PostArrow:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, "->", e.Member)
	case PostInc:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, "++")
	case PostDec:
		p.printExpr(e.Child)
		fmt.Fprint(p.w, "--")
	}
}

func (p *Printer) printPrimary(e *PrimaryExpression) {
	switch e.Kind {
	case PrimIdent:
		fmt.Fprint(p.w, e.Ident)
	case PrimConstant:
		p.printExpr(e.Constant)
	case PrimString:
		p.printExpr(e.String)
	case PrimParen:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, ")")
	case PrimGeneric:
		p.printExpr(e.Generic)
	}
}
