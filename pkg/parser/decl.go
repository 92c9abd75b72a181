package parser

import (
	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/lexer"
	"github.com/raymyers/cparse/pkg/scanner"
)

// translation-unit = {external-declaration};
func (p *Parser) visitTranslationUnit() *cabs.TranslationUnit {
	tu := &cabs.TranslationUnit{}
	tu.Decls = many(p, p.visitExternalDeclaration)
	if !p.c.EOF() {
		return nil
	}
	return tu
}

// external-declaration = declaration | function-definition;
func (p *Parser) visitExternalDeclaration() cabs.Definition {
	if d := attempt(p, p.visitDeclaration); d != nil {
		return d
	}
	if f := attempt(p, p.visitFunctionDefinition); f != nil {
		return f
	}
	return nil
}

// function-definition = declaration-specifiers, {function-attribute},
// declarator, [declaration-list], compound-statement;
func (p *Parser) visitFunctionDefinition() *cabs.FunctionDefinition {
	f := &cabs.FunctionDefinition{Pos: p.pos()}
	if f.Specs = p.visitDeclarationSpecifiers(); f.Specs == nil {
		return nil
	}
	f.Attrs = p.scanFunctionAttributes()
	if f.Declarator = attempt(p, p.visitDeclarator); f.Declarator == nil {
		return nil
	}
	f.KRDecls = attempt(p, p.visitDeclarationList)

	// Typedefs declared inside the body end with it.
	mark := p.typedefs.mark()
	f.Body = p.visitCompoundStatement()
	p.typedefs.rollback(mark)
	if f.Body == nil {
		return nil
	}
	return f
}

// declaration-list = declaration, {declaration};
func (p *Parser) visitDeclarationList() *cabs.DeclarationList {
	decls := many(p, p.visitDeclaration)
	if len(decls) == 0 {
		return nil
	}
	return &cabs.DeclarationList{Decls: decls}
}

// declaration = declaration-specifiers, [init-declarator-list],
// {function-attribute}, ';' | static-assert-declaration | ';';
func (p *Parser) visitDeclaration() *cabs.Declaration {
	pos := p.pos()
	if p.nextIf(";") {
		return &cabs.Declaration{Kind: cabs.DeclEmpty, Pos: pos}
	}
	if p.is("_Static_assert") {
		sa := p.visitStaticAssertDeclaration()
		if sa == nil {
			return nil
		}
		return &cabs.Declaration{Kind: cabs.DeclStaticAssert, StaticAssert: sa, Pos: pos}
	}

	isTypedef := p.is("typedef")
	specs := p.visitDeclarationSpecifiers()
	if specs == nil {
		return nil
	}
	afterSpecs := p.save()
	d := attempt(p, func() *cabs.Declaration { return p.finishDeclaration(specs, pos) })
	if d != nil && (d.Inits != nil || !isTypedef) {
		return d
	}

	// "typedef int T;" seen again: T is already a typedef-name and was
	// taken as a specifier. Retry with it as the declarator.
	last := specs.Specs[len(specs.Specs)-1]
	if !isTypedef || last.Type == nil || last.Type.Kind != cabs.TypeTypedefName || len(specs.Specs) < 2 {
		return d
	}
	end := p.save()
	p.restore(afterSpecs)
	p.c.Prev()
	trimmed := &cabs.DeclarationSpecifiers{Specs: specs.Specs[:len(specs.Specs)-1]}
	if r := attempt(p, func() *cabs.Declaration { return p.finishDeclaration(trimmed, pos) }); r != nil {
		return r
	}
	if d != nil {
		p.restore(end)
	}
	return d
}

func (p *Parser) finishDeclaration(specs *cabs.DeclarationSpecifiers, pos scanner.Position) *cabs.Declaration {
	d := &cabs.Declaration{Kind: cabs.DeclNormal, Specs: specs, Pos: pos}
	d.Inits = attempt(p, p.visitInitDeclaratorList)
	d.Attrs = p.scanFunctionAttributes()
	if !p.nextIf(";") {
		return nil
	}
	p.declareTypedefs(d)
	return d
}

// declareTypedefs adds the names declared by a typedef declaration to the
// typedef-name set.
func (p *Parser) declareTypedefs(d *cabs.Declaration) {
	if !d.IsTypedef() || d.Inits == nil {
		return
	}
	for _, init := range d.Inits.Decls {
		if name := init.Declarator.Name(); name != "" {
			p.typedefs.add(name)
		}
	}
}

// declaration-specifiers = declaration-specifier, {declaration-specifier};
func (p *Parser) visitDeclarationSpecifiers() *cabs.DeclarationSpecifiers {
	specs := many(p, p.visitDeclarationSpecifier)
	if len(specs) == 0 {
		return nil
	}
	return &cabs.DeclarationSpecifiers{Specs: specs}
}

// declaration-specifier = storage-class-specifier | type-specifier |
// type-qualifier | function-specifier | alignment-specifier;
func (p *Parser) visitDeclarationSpecifier() *cabs.DeclarationSpecifier {
	return firstOf(p,
		func() *cabs.DeclarationSpecifier {
			if s := p.visitStorageClassSpecifier(); s != nil {
				return &cabs.DeclarationSpecifier{Kind: cabs.SpecStorage, Storage: s}
			}
			return nil
		},
		func() *cabs.DeclarationSpecifier {
			if t := p.visitTypeSpecifier(); t != nil {
				return &cabs.DeclarationSpecifier{Kind: cabs.SpecType, Type: t}
			}
			return nil
		},
		func() *cabs.DeclarationSpecifier {
			if q := p.visitTypeQualifier(); q != nil {
				return &cabs.DeclarationSpecifier{Kind: cabs.SpecQualifier, Qualifier: q}
			}
			return nil
		},
		func() *cabs.DeclarationSpecifier {
			if f := p.visitFunctionSpecifier(); f != nil {
				return &cabs.DeclarationSpecifier{Kind: cabs.SpecFunction, Function: f}
			}
			return nil
		},
		func() *cabs.DeclarationSpecifier {
			if a := p.visitAlignmentSpecifier(); a != nil {
				return &cabs.DeclarationSpecifier{Kind: cabs.SpecAlignment, Alignment: a}
			}
			return nil
		},
	)
}

var storageClasses = map[string]bool{
	"typedef": true, "extern": true, "static": true,
	"_Thread_local": true, "auto": true, "register": true,
}

// storage-class-specifier = 'typedef' | 'extern' | 'static' |
// '_Thread_local' | 'auto' | 'register' | attribute;
func (p *Parser) visitStorageClassSpecifier() *cabs.StorageClassSpecifier {
	if p.typ() == lexer.TokenKeyword && storageClasses[p.text()] {
		s := &cabs.StorageClassSpecifier{Name: p.text()}
		p.next()
		return s
	}
	attrs := cabs.Attributes{}
	if p.scanAttribute(attrs) {
		return &cabs.StorageClassSpecifier{Attrs: attrs}
	}
	return nil
}

var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "_Complex": true, "_Imaginary": true,
	"__int64": true, "__int128": true, "__float80": true, "__float128": true,
}

// type-specifier = type keyword | atomic-type-specifier |
// struct-or-union-specifier | enum-specifier | typedef-name;
func (p *Parser) visitTypeSpecifier() *cabs.TypeSpecifier {
	pos := p.pos()
	if p.typ() == lexer.TokenKeyword && typeKeywords[p.text()] {
		t := &cabs.TypeSpecifier{Kind: cabs.TypeKeyword, Name: p.text(), Pos: pos}
		p.next()
		return t
	}
	return firstOf(p,
		func() *cabs.TypeSpecifier {
			if a := p.visitAtomicTypeSpecifier(); a != nil {
				return &cabs.TypeSpecifier{Kind: cabs.TypeAtomic, Atomic: a, Pos: pos}
			}
			return nil
		},
		func() *cabs.TypeSpecifier {
			if s := p.visitStructOrUnionSpecifier(); s != nil {
				return &cabs.TypeSpecifier{Kind: cabs.TypeStructOrUnion, StructOrUnion: s, Pos: pos}
			}
			return nil
		},
		func() *cabs.TypeSpecifier {
			if e := p.visitEnumSpecifier(); e != nil {
				return &cabs.TypeSpecifier{Kind: cabs.TypeEnum, Enum: e, Pos: pos}
			}
			return nil
		},
		func() *cabs.TypeSpecifier {
			if p.typ() == lexer.TokenIdent && p.typedefs.has(p.text()) {
				t := &cabs.TypeSpecifier{Kind: cabs.TypeTypedefName, Name: p.text(), Pos: pos}
				p.next()
				return t
			}
			return nil
		},
	)
}

// type-qualifier = 'const' | 'restrict' | 'volatile' | '_Atomic' |
// '__ptr64' | '__restrict__' | '__restrict';
func (p *Parser) visitTypeQualifier() *cabs.TypeQualifier {
	switch name := p.text(); name {
	case "const", "restrict", "volatile", "_Atomic", "__ptr64":
		if p.typ() != lexer.TokenKeyword {
			return nil
		}
		p.next()
		return &cabs.TypeQualifier{Name: name}
	case "__restrict__", "__restrict":
		p.next()
		return &cabs.TypeQualifier{Name: "restrict"}
	}
	return nil
}

// type-qualifier-list = type-qualifier, {type-qualifier};
func (p *Parser) visitTypeQualifierList() *cabs.TypeQualifierList {
	quals := many(p, p.visitTypeQualifier)
	if len(quals) == 0 {
		return nil
	}
	return &cabs.TypeQualifierList{Quals: quals}
}

// function-specifier = 'inline' | '_Noreturn' | '__inline' | '__inline__' |
// '__forceinline' | attribute;
func (p *Parser) visitFunctionSpecifier() *cabs.FunctionSpecifier {
	switch name := p.text(); name {
	case "inline", "_Noreturn":
		p.next()
		return &cabs.FunctionSpecifier{Attrs: cabs.Attributes{name: ""}}
	case "__inline", "__inline__", "__forceinline":
		p.next()
		return &cabs.FunctionSpecifier{Attrs: cabs.Attributes{"inline": ""}}
	}
	attrs := cabs.Attributes{}
	if p.scanAttribute(attrs) {
		return &cabs.FunctionSpecifier{Attrs: attrs}
	}
	return nil
}

// alignment-specifier = '_Alignas', '(', (type-name | constant-expression), ')';
func (p *Parser) visitAlignmentSpecifier() *cabs.AlignmentSpecifier {
	if !p.nextIf("_Alignas") || !p.nextIf("(") {
		return nil
	}
	return firstOf(p,
		func() *cabs.AlignmentSpecifier {
			if tn := p.visitTypeName(); tn != nil && p.nextIf(")") {
				return &cabs.AlignmentSpecifier{TypeName: tn}
			}
			return nil
		},
		func() *cabs.AlignmentSpecifier {
			if e := p.visitConditionalExpression(); e != nil && p.nextIf(")") {
				return &cabs.AlignmentSpecifier{Expr: e}
			}
			return nil
		},
	)
}

// atomic-type-specifier = '_Atomic', '(', type-name, ')';
func (p *Parser) visitAtomicTypeSpecifier() *cabs.AtomicTypeSpecifier {
	if !p.nextIf("_Atomic") || !p.nextIf("(") {
		return nil
	}
	tn := p.visitTypeName()
	if tn == nil || !p.nextIf(")") {
		return nil
	}
	return &cabs.AtomicTypeSpecifier{TypeName: tn}
}

// init-declarator-list = init-declarator, {',', init-declarator};
func (p *Parser) visitInitDeclaratorList() *cabs.InitDeclaratorList {
	first := attempt(p, p.visitInitDeclarator)
	if first == nil {
		return nil
	}
	list := &cabs.InitDeclaratorList{Decls: []*cabs.InitDeclarator{first}}
	for p.nextIf(",") {
		d := p.visitInitDeclarator()
		if d == nil {
			return nil
		}
		list.Decls = append(list.Decls, d)
	}
	return list
}

// init-declarator = declarator, [asm-label], {attribute}, ['=', initializer];
func (p *Parser) visitInitDeclarator() *cabs.InitDeclarator {
	d := &cabs.InitDeclarator{}
	if d.Declarator = p.visitDeclarator(); d.Declarator == nil {
		return nil
	}
	attrs := cabs.Attributes{}
	if label, ok := p.scanAsmLabel(); ok {
		attrs["asm"] = label
	}
	for p.scanAttribute(attrs) {
	}
	if len(attrs) > 0 {
		d.Attrs = attrs
	}
	if p.nextIf("=") {
		if d.Init = p.visitInitializer(); d.Init == nil {
			return nil
		}
	}
	return d
}

// scanAsmLabel reads a GNU assembler name, __asm__("name"), after a
// declarator.
func (p *Parser) scanAsmLabel() (string, bool) {
	if !p.is("__asm__") && !p.is("__asm") {
		return "", false
	}
	cp := p.save()
	p.next()
	if p.nextIf("(") && p.typ() == lexer.TokenString {
		s := p.visitStringLiteral()
		if p.nextIf(")") {
			return s.Text, true
		}
	}
	p.restore(cp)
	return "", false
}

// static-assert-declaration = '_Static_assert', '(', constant-expression,
// ',', string, ')', ';';
func (p *Parser) visitStaticAssertDeclaration() *cabs.StaticAssertDeclaration {
	sa := &cabs.StaticAssertDeclaration{Pos: p.pos()}
	if !p.nextIf("_Static_assert") || !p.nextIf("(") {
		return nil
	}
	if sa.Cond = p.visitConditionalExpression(); sa.Cond == nil || !p.nextIf(",") {
		return nil
	}
	if p.typ() != lexer.TokenString {
		return nil
	}
	sa.Message = p.visitStringLiteral()
	if !p.nextIf(")") || !p.nextIf(";") {
		return nil
	}
	return sa
}

// struct-or-union-specifier = ('struct' | 'union'), {attribute},
// [identifier], ['{', {struct-declaration}, '}'];
//
// Either the tag or the body must be present.
func (p *Parser) visitStructOrUnionSpecifier() *cabs.StructOrUnionSpecifier {
	if !p.is("struct") && !p.is("union") {
		return nil
	}
	s := &cabs.StructOrUnionSpecifier{
		Union: p.text() == "union",
		Pack:  p.l.PackAt(p.c.Index()),
		Pos:   p.pos(),
	}
	p.next()
	attrs := cabs.Attributes{}
	for p.scanAttribute(attrs) {
	}
	if len(attrs) > 0 {
		s.Attrs = attrs
	}
	if p.typ() == lexer.TokenIdent {
		s.Tag = p.text()
		p.next()
	}
	if !p.nextIf("{") {
		if s.Tag == "" {
			return nil
		}
		return s
	}
	s.HasBody = true
	if decls := many(p, p.visitStructDeclaration); len(decls) > 0 {
		s.Decls = &cabs.StructDeclarationList{Decls: decls}
	}
	if !p.nextIf("}") {
		return nil
	}
	return s
}

// struct-declaration = specifier-qualifier-list, [struct-declarator-list,
// {attribute}], ';' | static-assert-declaration | ';';
func (p *Parser) visitStructDeclaration() *cabs.StructDeclaration {
	if p.nextIf(";") {
		return &cabs.StructDeclaration{Kind: cabs.StructDeclEmpty}
	}
	if p.is("_Static_assert") {
		if sa := p.visitStaticAssertDeclaration(); sa != nil {
			return &cabs.StructDeclaration{Kind: cabs.StructDeclStaticAssert, StaticAssert: sa}
		}
		return nil
	}
	d := &cabs.StructDeclaration{Kind: cabs.StructDeclFields}
	if d.Specs = p.visitSpecifierQualifierList(); d.Specs == nil {
		return nil
	}
	if p.nextIf(";") {
		return d
	}
	if d.Declarators = p.visitStructDeclaratorList(); d.Declarators == nil {
		return nil
	}
	attrs := cabs.Attributes{}
	for p.scanAttribute(attrs) {
	}
	if len(attrs) > 0 {
		d.Attrs = attrs
	}
	if !p.nextIf(";") {
		return nil
	}
	return d
}

// struct-declarator-list = struct-declarator, {',', struct-declarator};
func (p *Parser) visitStructDeclaratorList() *cabs.StructDeclaratorList {
	first := p.visitStructDeclarator()
	if first == nil {
		return nil
	}
	list := &cabs.StructDeclaratorList{Decls: []*cabs.StructDeclarator{first}}
	for p.nextIf(",") {
		d := p.visitStructDeclarator()
		if d == nil {
			return nil
		}
		list.Decls = append(list.Decls, d)
	}
	return list
}

// struct-declarator = ':', constant-expression | declarator,
// [':', constant-expression];
func (p *Parser) visitStructDeclarator() *cabs.StructDeclarator {
	d := &cabs.StructDeclarator{}
	if !p.is(":") {
		if d.Declarator = attempt(p, p.visitDeclarator); d.Declarator == nil {
			return nil
		}
	}
	if p.nextIf(":") {
		if d.Width = p.visitConditionalExpression(); d.Width == nil {
			return nil
		}
	}
	return d
}

// specifier-qualifier-list = specifier-qualifier, {specifier-qualifier};
func (p *Parser) visitSpecifierQualifierList() *cabs.SpecifierQualifierList {
	items := many(p, p.visitSpecifierQualifier)
	if len(items) == 0 {
		return nil
	}
	return &cabs.SpecifierQualifierList{Items: items}
}

// specifier-qualifier = type-specifier | type-qualifier |
// alignment-specifier | attribute;
func (p *Parser) visitSpecifierQualifier() *cabs.SpecifierQualifier {
	return firstOf(p,
		func() *cabs.SpecifierQualifier {
			if t := p.visitTypeSpecifier(); t != nil {
				return &cabs.SpecifierQualifier{Type: t}
			}
			return nil
		},
		func() *cabs.SpecifierQualifier {
			if q := p.visitTypeQualifier(); q != nil {
				return &cabs.SpecifierQualifier{Qualifier: q}
			}
			return nil
		},
		func() *cabs.SpecifierQualifier {
			if a := p.visitAlignmentSpecifier(); a != nil {
				return &cabs.SpecifierQualifier{Alignment: a}
			}
			return nil
		},
		func() *cabs.SpecifierQualifier {
			attrs := cabs.Attributes{}
			if p.scanAttribute(attrs) {
				return &cabs.SpecifierQualifier{Attrs: attrs}
			}
			return nil
		},
	)
}

// enum-specifier = 'enum', {attribute}, [identifier],
// ['{', enumerator-list, [','], '}'];
//
// Either the tag or the body must be present.
func (p *Parser) visitEnumSpecifier() *cabs.EnumSpecifier {
	e := &cabs.EnumSpecifier{Pos: p.pos()}
	if !p.nextIf("enum") {
		return nil
	}
	attrs := cabs.Attributes{}
	for p.scanAttribute(attrs) {
	}
	if len(attrs) > 0 {
		e.Attrs = attrs
	}
	if p.typ() == lexer.TokenIdent {
		e.Tag = p.text()
		p.next()
	}
	if !p.nextIf("{") {
		if e.Tag == "" {
			return nil
		}
		return e
	}
	e.HasBody = true
	if e.List = p.visitEnumeratorList(); e.List == nil {
		return nil
	}
	p.nextIf(",")
	if !p.nextIf("}") {
		return nil
	}
	return e
}

// enumerator-list = enumerator, {',', enumerator};
//
// A trailing ',' before '}' is left for the enum specifier.
func (p *Parser) visitEnumeratorList() *cabs.EnumeratorList {
	first := p.visitEnumerator()
	if first == nil {
		return nil
	}
	list := &cabs.EnumeratorList{Enumerators: []*cabs.Enumerator{first}}
	for p.nextIf(",") {
		if p.isSymbol("}") {
			p.c.Prev()
			break
		}
		en := p.visitEnumerator()
		if en == nil {
			return nil
		}
		list.Enumerators = append(list.Enumerators, en)
	}
	return list
}

// enumerator = enumeration-constant, ['=', constant-expression];
func (p *Parser) visitEnumerator() *cabs.Enumerator {
	en := &cabs.Enumerator{Pos: p.pos()}
	if en.Name = p.visitIdentifier(); en.Name == "" {
		return nil
	}
	p.enumConsts.add(en.Name)
	if p.nextIf("=") {
		if en.Value = p.visitConditionalExpression(); en.Value == nil {
			return nil
		}
	}
	return en
}

// visitIdentifier reads an identifier that is not a typedef-name.
func (p *Parser) visitIdentifier() string {
	if p.typ() != lexer.TokenIdent || p.typedefs.has(p.text()) {
		return ""
	}
	name := p.text()
	p.next()
	return name
}

// type-name = specifier-qualifier-list, [abstract-declarator];
func (p *Parser) visitTypeName() *cabs.TypeName {
	tn := &cabs.TypeName{}
	if tn.Specs = p.visitSpecifierQualifierList(); tn.Specs == nil {
		return nil
	}
	tn.Abstract = attempt(p, p.visitAbstractDeclarator)
	return tn
}

// initializer = '{', [initializer-list, [',']], '}' | assignment-expression;
func (p *Parser) visitInitializer() *cabs.Initializer {
	if p.nextIf("{") {
		init := &cabs.Initializer{List: &cabs.InitializerList{}}
		if !p.isSymbol("}") {
			if init.List = p.visitInitializerList(); init.List == nil {
				return nil
			}
			p.nextIf(",")
		}
		if !p.nextIf("}") {
			return nil
		}
		return init
	}
	if e := p.visitAssignmentExpression(); e != nil {
		return &cabs.Initializer{Expr: e}
	}
	return nil
}

// initializer-list = designative-initializer, {',', designative-initializer};
//
// A trailing ',' before '}' is left for the caller.
func (p *Parser) visitInitializerList() *cabs.InitializerList {
	first := attempt(p, p.visitDesignativeInitializer)
	if first == nil {
		return nil
	}
	list := &cabs.InitializerList{Items: []*cabs.DesignativeInitializer{first}}
	for p.nextIf(",") {
		if p.isSymbol("}") {
			p.c.Prev()
			break
		}
		item := p.visitDesignativeInitializer()
		if item == nil {
			return nil
		}
		list.Items = append(list.Items, item)
	}
	return list
}

// designative-initializer = [designation], initializer;
func (p *Parser) visitDesignativeInitializer() *cabs.DesignativeInitializer {
	d := &cabs.DesignativeInitializer{}
	d.Designation = attempt(p, p.visitDesignation)
	if d.Init = p.visitInitializer(); d.Init == nil {
		return nil
	}
	return d
}

// designation = designator, {designator}, '=';
func (p *Parser) visitDesignation() *cabs.Designation {
	list := many(p, p.visitDesignator)
	if len(list) == 0 || !p.nextIf("=") {
		return nil
	}
	return &cabs.Designation{List: &cabs.DesignatorList{Designators: list}}
}

// designator = '[', constant-expression, ']' | '.', identifier;
func (p *Parser) visitDesignator() *cabs.Designator {
	switch {
	case p.nextIf("["):
		e := p.visitConditionalExpression()
		if e == nil || !p.nextIf("]") {
			return nil
		}
		return &cabs.Designator{Index: e}
	case p.nextIf("."):
		if name := p.visitIdentifier(); name != "" {
			return &cabs.Designator{Field: name}
		}
	}
	return nil
}
