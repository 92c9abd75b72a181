package typegen

import (
	"strconv"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/ctypes"
	"modernc.org/token"
)

// specInfo is what a specifier sequence contributes to its declarators.
type specInfo struct {
	typ     ctypes.TypeID
	storage ctypes.Flags
	cc      ctypes.Flags
	typedef bool
	attrs   map[string]string
}

var keywordFlags = map[string]ctypes.Flags{
	"void":       ctypes.Void,
	"_Bool":      ctypes.Bool,
	"char":       ctypes.Char,
	"short":      ctypes.Short,
	"int":        ctypes.Int,
	"long":       ctypes.Long,
	"float":      ctypes.Floating,
	"double":     ctypes.Floating | ctypes.Double,
	"signed":     ctypes.Signed,
	"unsigned":   ctypes.Unsigned,
	"_Complex":   ctypes.Complex,
	"_Imaginary": ctypes.Imaginary,
	"__int64":    ctypes.LongLong,
	"__int128":   ctypes.Int128,
	"__float80":  ctypes.Floating | ctypes.Float80,
	"__float128": ctypes.Floating | ctypes.Float128,
}

var qualifierFlags = map[string]ctypes.Flags{
	"const":    ctypes.Const,
	"volatile": ctypes.Volatile,
	"restrict": ctypes.Restrict,
	"_Atomic":  ctypes.Atomic,
	"__ptr64":  ctypes.LongLong,
}

var storageFlags = map[string]ctypes.Flags{
	"extern":        ctypes.Extern,
	"static":        ctypes.Static,
	"_Thread_local": ctypes.ThreadLocal,
}

// typeBuilder accumulates type specifiers and qualifiers.
type typeBuilder struct {
	t       *Translator
	flags   ctypes.Flags
	quals   ctypes.Flags
	base    ctypes.TypeID
	alignas int
}

func (b *typeBuilder) typeSpecifier(ts *cabs.TypeSpecifier) {
	t := b.t
	switch ts.Kind {
	case cabs.TypeKeyword:
		if ts.Name == "long" && b.flags.Any(ctypes.Long) {
			b.flags = b.flags&^ctypes.Long | ctypes.LongLong
			return
		}
		b.flags |= keywordFlags[ts.Name]
	case cabs.TypeAtomic:
		b.base = t.typeName(ts.Atomic.TypeName)
		b.quals |= ctypes.Atomic
	case cabs.TypeStructOrUnion:
		b.base = t.structOrUnion(ts.StructOrUnion)
	case cabs.TypeEnum:
		b.base = t.enum(ts.Enum)
	case cabs.TypeTypedefName:
		b.base = t.typedefName(ts.Name, ts.Pos)
	}
}

func (b *typeBuilder) qualifier(q *cabs.TypeQualifier) {
	b.quals |= qualifierFlags[q.Name] &^ ctypes.LongLong
}

func (b *typeBuilder) finish() ctypes.TypeID {
	typ := b.base
	if typ == 0 {
		typ = b.t.ctx.Basic(b.flags)
	}
	typ = b.t.ctx.AddQualifiedType(typ, b.quals)
	return b.t.ctx.AddAlignasType(typ, b.alignas)
}

// specifiers reads declaration specifiers. Struct, union and enum
// specifiers among them are registered as a side effect.
func (t *Translator) specifiers(specs *cabs.DeclarationSpecifiers) specInfo {
	var info specInfo
	b := typeBuilder{t: t}
	if specs != nil {
		for _, sp := range specs.Specs {
			switch sp.Kind {
			case cabs.SpecStorage:
				if sp.Storage.Name == "typedef" {
					info.typedef = true
				}
				info.storage |= storageFlags[sp.Storage.Name]
				info.attrs = mergeAttrs(info.attrs, sp.Storage.Attrs)
			case cabs.SpecType:
				b.typeSpecifier(sp.Type)
			case cabs.SpecQualifier:
				b.qualifier(sp.Qualifier)
			case cabs.SpecFunction:
				info.attrs = mergeAttrs(info.attrs, sp.Function.Attrs)
			case cabs.SpecAlignment:
				b.alignas = max(b.alignas, t.alignment(sp.Alignment))
			}
		}
	}
	b.alignas = max(b.alignas, alignedAttr(info.attrs))
	info.typ = b.finish()
	info.cc = callConv(info.attrs)
	return info
}

// alignedAttr reads __attribute__((aligned(n))). A bare aligned asks for
// the largest alignment, 16.
func alignedAttr(attrs map[string]string) int {
	v, ok := attrs["aligned"]
	if !ok {
		return 0
	}
	if v == "" {
		return 16
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// specifierQualifiers reads the specifiers of a member or type name.
func (t *Translator) specifierQualifiers(list *cabs.SpecifierQualifierList) ctypes.TypeID {
	b := typeBuilder{t: t}
	if list != nil {
		for _, item := range list.Items {
			switch {
			case item.Type != nil:
				b.typeSpecifier(item.Type)
			case item.Qualifier != nil:
				b.qualifier(item.Qualifier)
			case item.Alignment != nil:
				b.alignas = max(b.alignas, t.alignment(item.Alignment))
			default:
				b.alignas = max(b.alignas, alignedAttr(item.Attrs))
			}
		}
	}
	return b.finish()
}

// typeName returns the type denoted by a type name.
func (t *Translator) typeName(tn *cabs.TypeName) ctypes.TypeID {
	if tn == nil {
		return t.ctx.Basic(ctypes.Int)
	}
	return t.abstract(t.specifierQualifiers(tn.Specs), tn.Abstract)
}

func (t *Translator) alignment(a *cabs.AlignmentSpecifier) int {
	if a.TypeName != nil {
		if ty := t.ctx.Type(t.ctx.Underlying(t.typeName(a.TypeName))); ty != nil {
			return max(ty.Align, ty.Alignas)
		}
		return 0
	}
	n, ok := t.constInt(a.Expr, "alignment")
	if !ok {
		return 0
	}
	if n <= 0 || n&(n-1) != 0 {
		t.diag.AddError(t.pos, "requested alignment %d is not a positive power of 2", n)
		return 0
	}
	return int(n)
}

// typedefName resolves a typedef name from the current scope outwards.
// Names only known to the parser, through its seeded typedef list, are
// registered as opaque aliases of int.
func (t *Translator) typedefName(name string, pos token.Position) ctypes.TypeID {
	if id := t.ctx.ResolveType(t.scope, name); id != 0 {
		return id
	}
	t.diag.AddWarning(pos, "unknown type name %s, assuming int", name)
	return t.ctx.AddTypedef(t.ctx.Root(), name, t.ctx.Basic(ctypes.Int), pos)
}

// declarator derives the type of the declarator d from base and returns
// the declared name with its type.
func (t *Translator) declarator(base ctypes.TypeID, d *cabs.Declarator, cc ctypes.Flags) (string, ctypes.TypeID) {
	if d == nil {
		return "", base
	}
	cc |= callConv(d.Attrs)
	typ := t.pointers(base, d.Pointer)
	for dd := d.Direct; dd != nil; dd = dd.Child {
		switch dd.Kind {
		case cabs.DirIdent:
			return dd.Ident, typ
		case cabs.DirNested:
			return t.declarator(typ, dd.Nested, cc)
		case cabs.DirArray:
			typ = t.ctx.AddArrayType(typ, t.arrayCount(dd.Size), t.pos)
		case cabs.DirFunc:
			typ = t.funcType(typ, dd.Params, dd.Idents, cc)
		}
	}
	return "", typ
}

// abstract derives the type of an abstract declarator from base.
func (t *Translator) abstract(base ctypes.TypeID, d *cabs.AbstractDeclarator) ctypes.TypeID {
	if d == nil {
		return base
	}
	cc := callConv(d.Attrs)
	typ := t.pointers(base, d.Pointer)
	for dd := d.Direct; dd != nil; dd = dd.Child {
		switch dd.Kind {
		case cabs.DirNested:
			return t.abstract(typ, dd.Nested)
		case cabs.DirArray:
			typ = t.ctx.AddArrayType(typ, t.arrayCount(dd.Size), t.pos)
		case cabs.DirFunc:
			typ = t.funcType(typ, dd.Params, nil, cc)
		}
	}
	return typ
}

func (t *Translator) pointers(typ ctypes.TypeID, p *cabs.Pointer) ctypes.TypeID {
	for ; p != nil; p = p.Next {
		var flags ctypes.Flags
		if p.Quals != nil {
			for _, q := range p.Quals.Quals {
				flags |= qualifierFlags[q.Name]
			}
		}
		typ = t.ctx.AddPointerType(typ, flags, t.pos)
	}
	return typ
}

// arrayCount folds an array bound. A missing or non-constant bound gives
// -1, an array of unknown or variable length.
func (t *Translator) arrayCount(size *cabs.AssignmentExpression) int {
	if size == nil {
		return -1
	}
	v, err := t.eval(size)
	if err != nil {
		return -1
	}
	n, ok := ctypes.AsInt64(v)
	if !ok {
		return -1
	}
	if n < 0 {
		t.diag.AddError(t.pos, "array size is negative")
		return -1
	}
	return int(n)
}

// funcType registers an unnamed function type returning ret.
func (t *Translator) funcType(ret ctypes.TypeID, params *cabs.ParameterTypeList, idents *cabs.IdentifierList, cc ctypes.Flags) ctypes.TypeID {
	fn := ctypes.FuncInfo{Return: ret, Flags: cc, Pos: t.pos}
	switch {
	case params != nil:
		fn.Proto = true
		fn.Variadic = params.Variadic
		fn.Params = t.params(params.Params)
	case idents != nil:
		for _, name := range idents.Idents {
			fn.Params = append(fn.Params, ctypes.Param{Name: name, Type: t.ctx.Basic(ctypes.Int)})
		}
	}
	return t.ctx.Func(t.ctx.AddFunc(t.scope, fn)).Type
}

func (t *Translator) params(list *cabs.ParameterList) []ctypes.Param {
	if list == nil {
		return nil
	}
	var out []ctypes.Param
	for _, pd := range list.Params {
		spec := t.specifiers(pd.Specs)
		var p ctypes.Param
		switch {
		case pd.Declarator != nil:
			p.Name, p.Type = t.declarator(spec.typ, pd.Declarator, 0)
		default:
			p.Type = t.abstract(spec.typ, pd.Abstract)
		}
		if len(list.Params) == 1 && p.Name == "" && t.isVoid(p.Type) {
			return nil
		}
		p.Type = t.adjustParam(p.Type)
		out = append(out, p)
	}
	return out
}

// adjustParam turns array parameters into pointers to their element and
// function parameters into function pointers.
func (t *Translator) adjustParam(typ ctypes.TypeID) ctypes.TypeID {
	u := t.ctx.Type(t.ctx.Underlying(typ))
	switch {
	case u == nil:
		return typ
	case u.Flags.Any(ctypes.Array):
		return t.ctx.AddPointerType(u.Base, 0, t.pos)
	case u.Flags.Any(ctypes.Func):
		return t.ctx.AddPointerType(typ, 0, t.pos)
	}
	return typ
}

func (t *Translator) isVoid(typ ctypes.TypeID) bool {
	u := t.ctx.Type(t.ctx.Underlying(typ))
	return u != nil && u.Flags.Any(ctypes.Void) && !u.Flags.Any(ctypes.Pointer|ctypes.Array|ctypes.Func)
}

// structOrUnion registers a struct or union specifier and returns its
// type. A specifier without a body refers to the visible tag, declaring an
// incomplete one when there is none.
func (t *Translator) structOrUnion(s *cabs.StructOrUnionSpecifier) ctypes.TypeID {
	kind := ctypes.TagStruct
	if s.Union {
		kind = ctypes.TagUnion
	}
	if !s.HasBody {
		if tag := t.visibleTag(s.Tag, kind, s.Pos); tag != nil {
			return tag.Type
		}
		return t.ctx.Struct(t.ctx.AddStruct(t.scope, s.Tag, s.Union, s.Pos)).Type
	}

	var id ctypes.StructID
	if tag := t.localTag(s.Tag, kind, s.Pos); tag != nil {
		id = ctypes.StructID(tag.Ref)
		if t.ctx.Struct(id).Complete {
			t.diag.AddError(s.Pos, "redefinition of %s %s", s.Keyword(), s.Tag)
			return tag.Type
		}
	} else {
		id = t.ctx.AddStruct(t.scope, s.Tag, s.Union, s.Pos)
	}
	st := t.ctx.Struct(id)
	st.Pack = s.Pack
	st.Attrs = mergeAttrs(s.Attrs)
	if _, ok := s.Attrs["packed"]; ok {
		st.Pack = 1
	}
	st.Members = t.members(s.Decls)
	t.ctx.Layout(id)
	return st.Type
}

func (t *Translator) members(list *cabs.StructDeclarationList) []ctypes.Member {
	if list == nil {
		return nil
	}
	var out []ctypes.Member
	for _, sd := range list.Decls {
		switch sd.Kind {
		case cabs.StructDeclEmpty:
			continue
		case cabs.StructDeclStaticAssert:
			t.staticAssert(sd.StaticAssert)
			continue
		}
		base := t.specifierQualifiers(sd.Specs)
		if sd.Declarators == nil {
			if u := t.ctx.Type(t.ctx.Underlying(base)); u != nil && u.Struct != 0 {
				out = append(out, ctypes.Member{Type: base, BitWidth: -1, Pos: t.pos})
			}
			continue
		}
		for _, d := range sd.Declarators.Decls {
			m := ctypes.Member{Type: base, BitWidth: -1, Pos: t.pos}
			if d.Declarator != nil {
				m.Name, m.Type = t.declarator(base, d.Declarator, 0)
				m.Pos = t.declPos(d.Declarator)
			}
			if d.Width != nil {
				n, ok := t.constInt(d.Width, "bit-field width")
				if ok && n < 0 {
					t.diag.AddError(m.Pos, "negative width in bit-field %s", m.Name)
				}
				m.BitWidth = int(max(n, 0))
			}
			if m.Name == "" && m.BitWidth < 0 {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// enum registers an enum specifier and returns its type.
func (t *Translator) enum(e *cabs.EnumSpecifier) ctypes.TypeID {
	if !e.HasBody {
		if tag := t.visibleTag(e.Tag, ctypes.TagEnum, e.Pos); tag != nil {
			return tag.Type
		}
		return t.ctx.Enum(t.ctx.AddEnum(t.scope, e.Tag, e.Pos)).Type
	}

	var id ctypes.EnumID
	if tag := t.localTag(e.Tag, ctypes.TagEnum, e.Pos); tag != nil {
		id = ctypes.EnumID(tag.Ref)
		if t.ctx.Enum(id).Complete {
			t.diag.AddError(e.Pos, "redefinition of enum %s", e.Tag)
			return tag.Type
		}
	} else {
		id = t.ctx.AddEnum(t.scope, e.Tag, e.Pos)
	}
	var next ctypes.Value = ctypes.IntValue(0)
	if e.List != nil {
		for _, en := range e.List.Enumerators {
			v := next
			if en.Value != nil {
				if folded, ok := t.constValue(en.Value, "enumerator value"); ok {
					v = folded
				}
			}
			t.ctx.AddEnumValue(t.scope, id, en.Name, v, en.Pos)
			next, _ = binary("+", v, ctypes.IntValue(1))
		}
	}
	t.ctx.LayoutEnum(id)
	return t.ctx.Enum(id).Type
}

// visibleTag finds a tag from the current scope outwards.
func (t *Translator) visibleTag(name string, kind ctypes.TagKind, pos token.Position) *ctypes.TagInfo {
	if name == "" {
		return nil
	}
	return t.checkTag(t.ctx.Tag(t.ctx.ResolveTag(t.scope, name)), kind, pos)
}

// localTag finds a tag declared in the current scope only.
func (t *Translator) localTag(name string, kind ctypes.TagKind, pos token.Position) *ctypes.TagInfo {
	if name == "" {
		return nil
	}
	return t.checkTag(t.ctx.Tag(t.ctx.Scope(t.scope).Tags[name]), kind, pos)
}

func (t *Translator) checkTag(tag *ctypes.TagInfo, kind ctypes.TagKind, pos token.Position) *ctypes.TagInfo {
	if tag == nil || tag.Kind == kind {
		return tag
	}
	t.diag.AddError(pos, "%s is a %s tag, used as %s", tag.Name, tag.Kind, kind)
	return nil
}
