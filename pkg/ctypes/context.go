package ctypes

import (
	"fmt"
	"strconv"
	"strings"

	"modernc.org/mathutil"
	"modernc.org/token"
)

// Model gives the sizes that differ between data models.
type Model struct {
	Name            string `yaml:"name"`
	PointerSize     int    `yaml:"pointer_size"`
	LongSize        int    `yaml:"long_size"`
	LongDoubleSize  int    `yaml:"long_double_size"`
	LongDoubleAlign int    `yaml:"long_double_align"`
}

// Data models.
var (
	LP64  = Model{Name: "lp64", PointerSize: 8, LongSize: 8, LongDoubleSize: 16, LongDoubleAlign: 16}
	LLP64 = Model{Name: "llp64", PointerSize: 8, LongSize: 4, LongDoubleSize: 8, LongDoubleAlign: 8}
	ILP32 = Model{Name: "ilp32", PointerSize: 4, LongSize: 4, LongDoubleSize: 12, LongDoubleAlign: 4}
)

// ModelByName returns the data model called name.
func ModelByName(name string) (Model, error) {
	switch strings.ToLower(name) {
	case "", "lp64":
		return LP64, nil
	case "llp64":
		return LLP64, nil
	case "ilp32":
		return ILP32, nil
	}
	return Model{}, fmt.Errorf("unknown data model %q", name)
}

// sizeOf returns the size and alignment of an arithmetic type.
func (m Model) sizeOf(f Flags) (size, align int) {
	f = NormalizeFlags(f)
	switch {
	case f.Any(Void), f.Any(Bool), f.Any(Char):
		size = 1
	case f.Any(Floating):
		switch {
		case f.Any(Float80), f.Any(Float128):
			size = 16
		case f.Any(Long):
			size, align = m.LongDoubleSize, m.LongDoubleAlign
		case f.Any(Double):
			size = 8
		default:
			size = 4
		}
		if align == 0 {
			align = size
		}
		if f.Any(Complex) {
			size *= 2
		}
		return size, align
	case f.Any(Short):
		size = 2
	case f.Any(LongLong):
		size = 8
	case f.Any(Long):
		size = m.LongSize
	case f.Any(Int128):
		size = 16
	default:
		size = 4
	}
	return size, size
}

// table is an append-only registry addressed by 1-based IDs.
type table[ID ~int, T any] struct {
	items []*T
}

func (t *table[ID, T]) add(v *T) ID {
	t.items = append(t.items, v)
	return ID(len(t.items))
}

func (t *table[ID, T]) get(id ID) *T {
	if id <= 0 || int(id) > len(t.items) {
		return nil
	}
	return t.items[id-1]
}

// Context owns every registry of one parse session. The root scope is
// created and seeded with the built-in arithmetic types by NewContext.
type Context struct {
	Model Model

	types    table[TypeID, Type]
	scopes   table[ScopeID, Scope]
	tags     table[TagID, TagInfo]
	entities table[EntityID, Entity]
	funcs    table[FuncID, FuncInfo]
	structs  table[StructID, Struct]
	enums    table[EnumID, Enum]
	vars     table[VarID, Var]
	macros   table[MacroID, Macro]
	labels   table[LabelID, Label]

	root ScopeID
}

// NewContext creates a Context for model.
func NewContext(model Model) *Context {
	c := &Context{Model: model}
	c.root = c.NewScope(0)
	c.seed()
	return c
}

var builtinTypes = []struct {
	name  string
	flags Flags
}{
	{"void", Void},
	{"_Bool", Bool},
	{"char", Char},
	{"signed char", Signed | Char},
	{"unsigned char", Unsigned | Char},
	{"short", Short},
	{"unsigned short", Unsigned | Short},
	{"int", Int},
	{"unsigned int", Unsigned | Int},
	{"long", Long},
	{"unsigned long", Unsigned | Long},
	{"long long", LongLong},
	{"unsigned long long", Unsigned | LongLong},
	{"__int128", Int128},
	{"unsigned __int128", Unsigned | Int128},
	{"float", Floating},
	{"double", Floating | Double},
	{"long double", Floating | Long},
}

func (c *Context) seed() {
	var pos token.Position
	for _, b := range builtinTypes {
		flags := NormalizeFlags(b.flags)
		size, align := c.Model.sizeOf(flags)
		c.AddAlignedType(c.root, b.name, flags, size, align, 0, pos)
	}
	c.AddAliasType(c.root, "__int64", c.Basic(LongLong), pos)
	c.AddAliasType(c.root, "unsigned __int64", c.Basic(Unsigned|LongLong), pos)

	valist := c.AddPointerType(c.Basic(Char), 0, pos)
	c.AddTypedef(c.root, "__builtin_va_list", valist, pos)
	c.AddTypedef(c.root, "va_list", valist, pos)
}

// Root returns the file scope.
func (c *Context) Root() ScopeID { return c.root }

// Type returns the type with the given ID, or nil.
func (c *Context) Type(id TypeID) *Type { return c.types.get(id) }

// Scope returns the scope with the given ID, or nil.
func (c *Context) Scope(id ScopeID) *Scope { return c.scopes.get(id) }

// Tag returns the tag with the given ID, or nil.
func (c *Context) Tag(id TagID) *TagInfo { return c.tags.get(id) }

// Entity returns the entity with the given ID, or nil.
func (c *Context) Entity(id EntityID) *Entity { return c.entities.get(id) }

// Func returns the function with the given ID, or nil.
func (c *Context) Func(id FuncID) *FuncInfo { return c.funcs.get(id) }

// Struct returns the struct with the given ID, or nil.
func (c *Context) Struct(id StructID) *Struct { return c.structs.get(id) }

// Enum returns the enum with the given ID, or nil.
func (c *Context) Enum(id EnumID) *Enum { return c.enums.get(id) }

// Var returns the variable with the given ID, or nil.
func (c *Context) Var(id VarID) *Var { return c.vars.get(id) }

// Macro returns the macro with the given ID, or nil.
func (c *Context) Macro(id MacroID) *Macro { return c.macros.get(id) }

// Label returns the label with the given ID, or nil.
func (c *Context) Label(id LabelID) *Label { return c.labels.get(id) }

// NumTypes returns the number of registered types.
func (c *Context) NumTypes() int { return len(c.types.items) }

// Basic returns the root-scope type for the arithmetic flags f, registering
// it on first use. Qualifier and storage bits are ignored.
func (c *Context) Basic(f Flags) TypeID {
	f = NormalizeFlags(f &^ (qualifier | storage | Cdecl | Stdcall | Fastcall))
	if f.Any(Complex|Imaginary) && !f.Any(Floating) {
		f |= Floating | Double
		f &^= Int
	}
	name := BasicName(f)
	if id := c.Scope(c.root).Types[name]; id != 0 {
		return id
	}
	size, align := c.Model.sizeOf(f)
	return c.AddAlignedType(c.root, name, f, size, align, 0, token.Position{})
}

// Underlying follows typedef aliases to the type they name.
func (c *Context) Underlying(id TypeID) TypeID {
	for {
		t := c.Type(id)
		if t == nil || !t.Flags.Any(Alias) {
			return id
		}
		id = t.Base
	}
}

func (c *Context) bindType(scope ScopeID, name string, id TypeID) {
	if s := c.Scope(scope); s != nil && name != "" {
		s.Types[name] = id
	}
}

func (c *Context) bindEntry(scope ScopeID, name string, id EntityID) {
	if s := c.Scope(scope); s != nil && name != "" {
		s.Entries[name] = id
	}
}

// AddType registers a type whose alignment equals its size.
func (c *Context) AddType(scope ScopeID, name string, flags Flags, size int, pos token.Position) TypeID {
	return c.AddAlignedType(scope, name, flags, size, size, 0, pos)
}

// AddAlignedType registers a type with an explicit alignment and _Alignas.
// A non-empty name is bound in scope.
func (c *Context) AddAlignedType(scope ScopeID, name string, flags Flags, size, align, alignas int, pos token.Position) TypeID {
	if align <= 0 {
		align = 1
	}
	t := &Type{Name: name, Flags: flags, Size: size, Count: -1, Align: align, Alignas: alignas, Scope: scope, Pos: pos}
	t.ID = c.types.add(t)
	c.bindType(scope, name, t.ID)
	return t.ID
}

// AddAliasType registers name as an alias of base with base's size and
// alignment.
func (c *Context) AddAliasType(scope ScopeID, name string, base TypeID, pos token.Position) TypeID {
	b := c.Type(base)
	t := &Type{Name: name, Flags: Alias, Count: -1, Align: 1, Base: base, Scope: scope, Pos: pos}
	if b != nil {
		t.Size, t.Align, t.Alignas = b.Size, b.Align, b.Alignas
	}
	t.ID = c.types.add(t)
	c.bindType(scope, name, t.ID)
	return t.ID
}

// AddPointerType registers a pointer to base. flags may carry qualifiers of
// the pointer itself; LongLong marks a 64-bit pointer.
func (c *Context) AddPointerType(base TypeID, flags Flags, pos token.Position) TypeID {
	flags |= Pointer
	size := c.Model.PointerSize
	if flags.Any(LongLong) {
		size = 8
	}
	var sb strings.Builder
	if flags.Any(Const) {
		sb.WriteString("const ")
	}
	if flags.Any(Volatile) {
		sb.WriteString("volatile ")
	}
	scope := c.root
	if b := c.Type(base); b != nil {
		sb.WriteString(b.Name)
		scope = b.Scope
	} else {
		sb.WriteString("void")
	}
	sb.WriteByte('*')
	t := &Type{Name: sb.String(), Flags: flags, Size: size, Count: -1, Align: size, Base: base, Scope: scope, Pos: pos}
	t.ID = c.types.add(t)
	return t.ID
}

// AddArrayType registers an array of count elements of base. A negative
// count is an array of unknown size.
func (c *Context) AddArrayType(base TypeID, count int, pos token.Position) TypeID {
	t := &Type{Flags: Array, Count: count, Align: 1, Base: base, Scope: c.root, Pos: pos}
	dim := "[]"
	if count >= 0 {
		dim = "[" + strconv.Itoa(count) + "]"
	}
	t.Name = dim
	if b := c.Type(base); b != nil {
		t.Align, t.Scope = b.Align, b.Scope
		if count >= 0 {
			t.Size = b.Size * count
		}
		t.Name = b.Name + dim
		if b.Flags.Any(Array) {
			i := dimsStart(b.Name)
			t.Name = b.Name[:i] + dim + b.Name[i:]
		}
	}
	t.ID = c.types.add(t)
	return t.ID
}

// dimsStart returns the index of the trailing run of [n] groups in name.
func dimsStart(name string) int {
	i := len(name)
	for i > 0 && name[i-1] == ']' {
		j := strings.LastIndexByte(name[:i], '[')
		if j < 0 {
			break
		}
		i = j
	}
	return i
}

// AddFuncType registers the type of function fn and records it on fn.
func (c *Context) AddFuncType(fn FuncID, pos token.Position) TypeID {
	t := &Type{Flags: Func, Count: -1, Align: 1, Func: fn, Scope: c.root, Pos: pos}
	if f := c.Func(fn); f != nil {
		t.Name = c.signature(f)
		t.Flags |= f.Flags & (Cdecl | Stdcall | Fastcall)
	}
	t.ID = c.types.add(t)
	if f := c.Func(fn); f != nil {
		f.Type = t.ID
	}
	return t.ID
}

func (c *Context) signature(f *FuncInfo) string {
	var sb strings.Builder
	if r := c.Type(f.Return); r != nil {
		sb.WriteString(r.Name)
	} else {
		sb.WriteString("int")
	}
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if pt := c.Type(p.Type); pt != nil {
			sb.WriteString(pt.Name)
		}
	}
	if f.Variadic {
		if len(f.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	} else if f.Proto && len(f.Params) == 0 {
		sb.WriteString("void")
	}
	sb.WriteByte(')')
	return sb.String()
}

// AddStructType registers the type of struct st and records it on st.
func (c *Context) AddStructType(st StructID, pos token.Position) TypeID {
	t := &Type{Flags: Tag, Count: -1, Align: 1, Struct: st, Scope: c.root, Pos: pos}
	if s := c.Struct(st); s != nil {
		kw := "struct "
		if s.Union {
			kw = "union "
		}
		name := s.Name
		if name == "" {
			name = "<anonymous>"
		}
		t.Name = kw + name
		t.Size, t.Align = s.Size, mathutil.Max(s.Align, 1)
	}
	t.ID = c.types.add(t)
	if s := c.Struct(st); s != nil {
		s.Type = t.ID
	}
	return t.ID
}

// AddEnumType registers the type of enum en and records it on en.
func (c *Context) AddEnumType(en EnumID, pos token.Position) TypeID {
	t := &Type{Flags: Tag | Int, Count: -1, Size: 4, Align: 4, Enum: en, Scope: c.root, Pos: pos}
	if e := c.Enum(en); e != nil {
		name := e.Name
		if name == "" {
			name = "<anonymous>"
		}
		t.Name = "enum " + name
		if e.Size > 0 {
			t.Size, t.Align = e.Size, e.Size
		}
		if e.Unsigned {
			t.Flags |= Unsigned
		}
	}
	t.ID = c.types.add(t)
	if e := c.Enum(en); e != nil {
		e.Type = t.ID
	}
	return t.ID
}

// AddConstType registers the const-qualified version of base.
func (c *Context) AddConstType(base TypeID) TypeID {
	return c.AddQualifiedType(base, Const)
}

// AddQualifiedType registers base with the qualifier bits of quals added.
// Typedef aliases are looked through; the new type keeps the alias's name.
func (c *Context) AddQualifiedType(base TypeID, quals Flags) TypeID {
	quals = quals.Qualifiers()
	b := c.Type(base)
	if b == nil || quals == 0 || b.Flags.Has(quals) {
		return base
	}
	u := c.Type(c.Underlying(base))
	t := *u
	t.Flags |= quals
	if !t.Flags.Any(Pointer | Array | Func | Tag) {
		t.Base = u.ID
	}
	var sb strings.Builder
	for _, q := range []struct {
		f    Flags
		name string
	}{{Const, "const "}, {Volatile, "volatile "}, {Atomic, "_Atomic "}, {Restrict, "restrict "}} {
		if quals.Any(q.f) && !b.Flags.Any(q.f) {
			sb.WriteString(q.name)
		}
	}
	sb.WriteString(b.Name)
	t.Name = sb.String()
	t.Pos = token.Position{}
	nt := &t
	nt.ID = c.types.add(nt)
	return nt.ID
}

// AddAlignasType registers a copy of base carrying an explicit _Alignas.
// Typedef aliases are looked through.
func (c *Context) AddAlignasType(base TypeID, alignas int) TypeID {
	b := c.Type(c.Underlying(base))
	if b == nil || alignas <= 0 || b.Alignas == alignas {
		return base
	}
	t := *b
	t.Alignas = alignas
	t.Pos = token.Position{}
	nt := &t
	nt.ID = c.types.add(nt)
	return nt.ID
}

// NewScope creates a scope nested in parent. A zero parent makes a root.
func (c *Context) NewScope(parent ScopeID) ScopeID {
	s := &Scope{
		Parent:  parent,
		Types:   make(map[string]TypeID),
		Entries: make(map[string]EntityID),
		Tags:    make(map[string]TagID),
		Labels:  make(map[string]LabelID),
	}
	s.ID = c.scopes.add(s)
	if p := c.Scope(parent); p != nil {
		p.Children = append(p.Children, s.ID)
	}
	return s.ID
}

// AddEntity registers a named entity in scope.
func (c *Context) AddEntity(scope ScopeID, name string, kind EntityKind, typ TypeID, ref int, pos token.Position) EntityID {
	e := &Entity{Name: name, Kind: kind, Type: typ, Ref: ref, Scope: scope, Pos: pos}
	e.ID = c.entities.add(e)
	c.bindEntry(scope, name, e.ID)
	return e.ID
}

// AddVar registers a variable and its entity in scope, with an optional
// constant initial value.
func (c *Context) AddVar(scope ScopeID, name string, typ TypeID, pos token.Position, value ...Value) VarID {
	v := &Var{Name: name, Type: typ, Scope: scope, Pos: pos}
	if len(value) > 0 {
		v.Value = value[0]
	}
	v.ID = c.vars.add(v)
	c.AddEntity(scope, name, EntityVar, typ, int(v.ID), pos)
	return v.ID
}

// AddTypedef registers name as a typedef of base: an alias type and a
// typedef-name entity.
func (c *Context) AddTypedef(scope ScopeID, name string, base TypeID, pos token.Position) TypeID {
	id := c.AddAliasType(scope, name, base, pos)
	c.AddEntity(scope, name, EntityTypedef, id, int(id), pos)
	return id
}

// AddFunc registers fn, its type and, if it is named, its entity in scope.
func (c *Context) AddFunc(scope ScopeID, fn FuncInfo) FuncID {
	f := &fn
	f.ID = c.funcs.add(f)
	c.AddFuncType(f.ID, f.Pos)
	if f.Name != "" {
		c.AddEntity(scope, f.Name, EntityFunc, f.Type, int(f.ID), f.Pos)
	}
	return f.ID
}

// AddStruct registers an incomplete struct or union, its type and, if it
// is named, its tag in scope.
func (c *Context) AddStruct(scope ScopeID, name string, union bool, pos token.Position) StructID {
	s := &Struct{Name: name, Union: union, Align: 1, Pos: pos}
	s.ID = c.structs.add(s)
	typ := c.AddStructType(s.ID, pos)
	if name != "" {
		kind := TagStruct
		if union {
			kind = TagUnion
		}
		c.AddTag(scope, name, kind, typ, int(s.ID), pos)
	}
	return s.ID
}

// AddEnum registers an empty enumeration, its type and, if it is named, its
// tag in scope.
func (c *Context) AddEnum(scope ScopeID, name string, pos token.Position) EnumID {
	e := &Enum{Name: name, Size: 4, Pos: pos, values: make(map[string]Value)}
	e.ID = c.enums.add(e)
	typ := c.AddEnumType(e.ID, pos)
	if name != "" {
		c.AddTag(scope, name, TagEnum, typ, int(e.ID), pos)
	}
	return e.ID
}

// AddEnumValue appends an enumerator to en and registers it as an entity
// in scope.
func (c *Context) AddEnumValue(scope ScopeID, en EnumID, name string, value Value, pos token.Position) EntityID {
	e := c.Enum(en)
	if e == nil {
		return 0
	}
	e.Enumerators = append(e.Enumerators, Enumerator{Name: name, Value: value})
	e.values[name] = value
	return c.AddEntity(scope, name, EntityEnumValue, e.Type, int(en), pos)
}

// AddTag registers a struct, union or enum tag in scope.
func (c *Context) AddTag(scope ScopeID, name string, kind TagKind, typ TypeID, ref int, pos token.Position) TagID {
	t := &TagInfo{Name: name, Kind: kind, Type: typ, Ref: ref, Scope: scope, Pos: pos}
	t.ID = c.tags.add(t)
	if s := c.Scope(scope); s != nil && name != "" {
		s.Tags[name] = t.ID
	}
	return t.ID
}

// AddLabel registers a statement label in scope.
func (c *Context) AddLabel(scope ScopeID, name string, pos token.Position) LabelID {
	l := &Label{Name: name, Scope: scope, Pos: pos}
	l.ID = c.labels.add(l)
	if s := c.Scope(scope); s != nil {
		s.Labels[name] = l.ID
	}
	return l.ID
}

// AddMacro records a predefined macro.
func (c *Context) AddMacro(name, value string, pos token.Position) MacroID {
	m := &Macro{Name: name, Value: value, Pos: pos}
	m.ID = c.macros.add(m)
	return m.ID
}

// Macros returns every recorded macro in definition order.
func (c *Context) Macros() []*Macro { return c.macros.items }
