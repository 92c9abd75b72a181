// Package ctypes models the C type system as a set of flat, ID-addressed
// registries owned by one Context: types, scopes, tags, entities, functions,
// structs, enums, variables, macros and labels.
package ctypes

import "modernc.org/token"

// IDs address the registries of a Context. The zero ID means "none".
type (
	TypeID   int
	ScopeID  int
	TagID    int
	EntityID int
	FuncID   int
	StructID int
	EnumID   int
	VarID    int
	MacroID  int
	LabelID  int
)

// Type is one entry of the type registry.
type Type struct {
	ID      TypeID
	Name    string
	Flags   Flags
	Size    int
	Count   int // array length, -1 if unknown
	Align   int
	Alignas int // explicit _Alignas, 0 if none
	Base    TypeID
	Func    FuncID
	Struct  StructID
	Enum    EnumID
	Scope   ScopeID
	Pos     token.Position
}

func (t *Type) String() string {
	if t.Name == "" {
		return "<anonymous>"
	}
	return t.Name
}

// EntityKind classifies the names stored in a scope's entry map.
type EntityKind int

const (
	EntityVar EntityKind = iota
	EntityEnumValue
	EntityTypedef
	EntityFunc
)

func (k EntityKind) String() string {
	names := []string{"var", "enum_value", "typedef", "func"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// Entity is a named object, function, typedef-name or enumeration
// constant. Ref is the VarID, EnumID, TypeID or FuncID matching Kind.
type Entity struct {
	ID    EntityID
	Name  string
	Kind  EntityKind
	Type  TypeID
	Ref   int
	Scope ScopeID
	Pos   token.Position
}

// TagKind is the keyword that introduced a tag.
type TagKind int

const (
	TagStruct TagKind = iota
	TagUnion
	TagEnum
)

func (k TagKind) String() string {
	switch k {
	case TagUnion:
		return "union"
	case TagEnum:
		return "enum"
	}
	return "struct"
}

// TagInfo is a struct, union or enum tag. Ref is the StructID or EnumID.
type TagInfo struct {
	ID    TagID
	Name  string
	Kind  TagKind
	Type  TypeID
	Ref   int
	Scope ScopeID
	Pos   token.Position
}

// Param is one function parameter. Name may be empty.
type Param struct {
	Name string
	Type TypeID
}

// FuncInfo describes a function type and, for definitions, its body scope.
type FuncInfo struct {
	ID       FuncID
	Name     string
	Return   TypeID
	Params   []Param
	Variadic bool
	Proto    bool // declared with a parameter type list
	Flags    Flags
	Attrs    map[string]string
	Body     ScopeID
	Type     TypeID
	Pos      token.Position
}

// Member is one struct or union field. BitWidth is -1 for ordinary fields.
type Member struct {
	Name      string
	Type      TypeID
	Offset    int
	BitWidth  int
	BitOffset int
	Pos       token.Position
}

// Struct describes a struct or union. Size, Align and member offsets are
// filled in by Layout.
type Struct struct {
	ID       StructID
	Name     string
	Union    bool
	Members  []Member
	Size     int
	Align    int
	Pack     int
	Complete bool
	Attrs    map[string]string
	Type     TypeID
	Pos      token.Position
}

// Member returns the member called name, or nil.
func (s *Struct) Member(name string) *Member {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i]
		}
	}
	return nil
}

// Enumerator is one enumeration constant.
type Enumerator struct {
	Name  string
	Value Value
}

// Enum describes an enumeration.
type Enum struct {
	ID          EnumID
	Name        string
	Enumerators []Enumerator
	Size        int
	Unsigned    bool
	Complete    bool
	Type        TypeID
	Pos         token.Position

	values map[string]Value
}

// Lookup returns the value of the enumerator called name.
func (e *Enum) Lookup(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Var is a declared object.
type Var struct {
	ID    VarID
	Name  string
	Type  TypeID
	Value Value // initial constant value, or nil
	Scope ScopeID
	Pos   token.Position
}

// Macro is a predefined macro passed to the preprocessor.
type Macro struct {
	ID    MacroID
	Name  string
	Value string
	Pos   token.Position
}

// Label is a statement label inside a function body.
type Label struct {
	ID    LabelID
	Name  string
	Scope ScopeID
	Pos   token.Position
}

// Equal reports whether a and b denote the same type, looking through
// typedef aliases and ignoring storage class.
func (c *Context) Equal(a, b TypeID) bool {
	a, b = c.Underlying(a), c.Underlying(b)
	if a == b {
		return true
	}
	ta, tb := c.Type(a), c.Type(b)
	if ta == nil || tb == nil {
		return false
	}
	fa, fb := ta.Flags&^storage, tb.Flags&^storage
	switch {
	case fa.Any(Pointer):
		return fb.Any(Pointer) && fa.Qualifiers() == fb.Qualifiers() && c.Equal(ta.Base, tb.Base)
	case fa.Any(Array):
		return fb.Any(Array) && ta.Count == tb.Count && c.Equal(ta.Base, tb.Base)
	case fa.Any(Func):
		if !fb.Any(Func) {
			return false
		}
		fna, fnb := c.Func(ta.Func), c.Func(tb.Func)
		if fna == nil || fnb == nil {
			return fna == fnb
		}
		if fna.Variadic != fnb.Variadic || len(fna.Params) != len(fnb.Params) {
			return false
		}
		if !c.Equal(fna.Return, fnb.Return) {
			return false
		}
		for i, p := range fna.Params {
			if !c.Equal(p.Type, fnb.Params[i].Type) {
				return false
			}
		}
		return true
	case fa.Any(Tag):
		return fb.Any(Tag) && fa.Qualifiers() == fb.Qualifiers() &&
			ta.Struct == tb.Struct && ta.Enum == tb.Enum
	}
	if ta.Base != 0 || tb.Base != 0 {
		// qualified wrappers of arithmetic types
		if fa.Qualifiers() != fb.Qualifiers() {
			return false
		}
		return c.Equal(c.unqualified(a), c.unqualified(b))
	}
	return NormalizeFlags(fa) == NormalizeFlags(fb) && ta.Size == tb.Size
}

func (c *Context) unqualified(id TypeID) TypeID {
	for {
		t := c.Type(id)
		if t == nil || t.Base == 0 || t.Flags.Any(Pointer|Array|Alias) {
			return id
		}
		id = t.Base
	}
}
