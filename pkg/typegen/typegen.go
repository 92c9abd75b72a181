// Package typegen translates a parsed cabs tree into the scope and type
// registries of a ctypes.Context: typedefs, objects, functions, structs,
// unions, enums and labels, with constant expressions folded.
package typegen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/ctypes"
	"github.com/raymyers/cparse/pkg/diag"
	"modernc.org/token"
)

// ErrSemantic is returned when the tree is well formed but declares
// something inconsistent.
var ErrSemantic = errors.New("semantic error")

// Translator fills a Context from declarations. It tracks the current
// scope while it walks function bodies and blocks.
type Translator struct {
	ctx  *ctypes.Context
	diag *diag.Info

	scope ctypes.ScopeID
	body  ctypes.ScopeID // scope of the function being translated, for labels
	pos   token.Position // position of the declaration being translated
}

// New creates a Translator writing into ctx and reporting into info.
func New(ctx *ctypes.Context, info *diag.Info) *Translator {
	if info == nil {
		info = &diag.Info{}
	}
	return &Translator{ctx: ctx, diag: info, scope: ctx.Root()}
}

// Context returns the context being filled.
func (t *Translator) Context() *ctypes.Context { return t.ctx }

// Diag returns the diagnostics sink.
func (t *Translator) Diag() *diag.Info { return t.diag }

// Translate adds every external declaration of tu to the context.
func (t *Translator) Translate(tu *cabs.TranslationUnit) error {
	before := len(t.diag.Errors)
	for _, def := range tu.Decls {
		switch def := def.(type) {
		case *cabs.Declaration:
			t.declaration(def)
		case *cabs.FunctionDefinition:
			t.functionDefinition(def)
		}
	}
	if len(t.diag.Errors) > before {
		return fmt.Errorf("%w: %v", ErrSemantic, diag.ErrorList(t.diag.Errors[before:]))
	}
	return nil
}

// Unit translates tu into a fresh context for model.
func Unit(tu *cabs.TranslationUnit, model ctypes.Model, info *diag.Info) (*ctypes.Context, error) {
	t := New(ctypes.NewContext(model), info)
	err := t.Translate(tu)
	return t.ctx, err
}

// within runs fn with scope as the current scope.
func (t *Translator) within(scope ctypes.ScopeID, fn func()) {
	outer := t.scope
	t.scope = scope
	defer func() { t.scope = outer }()
	fn()
}

func (t *Translator) declaration(d *cabs.Declaration) {
	switch d.Kind {
	case cabs.DeclEmpty:
		return
	case cabs.DeclStaticAssert:
		t.staticAssert(d.StaticAssert)
		return
	}
	t.pos = d.Pos
	spec := t.specifiers(d.Specs)
	if d.Inits == nil {
		return
	}
	for _, init := range d.Inits.Decls {
		t.initDeclarator(spec, init, d.Attrs)
	}
}

func (t *Translator) initDeclarator(spec specInfo, init *cabs.InitDeclarator, attrs cabs.Attributes) {
	name, typ := t.declarator(spec.typ, init.Declarator, spec.cc)
	pos := t.declPos(init.Declarator)
	if name == "" {
		return
	}
	if spec.typedef {
		t.ctx.AddTypedef(t.scope, name, typ, pos)
		return
	}
	if t.isFunc(typ) {
		t.declareFunc(name, typ, spec, mergeAttrs(init.Declarator.Attrs, init.Attrs, attrs), pos)
		return
	}
	var value []ctypes.Value
	if init.Init != nil {
		typ = t.completeArray(typ, init.Init)
		if init.Init.Expr != nil {
			if v, err := t.eval(init.Init.Expr); err == nil {
				value = append(value, v)
			}
		}
	}
	t.ctx.AddVar(t.scope, name, typ, pos, value...)
}

// completeArray gives an array of unknown size the length implied by its
// initializer.
func (t *Translator) completeArray(typ ctypes.TypeID, init *cabs.Initializer) ctypes.TypeID {
	at := t.ctx.Type(t.ctx.Underlying(typ))
	if at == nil || !at.Flags.Any(ctypes.Array) || at.Count >= 0 {
		return typ
	}
	n := -1
	switch {
	case init.List != nil:
		n = t.initializerLength(init.List)
	case init.Expr != nil:
		if v, err := t.eval(init.Expr); err == nil {
			if s, ok := v.(ctypes.StringValue); ok {
				n = len(s) + 1
			}
		}
	}
	if n < 0 {
		return typ
	}
	return t.ctx.AddArrayType(at.Base, n, t.pos)
}

// initializerLength counts the elements of a brace initializer, following
// [index] designators.
func (t *Translator) initializerLength(list *cabs.InitializerList) int {
	n, next := 0, 0
	for _, item := range list.Items {
		if item.Designation != nil && item.Designation.List != nil && len(item.Designation.List.Designators) > 0 {
			if d := item.Designation.List.Designators[0]; d.Index != nil {
				if v, err := t.eval(d.Index); err == nil {
					if i, ok := ctypes.AsInt64(v); ok {
						next = int(i)
					}
				}
			}
		}
		next++
		n = max(n, next)
	}
	return n
}

// declareFunc registers a named function of type typ in the current scope.
func (t *Translator) declareFunc(name string, typ ctypes.TypeID, spec specInfo, attrs map[string]string, pos token.Position) ctypes.FuncID {
	proto := t.ctx.Func(t.ctx.Type(t.ctx.Underlying(typ)).Func)
	fn := *proto
	fn.ID, fn.Type = 0, 0
	fn.Name, fn.Pos = name, pos
	fn.Flags |= spec.storage | spec.cc | callConv(attrs)
	fn.Attrs = mergeAttrs(spec.attrs, attrs)
	fn.Params = slices.Clone(proto.Params)
	return t.ctx.AddFunc(t.scope, fn)
}

func (t *Translator) isFunc(typ ctypes.TypeID) bool {
	u := t.ctx.Type(t.ctx.Underlying(typ))
	return u != nil && u.Flags.Any(ctypes.Func)
}

func (t *Translator) functionDefinition(f *cabs.FunctionDefinition) {
	t.pos = f.Pos
	spec := t.specifiers(f.Specs)
	name, typ := t.declarator(spec.typ, f.Declarator, spec.cc)
	pos := t.declPos(f.Declarator)
	if !t.isFunc(typ) {
		t.diag.AddError(pos, "%s is not declared as a function", name)
		return
	}
	fn := t.ctx.Func(t.declareFunc(name, typ, spec, mergeAttrs(f.Declarator.Attrs, f.Attrs), pos))
	fn.Body = t.ctx.NewScope(t.scope)

	outer := t.body
	t.body = fn.Body
	defer func() { t.body = outer }()
	t.within(fn.Body, func() {
		if f.KRDecls != nil {
			for _, d := range f.KRDecls.Decls {
				t.parameterDeclaration(fn, d)
			}
		}
		for _, p := range fn.Params {
			if p.Name != "" {
				t.ctx.AddVar(fn.Body, p.Name, p.Type, pos)
			}
		}
		t.blockItems(f.Body)
	})
}

// parameterDeclaration applies a K&R parameter declaration to fn.
func (t *Translator) parameterDeclaration(fn *ctypes.FuncInfo, d *cabs.Declaration) {
	if d.Kind != cabs.DeclNormal || d.Inits == nil {
		return
	}
	t.pos = d.Pos
	spec := t.specifiers(d.Specs)
	for _, init := range d.Inits.Decls {
		name, typ := t.declarator(spec.typ, init.Declarator, 0)
		i := slices.IndexFunc(fn.Params, func(p ctypes.Param) bool { return p.Name == name })
		if i < 0 {
			t.diag.AddError(t.declPos(init.Declarator), "declaration of %s, which is not a parameter", name)
			continue
		}
		fn.Params[i].Type = t.adjustParam(typ)
	}
}

func (t *Translator) blockItems(c *cabs.CompoundStatement) {
	for _, item := range c.Items() {
		if item.Decl != nil {
			t.declaration(item.Decl)
			continue
		}
		t.statement(item.Stmt)
	}
}

func (t *Translator) statement(s cabs.Stmt) {
	switch s := s.(type) {
	case *cabs.CompoundStatement:
		t.within(t.ctx.NewScope(t.scope), func() { t.blockItems(s) })
	case *cabs.LabeledStatement:
		if s.Kind == cabs.LabelIdent {
			t.label(s.Label, s.Pos)
		}
		t.statement(s.Stmt)
	case *cabs.SelectionStatement:
		t.statement(s.Then)
		t.statement(s.Else)
	case *cabs.IterationStatement:
		if s.InitDecl == nil {
			t.statement(s.Body)
			return
		}
		t.within(t.ctx.NewScope(t.scope), func() {
			t.declaration(s.InitDecl)
			t.statement(s.Body)
		})
	}
}

func (t *Translator) label(name string, pos token.Position) {
	if t.body == 0 {
		return
	}
	if id := t.ctx.Scope(t.body).Labels[name]; id != 0 {
		t.diag.AddError(pos, "duplicate label %s, first defined at %s", name, t.ctx.Label(id).Pos)
		return
	}
	t.ctx.AddLabel(t.body, name, pos)
}

func (t *Translator) staticAssert(sa *cabs.StaticAssertDeclaration) {
	v, err := t.eval(sa.Cond)
	if err != nil {
		t.diag.AddError(sa.Pos, "static assertion: %v", err)
		return
	}
	if truth(v) {
		return
	}
	msg := ""
	if sa.Message != nil {
		msg = stringValue(sa.Message)
	}
	t.diag.AddError(sa.Pos, "static assertion failed: %s", msg)
}

// declPos is the position of the identifier declared by d, or of the
// enclosing declaration.
func (t *Translator) declPos(d *cabs.Declarator) token.Position {
	if id := d.Ident(); id != nil && id.Pos.Line > 0 {
		return id.Pos
	}
	return t.pos
}

func mergeAttrs(list ...cabs.Attributes) map[string]string {
	var out map[string]string
	for _, attrs := range list {
		for k, v := range attrs {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v
		}
	}
	return out
}

func callConv(attrs map[string]string) ctypes.Flags {
	var f ctypes.Flags
	for name, flag := range map[string]ctypes.Flags{"cdecl": ctypes.Cdecl, "stdcall": ctypes.Stdcall, "fastcall": ctypes.Fastcall} {
		if _, ok := attrs[name]; ok {
			f |= flag
		}
	}
	return f
}
