package ctypes

// Scope is a lexical region owning four name maps. Scopes form a tree
// through Parent and Children.
type Scope struct {
	ID       ScopeID
	Parent   ScopeID
	Children []ScopeID
	Types    map[string]TypeID
	Entries  map[string]EntityID
	Tags     map[string]TagID
	Labels   map[string]LabelID
}

// lookupDown searches scope, then every descendant depth first in creation
// order.
func lookupDown[ID ~int](c *Context, scope ScopeID, name string, names func(*Scope) map[string]ID) ID {
	s := c.Scope(scope)
	if s == nil {
		return 0
	}
	if id, ok := names(s)[name]; ok {
		return id
	}
	for _, child := range s.Children {
		if id := lookupDown(c, child, name, names); id != 0 {
			return id
		}
	}
	return 0
}

// lookupUp searches scope, then each enclosing scope out to the root.
func lookupUp[ID ~int](c *Context, scope ScopeID, name string, names func(*Scope) map[string]ID) ID {
	for s := c.Scope(scope); s != nil; s = c.Scope(s.Parent) {
		if id, ok := names(s)[name]; ok {
			return id
		}
	}
	return 0
}

func scopeTypes(s *Scope) map[string]TypeID     { return s.Types }
func scopeEntries(s *Scope) map[string]EntityID { return s.Entries }
func scopeTags(s *Scope) map[string]TagID       { return s.Tags }
func scopeLabels(s *Scope) map[string]LabelID   { return s.Labels }

// NameToTypeID finds a type name in scope or any scope nested inside it.
// It does not look at enclosing scopes; use ResolveType for that.
func (c *Context) NameToTypeID(scope ScopeID, name string) TypeID {
	return lookupDown(c, scope, name, scopeTypes)
}

// NameToEntryID finds an entity name in scope or any scope nested inside it.
func (c *Context) NameToEntryID(scope ScopeID, name string) EntityID {
	return lookupDown(c, scope, name, scopeEntries)
}

// NameToTagID finds a tag in scope or any scope nested inside it.
func (c *Context) NameToTagID(scope ScopeID, name string) TagID {
	return lookupDown(c, scope, name, scopeTags)
}

// NameToLabelID finds a label in scope or any scope nested inside it.
func (c *Context) NameToLabelID(scope ScopeID, name string) LabelID {
	return lookupDown(c, scope, name, scopeLabels)
}

// ResolveType finds the innermost visible type name, searching scope and
// then its enclosing scopes.
func (c *Context) ResolveType(scope ScopeID, name string) TypeID {
	return lookupUp(c, scope, name, scopeTypes)
}

// ResolveEntry finds the innermost visible entity.
func (c *Context) ResolveEntry(scope ScopeID, name string) EntityID {
	return lookupUp(c, scope, name, scopeEntries)
}

// ResolveTag finds the innermost visible tag.
func (c *Context) ResolveTag(scope ScopeID, name string) TagID {
	return lookupUp(c, scope, name, scopeTags)
}

// ResolveLabel finds a label in scope or an enclosing scope.
func (c *Context) ResolveLabel(scope ScopeID, name string) LabelID {
	return lookupUp(c, scope, name, scopeLabels)
}
