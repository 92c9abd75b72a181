package ctypes

import (
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

type typeReport struct {
	ID    TypeID `yaml:"id"`
	Name  string `yaml:"name"`
	Flags string `yaml:"flags"`
	Size  int    `yaml:"size"`
	Align int    `yaml:"align"`
	Base  string `yaml:"base,omitempty"`
}

type scopeReport struct {
	ID       ScopeID           `yaml:"id"`
	Parent   ScopeID           `yaml:"parent,omitempty"`
	Types    map[string]string `yaml:"types,omitempty"`
	Entries  map[string]string `yaml:"entries,omitempty"`
	Tags     map[string]string `yaml:"tags,omitempty"`
	Labels   []string          `yaml:"labels,omitempty"`
	Children []ScopeID         `yaml:"children,omitempty,flow"`
}

type memberReport struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Offset    int    `yaml:"offset"`
	BitWidth  int    `yaml:"bit_width,omitempty"`
	BitOffset int    `yaml:"bit_offset,omitempty"`
}

type structReport struct {
	Name    string         `yaml:"name"`
	Size    int            `yaml:"size"`
	Align   int            `yaml:"align"`
	Pack    int            `yaml:"pack,omitempty"`
	Members []memberReport `yaml:"members,omitempty"`
}

type enumReport struct {
	Name   string            `yaml:"name"`
	Size   int               `yaml:"size"`
	Values map[string]string `yaml:"values,omitempty"`
}

type report struct {
	Model   Model             `yaml:"model"`
	Types   []typeReport      `yaml:"types,omitempty"`
	Scopes  []scopeReport     `yaml:"scopes"`
	Structs []structReport    `yaml:"structs,omitempty"`
	Enums   []enumReport      `yaml:"enums,omitempty"`
	Macros  map[string]string `yaml:"macros,omitempty"`
}

// Dump writes the registries as YAML. Built-in types are left out of the
// type list but appear in the root scope.
func (c *Context) Dump(w io.Writer) error {
	r := report{Model: c.Model}
	for _, t := range c.types.items {
		if t.Pos.Filename == "" {
			continue
		}
		tr := typeReport{ID: t.ID, Name: t.String(), Flags: t.Flags.String(), Size: t.Size, Align: t.Align}
		if b := c.Type(t.Base); b != nil {
			tr.Base = b.String()
		}
		r.Types = append(r.Types, tr)
	}
	for _, s := range c.scopes.items {
		sr := scopeReport{ID: s.ID, Parent: s.Parent, Children: s.Children}
		for name, id := range s.Types {
			if sr.Types == nil {
				sr.Types = make(map[string]string)
			}
			sr.Types[name] = c.Type(id).String()
		}
		for name, id := range s.Entries {
			if sr.Entries == nil {
				sr.Entries = make(map[string]string)
			}
			e := c.Entity(id)
			sr.Entries[name] = e.Kind.String() + " " + c.typeName(e.Type)
		}
		for name, id := range s.Tags {
			if sr.Tags == nil {
				sr.Tags = make(map[string]string)
			}
			sr.Tags[name] = c.Tag(id).Kind.String()
		}
		for name := range s.Labels {
			sr.Labels = append(sr.Labels, name)
		}
		sort.Strings(sr.Labels)
		r.Scopes = append(r.Scopes, sr)
	}
	for _, s := range c.structs.items {
		sr := structReport{Name: c.typeName(s.Type), Size: s.Size, Align: s.Align, Pack: s.Pack}
		for _, m := range s.Members {
			mr := memberReport{Name: m.Name, Type: c.typeName(m.Type), Offset: m.Offset}
			if m.BitWidth >= 0 {
				mr.BitWidth, mr.BitOffset = m.BitWidth, m.BitOffset
			}
			sr.Members = append(sr.Members, mr)
		}
		r.Structs = append(r.Structs, sr)
	}
	for _, e := range c.enums.items {
		er := enumReport{Name: c.typeName(e.Type), Size: e.Size}
		for _, v := range e.Enumerators {
			if er.Values == nil {
				er.Values = make(map[string]string)
			}
			er.Values[v.Name] = "?"
			if v.Value != nil {
				er.Values[v.Name] = v.Value.String()
			}
		}
		r.Enums = append(r.Enums, er)
	}
	for _, m := range c.macros.items {
		if r.Macros == nil {
			r.Macros = make(map[string]string)
		}
		r.Macros[m.Name] = m.Value
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&r); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Context) typeName(id TypeID) string {
	if t := c.Type(id); t != nil {
		return t.String()
	}
	return "?"
}
