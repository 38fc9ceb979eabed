// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"strings"
)

// Var is a variable declared in a scope. Variables declared with the same
// identifier code share the same Signal.
//
type Var struct {
	Name  string // local name, including bit selection
	Base  string // local name without bit selection
	Type  string
	Width int
	Code  string

	MSB, LSB int
	Ranged   bool

	Signal *Signal

	scope *Scope
}

// Scope returns the scope the variable is declared in.
//
func (v *Var) Scope() *Scope { return v.scope }

// Path returns the full dotted path of the variable.
//
func (v *Var) Path() string {
	return joinPath(v.scope.Path(), v.Name)
}

// Scope is a node of the scope tree. The root scope of a dump has an empty
// name and holds the top level scopes and variables.
//
type Scope struct {
	Name string
	Type string // module, task, function, begin, fork, ...

	parent  *Scope
	scopes  []*Scope
	vars    []*Var
	byScope map[string]*Scope
	byVar   map[string]*Var
}

func newScope(typ, name string, parent *Scope) *Scope {
	return &Scope{
		Name:    name,
		Type:    typ,
		parent:  parent,
		byScope: make(map[string]*Scope),
		byVar:   make(map[string]*Var),
	}
}

func joinPath(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// Parent returns the parent scope, nil for the root scope.
//
func (s *Scope) Parent() *Scope { return s.parent }

// Path returns the full dotted path of the scope, empty for the root scope.
//
func (s *Scope) Path() string {
	if s.parent == nil {
		return s.Name
	}
	return joinPath(s.parent.Path(), s.Name)
}

// Scopes returns the child scopes in declaration order.
//
func (s *Scope) Scopes() []*Scope {
	r := make([]*Scope, len(s.scopes))
	copy(r, s.scopes)
	return r
}

// Vars returns the variables declared in the scope, in declaration order.
//
func (s *Scope) Vars() []*Var {
	r := make([]*Var, len(s.vars))
	copy(r, s.vars)
	return r
}

// Child returns the child scope with the given name, or nil.
//
func (s *Scope) Child(name string) *Scope { return s.byScope[name] }

// Var returns the variable with the given local name, or nil.
//
func (s *Scope) Var(name string) *Var { return s.byVar[name] }

// Contains returns true if name is the local name of a child scope or of a
// variable of s. Descendants are not searched.
//
func (s *Scope) Contains(name string) bool {
	return s.byScope[name] != nil || s.byVar[name] != nil
}

// child returns the child scope name, creating it if needed. Scopes that are
// declared again are merged.
//
func (s *Scope) child(typ, name string) *Scope {
	if c := s.byScope[name]; c != nil {
		return c
	}
	c := newScope(typ, name, s)
	s.scopes = append(s.scopes, c)
	s.byScope[name] = c
	return c
}

// addVar adds v to s. A variable declared again with the same name replaces
// the previous declaration.
//
func (s *Scope) addVar(v *Var) {
	v.scope = s
	if old := s.byVar[v.Name]; old != nil {
		for i := range s.vars {
			if s.vars[i] == old {
				s.vars[i] = v
				break
			}
		}
	} else {
		s.vars = append(s.vars, v)
	}
	s.byVar[v.Name] = v
}

// Lookup resolves a dotted path relative to s. The last path element can be
// a scope or a variable; if both exist, the scope is returned.
//
func (s *Scope) Lookup(path string) (Match, error) {
	cur := s
	rest := path
	for rest != "" {
		// variable names may contain dots (escaped identifiers): try the
		// whole remainder as a variable name first.
		if v := cur.byVar[rest]; v != nil && cur.byScope[rest] == nil {
			return Match{Path: v.Path(), Var: v, Signal: v.Signal}, nil
		}
		name := rest
		trailing := false
		if i := strings.IndexByte(rest, '.'); i >= 0 {
			name, rest = rest[:i], rest[i+1:]
			trailing = rest == ""
		} else {
			rest = ""
		}
		next := cur.byScope[name]
		if next == nil || name == "" || trailing {
			return Match{}, notFound("path", joinPath(s.Path(), path))
		}
		cur = next
	}
	return Match{Path: cur.Path(), Scope: cur}, nil
}

// Scope returns the descendant scope at the given relative path.
//
func (s *Scope) Scope(path string) (*Scope, error) {
	m, err := s.Lookup(path)
	if err != nil {
		return nil, err
	}
	if m.Scope == nil {
		return nil, notFound("scope", m.Path)
	}
	return m.Scope, nil
}

// Signal returns the signal of the variable at the given relative path.
//
func (s *Scope) Signal(path string) (*Signal, error) {
	m, err := s.Lookup(path)
	if err != nil {
		return nil, err
	}
	if m.Signal == nil {
		return nil, notFound("signal", m.Path)
	}
	return m.Signal, nil
}

// Find returns the direct children of s whose local name matches p: child
// scopes first, then variables, each in declaration order. Use Walk or
// VCD.Find to search by full path.
//
func (s *Scope) Find(p Pattern) Matches {
	var ms Matches
	for _, c := range s.scopes {
		if p.Match(c.Name) {
			ms = append(ms, Match{Path: c.Path(), Scope: c})
		}
	}
	for _, v := range s.vars {
		if p.Match(v.Name) {
			ms = append(ms, Match{Path: v.Path(), Var: v, Signal: v.Signal})
		}
	}
	return ms
}

// FindOne returns the only direct child of s matching p. See Matches.One.
//
func (s *Scope) FindOne(p Pattern) (Match, error) {
	return s.Find(p).One(p)
}

// Walk calls fn for every variable and scope below s in depth first order:
// the variables of a scope, then each child scope followed by its content.
// The walk stops at the first error returned by fn, which is returned by Walk.
//
func (s *Scope) Walk(fn func(m Match) error) error {
	for _, v := range s.vars {
		if err := fn(Match{Path: v.Path(), Var: v, Signal: v.Signal}); err != nil {
			return err
		}
	}
	for _, c := range s.scopes {
		if err := fn(Match{Path: c.Path(), Scope: c}); err != nil {
			return err
		}
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
