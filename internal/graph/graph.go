// Package graph models the declared infrastructure as a directed acyclic
// graph of named resource declarations.
//
// A declaration's attributes are either literal values or references to an
// attribute of another declaration. References are the dependency edges of
// the graph: a declaration can only be applied once every declaration it
// references has been applied and has produced the referenced attribute.
package graph

import (
	"fmt"
	"sort"
)

// Kind identifies the resource type of a declaration.
type Kind string

// Ref points at an output attribute of another declaration.
type Ref struct {
	Decl string
	Attr string
}

// Value is a single attribute value: either a literal or a reference.
type Value struct {
	Literal string
	Ref     *Ref
}

// Lit returns a literal attribute value.
func Lit(s string) Value {
	return Value{Literal: s}
}

// RefTo returns a reference to attr of the declaration named decl.
func RefTo(decl, attr string) Value {
	return Value{Ref: &Ref{Decl: decl, Attr: attr}}
}

// IsRef reports whether the value is a reference.
func (v Value) IsRef() bool {
	return v.Ref != nil
}

// Declaration describes one desired resource.
type Declaration struct {
	Kind  Kind
	Name  string
	Attrs map[string]Value

	// Sensitive lists attribute names whose values must never be rendered
	// in plan output or logs.
	Sensitive map[string]bool
}

// Dependencies returns the names of all declarations this one references,
// deduplicated and sorted for deterministic traversal.
func (d *Declaration) Dependencies() []string {
	seen := map[string]bool{}
	for _, v := range d.Attrs {
		if v.Ref != nil {
			seen[v.Ref.Decl] = true
		}
	}
	deps := make([]string, 0, len(seen))
	for name := range seen {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

// IsSensitive reports whether the named attribute is flagged sensitive.
func (d *Declaration) IsSensitive(attr string) bool {
	return d.Sensitive[attr]
}

// Graph holds a set of declarations keyed by name. Insertion order is
// preserved so that planning and apply output are stable across runs.
type Graph struct {
	decls map[string]*Declaration
	order []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{decls: map[string]*Declaration{}}
}

// Add inserts a declaration. Duplicate names are a configuration error.
func (g *Graph) Add(d *Declaration) error {
	if d.Name == "" {
		return fmt.Errorf("declaration of kind %q has no name", d.Kind)
	}
	if _, ok := g.decls[d.Name]; ok {
		return fmt.Errorf("duplicate declaration %q", d.Name)
	}
	g.decls[d.Name] = d
	g.order = append(g.order, d.Name)
	return nil
}

// Get returns the declaration with the given name, or nil.
func (g *Graph) Get(name string) *Declaration {
	return g.decls[name]
}

// Len returns the number of declarations.
func (g *Graph) Len() int {
	return len(g.order)
}

// Declarations returns all declarations in insertion order.
func (g *Graph) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.decls[name])
	}
	return out
}

// Validate checks that every reference targets a declared name and that the
// reference edges form a DAG. It must pass before any mutating call is made.
func (g *Graph) Validate() error {
	for _, name := range g.order {
		d := g.decls[name]
		for attr, v := range d.Attrs {
			if v.Ref == nil {
				continue
			}
			if _, ok := g.decls[v.Ref.Decl]; !ok {
				return fmt.Errorf("declaration %q attribute %q references unknown declaration %q",
					name, attr, v.Ref.Decl)
			}
		}
	}
	_, err := g.Sort()
	return err
}

// UnresolvedRefError reports a reference whose target has not produced the
// referenced attribute yet.
type UnresolvedRefError struct {
	Decl string
	Ref  Ref
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("declaration %q references %s.%s which is not available",
		e.Decl, e.Ref.Decl, e.Ref.Attr)
}

// Resolve materializes the declaration's attributes against the outputs of
// already-applied declarations. Outputs are keyed by declaration name, then
// by attribute name.
func Resolve(d *Declaration, outputs map[string]map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(d.Attrs))
	for attr, v := range d.Attrs {
		if v.Ref == nil {
			resolved[attr] = v.Literal
			continue
		}
		depOut, ok := outputs[v.Ref.Decl]
		if !ok {
			return nil, &UnresolvedRefError{Decl: d.Name, Ref: *v.Ref}
		}
		val, ok := depOut[v.Ref.Attr]
		if !ok {
			return nil, &UnresolvedRefError{Decl: d.Name, Ref: *v.Ref}
		}
		resolved[attr] = val
	}
	return resolved, nil
}
