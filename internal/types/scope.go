package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/p4simpl/internal/syntax"
)

// Scope maps names to the objects declared in one region of a program.
// The Universe is the root; below it are the program scope, one scope
// per container (control, parser, action, function, extern, state)
// and one per block statement.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]Object
	node     syntax.Node // declaration or block that opened the scope
	comment  string      // e.g. "control ingress", "block"
}

// NewScope returns a scope for node nested in parent.
// node is nil for the Universe. Scopes directly below the Universe are
// not recorded as its children, so checking a program leaves the
// Universe unchanged.
func NewScope(parent *Scope, node syntax.Node, comment string) *Scope {
	s := &Scope{
		parent:  parent,
		elems:   make(map[string]Object),
		node:    node,
		comment: comment,
	}
	if parent != nil && parent != Universe {
		parent.children = append(parent.children, s)
	}
	return s
}

// Parent returns the enclosing scope, or nil for the Universe.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the nested scopes in creation order.
func (s *Scope) Children() []*Scope { return s.children }

// Node returns the syntax node that opened s.
func (s *Scope) Node() syntax.Node { return s.node }

// Comment returns the description given to NewScope.
func (s *Scope) Comment() string { return s.comment }

// Lookup returns the object named name declared directly in s.
func (s *Scope) Lookup(name string) Object {
	return s.elems[name]
}

// LookupParent searches s and its ancestors for name and returns the
// object together with the scope declaring it, or (nil, nil).
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for ; s != nil; s = s.parent {
		if obj, ok := s.elems[name]; ok {
			return obj, s
		}
	}
	return nil, nil
}

// Insert declares obj in s. If the name is taken, the earlier object is
// returned and s is unchanged.
func (s *Scope) Insert(obj Object) Object {
	if prev, ok := s.elems[obj.Name()]; ok {
		return prev
	}
	s.elems[obj.Name()] = obj
	obj.setParent(s)
	return nil
}

// Names returns the sorted names declared directly in s.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls f for every object declared in s and its descendants,
// parents before children and names in sorted order within a scope.
func (s *Scope) Each(f func(Object)) {
	for _, name := range s.Names() {
		f(s.elems[name])
	}
	for _, child := range s.children {
		child.Each(f)
	}
}

// String returns an indented listing of s and its descendants.
func (s *Scope) String() string {
	var b strings.Builder
	s.write(&b, 0)
	return b.String()
}

func (s *Scope) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s {\n", indent, s.comment)
	for _, name := range s.Names() {
		fmt.Fprintf(b, "%s  %s %s\n", indent, name, s.elems[name].Type())
	}
	for _, child := range s.children {
		child.write(b, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}
