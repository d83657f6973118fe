package types2

import (
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// container identifies the kind of declaration whose body is being checked.
type container int

const (
	topLevel container = iota
	inFunction
	inAction
	inControl
	inParser
)

func (k container) String() string {
	switch k {
	case inFunction:
		return "function"
	case inAction:
		return "action"
	case inControl:
		return "control"
	case inParser:
		return "parser"
	}
	return "top level"
}

// Checker is the type checker.
type Checker struct {
	conf *Config
	info *Info

	// Current checking context
	scope *types.Scope // current scope

	// Container context
	where   container   // kind of the innermost container
	funcSig *types.Func // signature of the enclosing function, if any

	// Error tracking
	errors int        // error count
	first  *TypeError // first error
}

// checkProgram type-checks a whole program.
func (c *Checker) checkProgram(prog *syntax.Program) {
	c.scope = types.NewScope(types.Universe, prog, "program")
	c.info.Scopes[prog] = c.scope

	// Phase 1: Collect all top-level names
	c.collectDecls(prog.Decls)

	// Phase 2: Resolve header, struct and enum types
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *syntax.HeaderDecl:
			c.structDecl(d.Name, d.Fields, true)
		case *syntax.StructDecl:
			c.structDecl(d.Name, d.Fields, false)
		case *syntax.EnumDecl:
			c.enumDecl(d)
		}
	}

	// Phase 3: Resolve signatures of callables
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *syntax.ExternDecl:
			c.externDecl(d)
		case *syntax.FuncDecl:
			c.funcSignature(d)
		case *syntax.ActionDecl:
			c.actionSignature(d)
		}
	}

	// Phase 4: Evaluate constants
	for _, d := range prog.Decls {
		if cd, ok := d.(*syntax.ConstDecl); ok {
			c.constDecl(cd, false)
		}
	}

	// Phase 5: Check bodies
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *syntax.FuncDecl:
			c.funcBody(d)
		case *syntax.ActionDecl:
			c.actionBody(d)
		case *syntax.ControlDecl:
			c.controlDecl(d)
		case *syntax.ParserDecl:
			c.parserDecl(d)
		}
	}
}

// openScope creates a new scope as a child of the current scope.
func (c *Checker) openScope(n syntax.Node, comment string) *types.Scope {
	s := types.NewScope(c.scope, n, comment)
	c.scope = s
	c.info.Scopes[n] = s
	return s
}

// closeScope returns to the parent scope.
func (c *Checker) closeScope() {
	c.scope = c.scope.Parent()
}

// enter switches to container kind k and returns a function restoring
// the previous context.
func (c *Checker) enter(k container, sig *types.Func) func() {
	where, funcSig := c.where, c.funcSig
	c.where, c.funcSig = k, sig
	return func() {
		c.where, c.funcSig = where, funcSig
	}
}

// lookup looks up a name in the current scope chain.
func (c *Checker) lookup(name string) types.Object {
	obj, _ := c.scope.LookupParent(name)
	return obj
}

// declare declares an object in the current scope.
// Reports an error if the name is already declared.
func (c *Checker) declare(name *syntax.Name, obj types.Object) {
	if existing := c.scope.Insert(obj); existing != nil {
		c.errorf(name.Pos(), "%s redeclared in this scope", name.Value)
		return
	}
	c.info.Defs[name] = obj
}

// recordType records the type information for an expression.
func (c *Checker) recordType(e syntax.Expr, x *operand) {
	c.info.Types[e] = TypeAndValue{
		Type:  x.typ,
		Value: x.val,
		mode:  x.mode,
	}
}

// recordUse records a use of an object.
func (c *Checker) recordUse(name *syntax.Name, obj types.Object) {
	c.info.Uses[name] = obj
}
