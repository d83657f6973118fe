package types2

import (
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// collectDecls collects all top-level declarations and creates
// placeholder objects for them in the program scope.
func (c *Checker) collectDecls(decls []syntax.Decl) {
	for _, d := range decls {
		switch decl := d.(type) {
		case *syntax.HeaderDecl:
			c.collectTypeName(decl.Name)
		case *syntax.StructDecl:
			c.collectTypeName(decl.Name)
		case *syntax.EnumDecl:
			c.collectTypeName(decl.Name)
		case *syntax.ExternDecl:
			c.declare(decl.Name, types.NewFuncObj(decl.Name.Pos(), decl.Name.Value, types.Extern))
		case *syntax.FuncDecl:
			c.declare(decl.Name, types.NewFuncObj(decl.Name.Pos(), decl.Name.Value, types.Function))
		case *syntax.ActionDecl:
			c.declare(decl.Name, types.NewFuncObj(decl.Name.Pos(), decl.Name.Value, types.Action))
		case *syntax.ControlDecl, *syntax.ParserDecl:
			// Containers are not referenced by name; their names are
			// reserved so synthesized identifiers do not shadow them.
			name := containerName(decl)
			c.declare(name, types.NewTypeName(name.Pos(), name.Value, types.Typ[types.Void]))
		}
		// Constants are declared when evaluated, in source order.
	}
}

func containerName(d syntax.Decl) *syntax.Name {
	switch d := d.(type) {
	case *syntax.ControlDecl:
		return d.Name
	case *syntax.ParserDecl:
		return d.Name
	}
	return nil
}

// collectTypeName declares a named type whose underlying type is
// resolved later.
func (c *Checker) collectTypeName(name *syntax.Name) {
	obj := types.NewTypeName(name.Pos(), name.Value, nil)
	types.NewNamed(obj, nil)
	c.declare(name, obj)
}

// resolve resolves a name to an object.
// Reports an error if the name is undefined.
func (c *Checker) resolve(name *syntax.Name) types.Object {
	obj := c.lookup(name.Value)
	if obj == nil {
		c.errorf(name.Pos(), "undefined: %s", name.Value)
		return nil
	}
	c.recordUse(name, obj)
	return obj
}

// resolveType resolves a type expression and returns the resulting type,
// or nil if it is invalid.
func (c *Checker) resolveType(e syntax.Expr) types.Type {
	var x operand
	c.typExpr(&x, e)
	if x.mode == invalid {
		return nil
	}
	c.recordType(e, &x)
	return x.typ
}
