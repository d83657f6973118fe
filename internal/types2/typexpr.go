package types2

import (
	"strconv"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// typExpr evaluates a type expression and sets x to the resulting type.
func (c *Checker) typExpr(x *operand, e syntax.Expr) {
	x.mode = typexpr
	x.pos = e.Pos()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.typeName(x, e)
	case *syntax.BitType:
		c.bitType(x, e)
	case *syntax.BoolType:
		x.typ = types.Typ[types.Bool]
	case *syntax.VoidType:
		x.typ = types.Typ[types.Void]
	case *syntax.StackType:
		c.stackType(x, e)
	default:
		c.errorf(e.Pos(), "%s is not a type", syntax.ExprString(e))
		x.mode = invalid
	}
}

// typeName resolves a type name.
func (c *Checker) typeName(x *operand, name *syntax.Name) {
	obj := c.resolve(name)
	if obj == nil {
		x.mode = invalid
		return
	}

	tn, ok := obj.(*types.TypeName)
	if !ok || tn.Type() == nil || types.IsVoid(tn.Type()) && tn.Name() != "void" {
		c.errorf(name.Pos(), "%s is not a type", name.Value)
		x.mode = invalid
		return
	}
	x.typ = tn.Type()
}

// bitType resolves bit<W> and int<W>.
func (c *Checker) bitType(x *operand, e *syntax.BitType) {
	w, err := strconv.Atoi(e.Width.Value)
	if err != nil || w <= 0 {
		c.errorf(e.Width.Pos(), "invalid width %s", e.Width.Value)
		x.mode = invalid
		return
	}
	x.typ = types.NewBits(w, e.Signed)
}

// stackType resolves a header stack Elem[N].
func (c *Checker) stackType(x *operand, e *syntax.StackType) {
	elem := c.resolveType(e.Elem)
	if elem == nil {
		x.mode = invalid
		return
	}
	if !types.IsHeader(elem) {
		c.errorf(e.Pos(), "stack element type %s is not a header", elem)
		x.mode = invalid
		return
	}
	n, err := strconv.ParseInt(e.Size.Value, 10, 64)
	if err != nil || n <= 0 {
		c.errorf(e.Size.Pos(), "invalid stack size %s", e.Size.Value)
		x.mode = invalid
		return
	}
	x.typ = types.NewStack(n, elem)
}

// TypeExpr returns a type expression spelling t, positioned at pos, and
// records it. It returns nil if t cannot be declared.
func (info *Info) TypeExpr(t types.Type, pos syntax.Pos) syntax.Expr {
	if !types.IsDeclarable(t) {
		return nil
	}
	var e syntax.Expr
	switch t := t.(type) {
	case *types.Basic:
		e = syntax.NewBoolType(pos)
	case *types.Bits:
		e = syntax.NewBitType(pos, t.Width(), t.Signed())
	case *types.Named:
		name := syntax.NewName(pos, t.Obj().Name())
		info.Uses[name] = t.Obj()
		e = name
	case *types.Stack:
		elem := info.TypeExpr(t.Elem(), pos)
		if elem == nil {
			return nil
		}
		e = syntax.NewStackType(pos, elem, int(t.Size()))
	default:
		return nil
	}
	info.Types[e] = TypeAndValue{Type: t, mode: typexpr}
	return e
}
