package types2

import (
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// call evaluates a call expression. Functions, externs and actions are
// called by name; isValid, setValid, setInvalid and apply are called as
// methods.
func (c *Checker) call(x *operand, e *syntax.CallExpr) {
	c.rawExpr(x, e.Fun)
	if x.mode == invalid {
		c.useArgs(e.Args)
		return
	}

	var sig *types.Func
	switch x.mode {
	case builtin:
		sig = x.typ.(*types.Func)
	case value:
		s, ok := x.typ.(*types.Func)
		if !ok {
			c.invalidOp(x, "cannot call non-function %s", syntax.ExprString(e.Fun))
			x.mode = invalid
			c.useArgs(e.Args)
			return
		}
		sig = s
		if fn, ok := x.obj.(*types.FuncObj); ok && fn.Kind() == types.Action && c.where == inFunction {
			c.errorf(e.Pos(), "action %s cannot be called from a function", fn.Name())
		}
	default:
		c.invalidOp(x, "cannot call %s", syntax.ExprString(e.Fun))
		x.mode = invalid
		c.useArgs(e.Args)
		return
	}

	c.arguments(e, sig)

	x.pos = e.Pos()
	x.expr = e
	x.val = nil
	x.obj = nil
	if types.IsVoid(sig.Result()) {
		x.mode = novalue
		x.typ = types.Typ[types.Void]
		return
	}
	x.setValue(sig.Result())
}

// arguments checks the arguments of a call against sig. out and inout
// arguments must be left-values; directionless arguments must be
// compile-time constants.
func (c *Checker) arguments(e *syntax.CallExpr, sig *types.Func) {
	if len(e.Args) != sig.NumParams() {
		c.errorf(e.Pos(), "wrong number of arguments in call to %s: have %d, want %d",
			syntax.ExprString(e.Fun), len(e.Args), sig.NumParams())
		c.useArgs(e.Args)
		return
	}

	for i, arg := range e.Args {
		p := sig.Param(i)
		var x operand
		c.expr(&x, arg)
		if x.mode == invalid {
			continue
		}

		switch p.Dir() {
		case syntax.DirOut, syntax.DirInOut:
			if x.mode != variable {
				c.errorf(arg.Pos(), "%s argument %s is not a left-value", p.Dir(), syntax.ExprString(arg))
				continue
			}
			if !types.Identical(x.typ, p.Type()) {
				c.errorf(arg.Pos(), "cannot use %s (type %s) as %s in argument %s",
					syntax.ExprString(arg), x.typ, p.Type(), p.Name())
			}
		case syntax.DirNone:
			if x.mode != constant_ {
				c.errorf(arg.Pos(), "directionless argument %s is not a compile-time constant", syntax.ExprString(arg))
				continue
			}
			c.assignment(&x, p.Type(), "argument")
		default:
			c.assignment(&x, p.Type(), "argument")
		}
	}
}

// useArgs evaluates arguments of an invalid call so that errors in them
// are still reported.
func (c *Checker) useArgs(args []syntax.Expr) {
	for _, arg := range args {
		var x operand
		c.rawExpr(&x, arg)
	}
}
