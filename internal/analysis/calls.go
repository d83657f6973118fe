// Package analysis answers the questions the expression simplifier asks
// about a checked program: which expressions may change state, what a
// call site binds its arguments to, and which expressions consume a
// table apply result in place.
package analysis

import (
	"github.com/pkg/errors"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// Info is the part of the type checker output the analyses read.
// *types2.Info implements it.
type Info interface {
	ObjectOf(name *syntax.Name) types.Object
	TypeOf(x syntax.Expr) types.Type
}

// Param binds a formal parameter to the argument supplied for it.
type Param struct {
	Var *types.Var
	Arg syntax.Expr
}

// Dir returns the direction of the parameter.
func (p Param) Dir() syntax.Direction {
	return p.Var.Dir()
}

// IsWritten reports whether the callee may write the argument.
func (p Param) IsWritten() bool {
	d := p.Var.Dir()
	return d == syntax.DirOut || d == syntax.DirInOut
}

// CallDescription describes a resolved call site.
type CallDescription struct {
	Call   *syntax.CallExpr
	Callee types.Object // *types.FuncObj or *types.Builtin
	Sig    *types.Func
	Params []Param // in declaration order
}

// Result returns the result type of the call; void calls return
// types.Typ[types.Void].
func (d *CallDescription) Result() types.Type {
	return d.Sig.Result()
}

// Pure reports whether executing the call, not counting its arguments,
// leaves all state unchanged: header isValid and externs annotated
// @noSideEffects or @pure that have no out or inout parameters.
func (d *CallDescription) Pure() bool {
	for _, p := range d.Params {
		if p.IsWritten() {
			return false
		}
	}
	switch c := d.Callee.(type) {
	case *types.Builtin:
		return c.Pure()
	case *types.FuncObj:
		return c.Kind() == types.Extern && c.NoSideEffects()
	}
	return false
}

// DescribeCall resolves the target of call and matches its formal
// parameters against the supplied arguments.
func DescribeCall(call *syntax.CallExpr, info Info) (*CallDescription, error) {
	var callee types.Object
	switch fun := call.Fun.(type) {
	case *syntax.Name:
		callee = info.ObjectOf(fun)
	case *syntax.SelectorExpr:
		callee = info.ObjectOf(fun.Sel)
	default:
		return nil, errors.Errorf("%s: cannot resolve call target %s", call.Pos(), syntax.ExprString(call.Fun))
	}

	var sig *types.Func
	switch c := callee.(type) {
	case *types.FuncObj:
		sig = c.Signature()
	case *types.Builtin:
		sig, _ = info.TypeOf(call.Fun).(*types.Func)
	case nil:
		return nil, errors.Errorf("%s: unresolved call target %s", call.Pos(), syntax.ExprString(call.Fun))
	default:
		return nil, errors.Errorf("%s: %s is not callable", call.Pos(), syntax.ExprString(call.Fun))
	}
	if sig == nil {
		return nil, errors.Errorf("%s: no signature for %s", call.Pos(), syntax.ExprString(call.Fun))
	}
	if sig.NumParams() != len(call.Args) {
		return nil, errors.Errorf("%s: call to %s has %d arguments, want %d",
			call.Pos(), syntax.ExprString(call.Fun), len(call.Args), sig.NumParams())
	}

	d := &CallDescription{
		Call:   call,
		Callee: callee,
		Sig:    sig,
		Params: make([]Param, len(call.Args)),
	}
	for i, arg := range call.Args {
		d.Params[i] = Param{Var: sig.Param(i), Arg: arg}
	}
	return d, nil
}

// IsTableHit reports whether sel is t.apply().hit or t.apply().miss.
func IsTableHit(sel *syntax.SelectorExpr, info Info) bool {
	switch sel.Sel.Value {
	case "hit", "miss":
		return isApplyResult(sel.X, info)
	}
	return false
}

// IsActionRun reports whether sel is t.apply().action_run.
func IsActionRun(sel *syntax.SelectorExpr, info Info) bool {
	return sel.Sel.Value == "action_run" && isApplyResult(sel.X, info)
}

func isApplyResult(x syntax.Expr, info Info) bool {
	if _, ok := x.(*syntax.CallExpr); !ok {
		return false
	}
	_, ok := info.TypeOf(x).(*types.ApplyResult)
	return ok
}
