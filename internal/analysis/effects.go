package analysis

import (
	"github.com/you-not-fish/p4simpl/internal/syntax"
)

// HasSideEffects reports whether evaluating x may change state. Only
// calls have side effects; a call is side-effect free if it is pure
// and so are its arguments. Calls whose target cannot be resolved are
// assumed to have side effects.
func HasSideEffects(x syntax.Expr, info Info) bool {
	if x == nil {
		return false
	}
	effects := false
	syntax.Inspect(x, func(n syntax.Node) bool {
		if effects {
			return false
		}
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		d, err := DescribeCall(call, info)
		if err != nil || !d.Pure() {
			effects = true
			return false
		}
		// Pure target; the receiver and the arguments decide.
		if sel, ok := call.Fun.(*syntax.SelectorExpr); ok && HasSideEffects(sel.X, info) {
			effects = true
			return false
		}
		for _, arg := range call.Args {
			if HasSideEffects(arg, info) {
				effects = true
				break
			}
		}
		return false
	})
	return effects
}

// ArgsHaveSideEffects reports whether any argument bound in d has side
// effects.
func ArgsHaveSideEffects(d *CallDescription, info Info) bool {
	for _, p := range d.Params {
		if HasSideEffects(p.Arg, info) {
			return true
		}
	}
	return false
}
