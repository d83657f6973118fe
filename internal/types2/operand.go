package types2

import (
	"go/constant"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// operandMode describes the mode of an operand.
type operandMode int

const (
	invalid   operandMode = iota // operand is invalid
	novalue                      // operand has no value (void call)
	builtin                      // operand is a builtin method
	typexpr                      // operand is a type expression
	constant_                    // operand is a compile-time constant
	variable                     // operand is a left-value
	value                        // operand is a computed value (not a left-value)
)

var modeNames = [...]string{
	invalid:   "invalid",
	novalue:   "no value",
	builtin:   "builtin",
	typexpr:   "type",
	constant_: "constant",
	variable:  "variable",
	value:     "value",
}

func (m operandMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// operand represents the result of evaluating an expression.
type operand struct {
	mode operandMode
	pos  syntax.Pos
	typ  types.Type
	val  constant.Value // constant value (only valid when mode == constant_)
	expr syntax.Expr    // source expression (for error reporting)
	obj  types.Object   // callee object when the operand names a callable
}

// String returns a string representation of the operand for debugging.
func (x *operand) String() string {
	if x.mode == invalid {
		return "invalid operand"
	}
	if x.typ == nil {
		return "operand without type"
	}
	return x.typ.String()
}

// setConst sets the operand to a constant value.
func (x *operand) setConst(typ types.Type, val constant.Value) {
	x.mode = constant_
	x.typ = typ
	x.val = val
}

// setVar sets the operand to a left-value.
func (x *operand) setVar(typ types.Type) {
	x.mode = variable
	x.typ = typ
	x.val = nil
}

// setValue sets the operand to a computed value.
func (x *operand) setValue(typ types.Type) {
	x.mode = value
	x.typ = typ
	x.val = nil
}
