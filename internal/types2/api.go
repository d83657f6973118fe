package types2

import (
	"go/constant"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Error is called for each type error.
	// If nil, errors are silently ignored.
	Error ErrorHandler
}

// Info holds the results of type checking.
type Info struct {
	// Types maps expressions to their type and value information.
	// Later passes add entries for the nodes they synthesize.
	Types map[syntax.Expr]TypeAndValue

	// Defs maps defining identifiers to their declared objects.
	Defs map[*syntax.Name]types.Object

	// Uses maps referencing identifiers to their referenced objects.
	Uses map[*syntax.Name]types.Object

	// Scopes maps AST nodes to their scopes: the Program, every
	// container declaration and every block.
	Scopes map[syntax.Node]*types.Scope

	// names allocates fresh identifiers; see NewName.
	names *Names
}

// NewInfo returns an Info with all maps allocated.
func NewInfo() *Info {
	return &Info{
		Types:  make(map[syntax.Expr]TypeAndValue),
		Defs:   make(map[*syntax.Name]types.Object),
		Uses:   make(map[*syntax.Name]types.Object),
		Scopes: make(map[syntax.Node]*types.Scope),
		names:  NewNames(),
	}
}

// TypeAndValue holds the type and value information for an expression.
type TypeAndValue struct {
	Type  types.Type     // expression type
	Value constant.Value // constant value (nil if not constant)
	mode  operandMode    // operand mode
}

// IsVoid reports whether the expression has no value (void call).
func (tv TypeAndValue) IsVoid() bool {
	return tv.mode == novalue
}

// IsBuiltin reports whether the expression denotes a builtin method.
func (tv TypeAndValue) IsBuiltin() bool {
	return tv.mode == builtin
}

// IsType reports whether the expression is a type expression.
func (tv TypeAndValue) IsType() bool {
	return tv.mode == typexpr
}

// IsConstant reports whether the expression is a compile-time constant.
func (tv TypeAndValue) IsConstant() bool {
	return tv.mode == constant_
}

// IsLeftValue reports whether the expression denotes writable storage.
func (tv TypeAndValue) IsLeftValue() bool {
	return tv.mode == variable
}

// IsValue reports whether the expression has a value.
func (tv TypeAndValue) IsValue() bool {
	return tv.mode == constant_ || tv.mode == variable || tv.mode == value
}

// Mode returns a short description of the operand mode.
func (tv TypeAndValue) Mode() string {
	return tv.mode.String()
}

// Check type-checks a parsed program.
// It returns the collected information and the first error encountered, if any.
// The returned Info is usable even when errors were reported.
func Check(prog *syntax.Program, conf *Config) (*Info, error) {
	if conf == nil {
		conf = &Config{}
	}

	c := &Checker{
		conf: conf,
		info: NewInfo(),
	}

	c.checkProgram(prog)
	c.info.names.UseAll(c.info)

	if c.errors > 0 {
		return c.info, c.first
	}
	return c.info, nil
}
