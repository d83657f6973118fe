// Package simplify rewrites the expressions of a checked P4 program so
// that every statement evaluates at most one side-effecting operation.
// Nested calls, short-circuit operators and conditional expressions are
// dismantled into temporaries and explicit statements; the remaining
// residual expressions are free of side effects.
package simplify

import (
	"go/constant"

	"go.uber.org/zap"

	"github.com/you-not-fish/p4simpl/internal/analysis"
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// Oracle answers type queries about the program being rewritten and
// records annotations for the nodes the rewrite synthesizes.
// *types2.Info implements it.
type Oracle interface {
	analysis.Info

	NewName(base string) string
	IsLeftValue(x syntax.Expr) bool
	IsCompileTimeConstant(x syntax.Expr) bool
	ConstantValue(x syntax.Expr) constant.Value
	Annotated(x syntax.Expr) bool

	SetType(x syntax.Expr, t types.Type)
	SetLeftValue(x syntax.Expr)
	SetCompileTimeConstant(x syntax.Expr)
	Define(name *syntax.Name, obj types.Object)
	Use(name *syntax.Name, obj types.Object)

	// TypeExpr spells t as a type expression, or returns nil if no
	// variable of type t can be declared.
	TypeExpr(t types.Type, pos syntax.Pos) syntax.Expr
}

// EvalOrder is the result of dismantling one expression: the
// temporaries it needs, the statements computing them in order, and the
// residual expression. Final is nil only for a call whose result is not
// used.
type EvalOrder struct {
	Temps []*syntax.VarDecl
	Stmts []syntax.Stmt
	Final syntax.Expr

	oracle Oracle
	prefix string
	log    *zap.Logger
	vars   map[string]*types.Var
	folded bool // a constant was replaced by its value
}

func newEvalOrder(oracle Oracle, prefix string, log *zap.Logger) *EvalOrder {
	return &EvalOrder{
		oracle: oracle,
		prefix: prefix,
		log:    log,
		vars:   make(map[string]*types.Var),
	}
}

// Simple reports whether the expression needed no rewriting.
func (o *EvalOrder) Simple() bool {
	return len(o.Temps) == 0 && len(o.Stmts) == 0 && !o.folded
}

// CreateTemporary declares a fresh variable of type t without an
// initializer and returns a reference to it. It panics if t cannot be
// declared.
func (o *EvalOrder) CreateTemporary(t types.Type, pos syntax.Pos) *syntax.Name {
	typ := o.oracle.TypeExpr(t, pos)
	if typ == nil {
		failf(pos, "cannot declare a temporary of type %s", t)
	}
	name := o.oracle.NewName(o.prefix)
	decl := syntax.NewVarDecl(pos, typ, name, nil)
	v := types.NewVar(pos, name, t)
	o.oracle.Define(decl.Name, v)
	o.vars[name] = v
	o.Temps = append(o.Temps, decl)

	o.log.Debug("temporary", zap.String("name", name), zap.Stringer("type", t), zap.Stringer("pos", pos))
	return o.ref(name, pos)
}

// ref returns a new reference to the temporary name.
func (o *EvalOrder) ref(name string, pos syntax.Pos) *syntax.Name {
	v, ok := o.vars[name]
	if !ok {
		failf(pos, "reference to unknown temporary %s", name)
	}
	n := syntax.NewName(pos, name)
	o.oracle.Use(n, v)
	o.oracle.SetType(n, v.Type())
	o.oracle.SetLeftValue(n)
	return n
}

// AddAssignment appends name = x to the statements and returns a new
// reference to name.
func (o *EvalOrder) AddAssignment(name *syntax.Name, x syntax.Expr) *syntax.Name {
	o.Stmts = append(o.Stmts, syntax.NewAssign(x.Pos(), name, x))
	return o.ref(name.Value, name.Pos())
}

// addStmt appends s to the statements.
func (o *EvalOrder) addStmt(s syntax.Stmt) {
	o.Stmts = append(o.Stmts, s)
}

// branch returns an order that collects the statements of one arm of a
// conditional. Its temporaries are handed back by join.
func (o *EvalOrder) branch() *EvalOrder {
	b := newEvalOrder(o.oracle, o.prefix, o.log)
	b.vars = o.vars
	return b
}

// join takes over the temporaries of b and returns its statements as a
// block.
func (o *EvalOrder) join(b *EvalOrder, pos syntax.Pos) *syntax.BlockStmt {
	o.Temps = append(o.Temps, b.Temps...)
	return syntax.NewBlock(pos, b.Stmts)
}
