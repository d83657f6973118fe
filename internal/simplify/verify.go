package simplify

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/you-not-fish/p4simpl/internal/analysis"
	"github.com/you-not-fish/p4simpl/internal/syntax"
)

// Verify checks that prog is in simplified form: no statement expression
// contains && or || or ?:, side-effecting calls appear only at the root
// of a call statement or of an assignment's right-hand side (or as the
// operand of a table hit or action_run query), and every expression has
// a recorded type. It returns an error describing all violations found.
func Verify(prog *syntax.Program, info Oracle) error {
	v := &verifier{info: info}
	for _, d := range prog.Decls {
		v.decl(d)
	}
	if len(v.errs) == 0 {
		return nil
	}
	return errors.Errorf("simplified program is malformed:\n  %s", strings.Join(v.errs, "\n  "))
}

type verifier struct {
	info Oracle
	errs []string
}

func (v *verifier) add(pos syntax.Pos, format string, args ...interface{}) {
	v.errs = append(v.errs, fmt.Sprintf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (v *verifier) decl(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.FuncDecl:
		v.stmt(d.Body)
	case *syntax.ActionDecl:
		v.stmt(d.Body)
	case *syntax.ControlDecl:
		for _, l := range d.Locals {
			v.decl(l)
		}
		v.stmt(d.Body)
	case *syntax.ParserDecl:
		for _, s := range d.States {
			for _, st := range s.Stmts {
				v.stmt(st)
			}
			if s.Select != nil {
				v.expr(s.Select, false)
			}
		}
	}
}

func (v *verifier) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.BlockStmt:
		for _, st := range s.Stmts {
			v.stmt(st)
		}
	case *syntax.AssignStmt:
		v.expr(s.LHS, false)
		v.expr(s.RHS, true)
	case *syntax.CallStmt:
		v.expr(s.Call, true)
	case *syntax.IfStmt:
		v.expr(s.Cond, false)
		v.stmt(s.Then)
		if s.Else != nil {
			v.stmt(s.Else)
		}
	case *syntax.SwitchStmt:
		v.expr(s.Tag, false)
		for _, c := range s.Cases {
			v.stmt(c.Body)
		}
	case *syntax.ReturnStmt:
		if s.Result != nil {
			v.expr(s.Result, false)
		}
	case *syntax.DeclStmt:
		if vd, ok := s.Decl.(*syntax.VarDecl); ok && vd.Value != nil {
			v.expr(vd.Value, false)
		}
	}
}

// expr checks x. root is set when x may itself be a side-effecting
// call.
func (v *verifier) expr(x syntax.Expr, root bool) {
	if !v.info.Annotated(x) {
		v.add(x.Pos(), "%s has no recorded type", syntax.ExprString(x))
	}
	switch x := x.(type) {
	case *syntax.SelectorExpr:
		if call, ok := x.X.(*syntax.CallExpr); ok &&
			(analysis.IsTableHit(x, v.info) || analysis.IsActionRun(x, v.info)) {
			v.call(call)
			return
		}
		v.expr(x.X, false)

	case *syntax.IndexExpr:
		v.expr(x.X, false)
		v.expr(x.Index, false)

	case *syntax.Operation:
		if x.Op.IsShortCircuit() {
			v.add(x.Pos(), "operator %s remains in %s", x.Op, syntax.ExprString(x))
		}
		v.expr(x.X, false)
		if x.Y != nil {
			v.expr(x.Y, false)
		}

	case *syntax.CondExpr:
		v.add(x.Pos(), "conditional expression remains: %s", syntax.ExprString(x))
		v.expr(x.Cond, false)
		v.expr(x.X, false)
		v.expr(x.Y, false)

	case *syntax.CallExpr:
		if !root {
			d, err := analysis.DescribeCall(x, v.info)
			if err != nil || !d.Pure() {
				v.add(x.Pos(), "nested call with side effects: %s", syntax.ExprString(x))
			}
		}
		v.call(x)

	case *syntax.SelectExpr:
		for _, e := range x.Select {
			v.expr(e, false)
		}
	}
}

// call checks the receiver and arguments of x.
func (v *verifier) call(x *syntax.CallExpr) {
	if sel, ok := x.Fun.(*syntax.SelectorExpr); ok {
		v.expr(sel.X, false)
	}
	for _, arg := range x.Args {
		v.expr(arg, false)
	}
}
