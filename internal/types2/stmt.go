package types2

import (
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// stmts checks a list of statements.
func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// stmt checks a statement.
func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// nothing to do
	case *syntax.BlockStmt:
		c.blockStmt(s)
	case *syntax.AssignStmt:
		c.assignStmt(s)
	case *syntax.CallStmt:
		c.callStmt(s)
	case *syntax.IfStmt:
		c.ifStmt(s)
	case *syntax.SwitchStmt:
		c.switchStmt(s)
	case *syntax.ReturnStmt:
		c.returnStmt(s)
	case *syntax.ExitStmt:
		if c.where != inAction && c.where != inControl {
			c.errorf(s.Pos(), "exit is not allowed in a %s", c.where)
		}
	case *syntax.DeclStmt:
		c.declStmt(s)
	default:
		c.errorf(s.Pos(), "unexpected statement %T", s)
	}
}

// blockStmt checks a block statement in its own scope.
func (c *Checker) blockStmt(s *syntax.BlockStmt) {
	c.openScope(s, "block")
	defer c.closeScope()
	c.stmts(s.Stmts)
}

// assignStmt checks LHS = RHS.
func (c *Checker) assignStmt(s *syntax.AssignStmt) {
	var lhs, rhs operand
	c.expr(&lhs, s.LHS)
	c.expr(&rhs, s.RHS)
	if lhs.mode == invalid || rhs.mode == invalid {
		return
	}
	if lhs.mode != variable {
		c.errorf(s.LHS.Pos(), "cannot assign to %s (neither a variable nor a writable parameter)", syntax.ExprString(s.LHS))
		return
	}
	c.assignment(&rhs, lhs.typ, "assignment")
}

// callStmt checks a call evaluated for its effect.
func (c *Checker) callStmt(s *syntax.CallStmt) {
	var x operand
	c.rawExpr(&x, s.Call)
}

// ifStmt checks an if statement.
func (c *Checker) ifStmt(s *syntax.IfStmt) {
	var x operand
	c.expr(&x, s.Cond)
	if x.mode != invalid && !types.IsBoolean(x.typ) {
		c.errorf(s.Cond.Pos(), "non-boolean condition in if statement")
	}

	c.stmt(s.Then)
	if s.Else != nil {
		c.stmt(s.Else)
	}
}

// switchStmt checks a switch on the action run by a table.
// Labels name actions of the applied table.
func (c *Checker) switchStmt(s *syntax.SwitchStmt) {
	var x operand
	c.expr(&x, s.Tag)
	var ae *types.ActionEnum
	if x.mode != invalid {
		var ok bool
		if ae, ok = x.typ.(*types.ActionEnum); !ok {
			c.errorf(s.Tag.Pos(), "switch expression %s must be the action_run of a table", syntax.ExprString(s.Tag))
		}
	}

	seen := make(map[string]bool)
	hasDefault := false
	for _, cs := range s.Cases {
		if cs.Label == nil {
			if hasDefault {
				c.errorf(cs.Pos(), "multiple defaults in switch")
			}
			hasDefault = true
		} else {
			c.switchLabel(cs.Label, ae, seen)
		}
		c.blockStmt(cs.Body)
	}
}

func (c *Checker) switchLabel(label syntax.Expr, ae *types.ActionEnum, seen map[string]bool) {
	name, ok := label.(*syntax.Name)
	if !ok {
		c.errorf(label.Pos(), "switch label %s must be an action name", syntax.ExprString(label))
		return
	}
	if ae == nil {
		return
	}
	if seen[name.Value] {
		c.errorf(name.Pos(), "duplicate switch label %s", name.Value)
		return
	}
	seen[name.Value] = true

	for _, a := range ae.Table().Actions() {
		if a.Name() == name.Value {
			c.recordUse(name, a)
			c.info.Types[name] = TypeAndValue{Type: ae, mode: constant_}
			return
		}
	}
	c.errorf(name.Pos(), "%s is not an action of table %s", name.Value, ae.Table())
}

// returnStmt checks a return statement.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	if c.where == inParser {
		c.errorf(s.Pos(), "return is not allowed in a parser")
		return
	}

	var result types.Type = types.Typ[types.Void]
	if c.funcSig != nil {
		result = c.funcSig.Result()
	}

	if s.Result == nil {
		if !types.IsVoid(result) {
			c.errorf(s.Pos(), "missing return value")
		}
		return
	}
	if types.IsVoid(result) {
		c.errorf(s.Result.Pos(), "unexpected return value")
		var x operand
		c.rawExpr(&x, s.Result)
		return
	}

	var x operand
	c.expr(&x, s.Result)
	c.assignment(&x, result, "return statement")
}

// declStmt checks a local declaration statement.
func (c *Checker) declStmt(s *syntax.DeclStmt) {
	switch d := s.Decl.(type) {
	case *syntax.VarDecl:
		c.varDecl(d)
	case *syntax.ConstDecl:
		c.constDecl(d, true)
	default:
		c.errorf(s.Pos(), "unexpected declaration %T", d)
	}
}
