package types2

import (
	"go/constant"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// structDecl resolves the fields of a header or struct declaration.
func (c *Checker) structDecl(name *syntax.Name, fields []*syntax.Field, header bool) {
	tn, ok := c.info.Defs[name].(*types.TypeName)
	if !ok {
		return // redeclared; already reported
	}
	named := tn.Type().(*types.Named)

	var vars []*types.Var
	seen := make(map[string]bool)
	for _, f := range fields {
		typ := c.resolveType(f.Type)
		if typ == nil {
			continue
		}
		if !types.IsDeclarable(typ) {
			c.errorf(f.Type.Pos(), "invalid field type %s", typ)
			continue
		}
		if header && !isBitsOrBool(typ) {
			c.errorf(f.Type.Pos(), "header field %s must be bit<W>, int<W> or bool, not %s", f.Name.Value, typ)
		}
		if seen[f.Name.Value] {
			c.errorf(f.Name.Pos(), "duplicate field %s", f.Name.Value)
			continue
		}
		seen[f.Name.Value] = true
		v := types.NewField(f.Name.Pos(), f.Name.Value, typ)
		c.info.Defs[f.Name] = v
		vars = append(vars, v)
	}

	if header {
		named.SetUnderlying(types.NewHeader(vars))
	} else {
		named.SetUnderlying(types.NewStruct(vars))
	}
}

func isBitsOrBool(t types.Type) bool {
	_, ok := t.Underlying().(*types.Bits)
	return ok || types.IsBoolean(t)
}

// enumDecl resolves an enum declaration. Members are numbered in
// declaration order.
func (c *Checker) enumDecl(d *syntax.EnumDecl) {
	tn, ok := c.info.Defs[d.Name].(*types.TypeName)
	if !ok {
		return
	}
	named := tn.Type().(*types.Named)
	enum := types.NewEnum()
	named.SetUnderlying(enum)

	for i, m := range d.Members {
		if enum.LookupMember(m.Value) != nil {
			c.errorf(m.Pos(), "duplicate enum member %s", m.Value)
			continue
		}
		obj := types.NewConst(m.Pos(), m.Value, named, constant.MakeInt64(int64(i)))
		enum.AddMember(obj)
		c.info.Defs[m] = obj
	}
}

// signature resolves a parameter list and result type, declaring the
// parameters in the current scope when declare is set.
func (c *Checker) signature(params []*syntax.Param, result syntax.Expr, declare bool) *types.Func {
	var vars []*types.Var
	for _, p := range params {
		typ := c.resolveType(p.Type)
		if typ == nil {
			typ = types.Typ[types.Invalid]
		} else if !types.IsDeclarable(typ) {
			c.errorf(p.Type.Pos(), "invalid parameter type %s", typ)
		}
		v := types.NewParam(p.Name.Pos(), p.Name.Value, typ, p.Dir)
		if declare {
			c.declare(p.Name, v)
		}
		vars = append(vars, v)
	}

	var res types.Type
	if result != nil {
		res = c.resolveType(result)
		if res != nil && !types.IsVoid(res) && !types.IsDeclarable(res) {
			c.errorf(result.Pos(), "invalid result type %s", res)
		}
	}
	return types.NewFunc(vars, res)
}

// externDecl resolves an extern function declaration and its annotations.
func (c *Checker) externDecl(d *syntax.ExternDecl) {
	obj, ok := c.info.Defs[d.Name].(*types.FuncObj)
	if !ok {
		return
	}
	c.openScope(d, "extern "+d.Name.Value)
	obj.SetSignature(c.signature(d.Params, d.Result, true))
	c.closeScope()

	for _, a := range d.Annotations {
		switch a.Name {
		case "noSideEffects", "pure":
			obj.SetNoSideEffects(true)
		default:
			c.errorf(a.Pos(), "unknown annotation @%s", a.Name)
		}
	}
}

// funcSignature resolves the signature of a function declaration.
// Parameters are declared when the body is checked.
func (c *Checker) funcSignature(d *syntax.FuncDecl) {
	obj, ok := c.info.Defs[d.Name].(*types.FuncObj)
	if !ok {
		return
	}
	obj.SetSignature(c.signature(d.Params, d.Result, false))
}

// actionSignature resolves the signature of a top-level action.
func (c *Checker) actionSignature(d *syntax.ActionDecl) {
	obj, ok := c.info.Defs[d.Name].(*types.FuncObj)
	if !ok {
		return
	}
	obj.SetSignature(c.signature(d.Params, nil, false))
}

// funcBody checks the body of a function.
func (c *Checker) funcBody(d *syntax.FuncDecl) {
	obj, ok := c.info.Defs[d.Name].(*types.FuncObj)
	if !ok {
		return
	}
	c.openScope(d, "function "+d.Name.Value)
	defer c.closeScope()
	defer c.enter(inFunction, obj.Signature())()

	c.declareParams(d.Params, obj.Signature())
	c.stmts(d.Body.Stmts)
}

// actionBody checks the body of a top-level action.
func (c *Checker) actionBody(d *syntax.ActionDecl) {
	obj, ok := c.info.Defs[d.Name].(*types.FuncObj)
	if !ok {
		return
	}
	c.openScope(d, "action "+d.Name.Value)
	defer c.closeScope()
	defer c.enter(inAction, nil)()

	c.declareParams(d.Params, obj.Signature())
	c.stmts(d.Body.Stmts)
}

// declareParams declares the parameter objects of sig, which were
// created when the signature was resolved.
func (c *Checker) declareParams(params []*syntax.Param, sig *types.Func) {
	for i, p := range params {
		c.declare(p.Name, sig.Param(i))
	}
}

// localAction checks an action declared inside a control.
func (c *Checker) localAction(d *syntax.ActionDecl) {
	obj := types.NewFuncObj(d.Name.Pos(), d.Name.Value, types.Action)
	c.declare(d.Name, obj)

	c.openScope(d, "action "+d.Name.Value)
	defer c.closeScope()
	defer c.enter(inAction, nil)()

	obj.SetSignature(c.signature(d.Params, nil, true))
	c.stmts(d.Body.Stmts)
}

// constDecl evaluates a constant declaration and declares it.
func (c *Checker) constDecl(d *syntax.ConstDecl, local bool) {
	typ := c.resolveType(d.Type)

	var x operand
	c.expr(&x, d.Value)
	if x.mode != invalid && x.mode != constant_ {
		c.errorf(d.Value.Pos(), "%s is not a compile-time constant", syntax.ExprString(d.Value))
		x.mode = invalid
	}
	if typ != nil && x.mode != invalid {
		c.assignment(&x, typ, "constant declaration")
	}

	var val constant.Value
	if x.mode == constant_ {
		val = x.val
	}
	if typ == nil {
		typ = types.Typ[types.Invalid]
	}
	c.declare(d.Name, types.NewConst(d.Name.Pos(), d.Name.Value, typ, val))
}

// varDecl checks a local variable declaration.
func (c *Checker) varDecl(d *syntax.VarDecl) {
	typ := c.resolveType(d.Type)
	if typ != nil && !types.IsDeclarable(typ) {
		c.errorf(d.Type.Pos(), "cannot declare a variable of type %s", typ)
		typ = nil
	}

	if d.Value != nil {
		var x operand
		c.expr(&x, d.Value)
		if typ != nil && x.mode != invalid {
			c.assignment(&x, typ, "variable declaration")
		}
	}

	if typ == nil {
		typ = types.Typ[types.Invalid]
	}
	c.declare(d.Name, types.NewVar(d.Name.Pos(), d.Name.Value, typ))
}

// controlDecl checks a control: parameters, local declarations in
// order, then the apply block.
func (c *Checker) controlDecl(d *syntax.ControlDecl) {
	c.openScope(d, "control "+d.Name.Value)
	defer c.closeScope()
	defer c.enter(inControl, nil)()

	c.signature(d.Params, nil, true)
	for _, l := range d.Locals {
		switch l := l.(type) {
		case *syntax.ConstDecl:
			c.constDecl(l, true)
		case *syntax.VarDecl:
			c.varDecl(l)
		case *syntax.ActionDecl:
			c.localAction(l)
		case *syntax.TableDecl:
			c.tableDecl(l)
		default:
			c.errorf(l.Pos(), "unexpected declaration %T in control", l)
		}
	}
	c.blockStmt(d.Body)
}

// tableDecl checks a table and declares it.
func (c *Checker) tableDecl(d *syntax.TableDecl) {
	for _, k := range d.Key {
		var x operand
		c.expr(&x, k.Expr)
		if x.mode != invalid && !isBitsOrBool(x.typ) && !isEnum(x.typ) {
			c.errorf(k.Expr.Pos(), "invalid key type %s", x.typ)
		}
		switch k.MatchKind.Value {
		case "exact", "ternary", "lpm":
		default:
			c.errorf(k.MatchKind.Pos(), "unknown match kind %s", k.MatchKind.Value)
		}
	}

	var actions []*types.FuncObj
	for _, a := range d.Actions {
		obj := c.lookup(a.Value)
		fn, ok := obj.(*types.FuncObj)
		if !ok || fn.Kind() != types.Action {
			c.errorf(a.Pos(), "%s is not an action", a.Value)
			continue
		}
		c.recordUse(a, fn)
		actions = append(actions, fn)
	}

	tbl := types.NewTable(d.Name.Value, actions)
	if d.DefaultAction != nil {
		if !tbl.HasAction(d.DefaultAction.Value) {
			c.errorf(d.DefaultAction.Pos(), "default action %s is not in the actions of table %s",
				d.DefaultAction.Value, d.Name.Value)
		} else {
			c.recordUse(d.DefaultAction, c.lookup(d.DefaultAction.Value))
		}
	}
	c.declare(d.Name, types.NewTableObj(d.Name.Pos(), d.Name.Value, tbl))
}

func isEnum(t types.Type) bool {
	_, ok := t.Underlying().(*types.Enum)
	return ok
}

// parserDecl checks a parser: states are declared first so transitions
// may refer forward.
func (c *Checker) parserDecl(d *syntax.ParserDecl) {
	c.openScope(d, "parser "+d.Name.Value)
	defer c.closeScope()
	defer c.enter(inParser, nil)()

	c.signature(d.Params, nil, true)
	for _, s := range d.States {
		c.declare(s.Name, types.NewState(s.Name.Pos(), s.Name.Value))
	}
	if c.scope.Lookup("start") == nil {
		c.errorf(d.Pos(), "parser %s has no start state", d.Name.Value)
	}

	for _, l := range d.Locals {
		switch l := l.(type) {
		case *syntax.ConstDecl:
			c.constDecl(l, true)
		case *syntax.VarDecl:
			c.varDecl(l)
		default:
			c.errorf(l.Pos(), "unexpected declaration %T in parser", l)
		}
	}
	for _, s := range d.States {
		c.stateDecl(s)
	}
}

// stateDecl checks a parser state and its transition.
func (c *Checker) stateDecl(s *syntax.StateDecl) {
	c.openScope(s, "state "+s.Name.Value)
	defer c.closeScope()

	c.stmts(s.Stmts)
	switch {
	case s.Select != nil:
		c.selectExpr(s.Select)
	case s.Next != nil:
		c.stateRef(s.Next)
	}
}

// stateRef resolves the target of a transition.
func (c *Checker) stateRef(name *syntax.Name) {
	obj := c.resolve(name)
	if obj == nil {
		return
	}
	if _, ok := obj.(*types.State); !ok {
		c.errorf(name.Pos(), "%s is not a parser state", name.Value)
	}
}

// selectExpr checks a select transition. Keysets are constants matching
// the selector types element-wise.
func (c *Checker) selectExpr(e *syntax.SelectExpr) {
	sel := make([]operand, len(e.Select))
	for i, s := range e.Select {
		c.expr(&sel[i], s)
		if sel[i].mode != invalid && types.IsUntyped(sel[i].typ) {
			c.errorf(s.Pos(), "select expression %s needs a fixed width", syntax.ExprString(s))
			sel[i].mode = invalid
		}
	}

	for _, cs := range e.Cases {
		if cs.Keys != nil {
			if len(cs.Keys) != len(e.Select) {
				c.errorf(cs.Pos(), "keyset has %d elements, select has %d", len(cs.Keys), len(e.Select))
			} else {
				for i, k := range cs.Keys {
					var x operand
					c.expr(&x, k)
					if x.mode == invalid {
						continue
					}
					if x.mode != constant_ {
						c.errorf(k.Pos(), "keyset element %s is not a compile-time constant", syntax.ExprString(k))
						continue
					}
					if sel[i].mode != invalid {
						c.assignment(&x, sel[i].typ, "keyset")
					}
				}
			}
		}
		c.stateRef(cs.State)
	}

	// The select expression itself has no value; record it so later
	// passes see every expression annotated.
	c.info.Types[e] = TypeAndValue{Type: types.Typ[types.Void], mode: novalue}
}
