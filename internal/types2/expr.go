package types2

import (
	"go/constant"
	"go/token"
	"strings"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// expr evaluates an expression that must produce a single value and sets
// x to the result.
func (c *Checker) expr(x *operand, e syntax.Expr) {
	c.rawExpr(x, e)
	c.singleValue(x)
}

// rawExpr evaluates e without restricting the operand mode and records
// the result.
func (c *Checker) rawExpr(x *operand, e syntax.Expr) {
	c.exprInternal(x, e)

	// Record type information
	if x.mode != invalid {
		c.recordType(e, x)
	}
}

// singleValue reports an error if x does not denote a value.
func (c *Checker) singleValue(x *operand) {
	switch x.mode {
	case invalid, constant_, variable:
		return
	case novalue:
		c.errorf(x.pos, "%s (no value) used as value", syntax.ExprString(x.expr))
	case builtin:
		c.errorf(x.pos, "%s must be called", syntax.ExprString(x.expr))
	case typexpr:
		c.errorf(x.pos, "%s is not an expression", syntax.ExprString(x.expr))
	case value:
		switch x.typ.(type) {
		case *types.Func:
			c.errorf(x.pos, "%s must be called", syntax.ExprString(x.expr))
		case *types.Table:
			c.errorf(x.pos, "table %s used as value", syntax.ExprString(x.expr))
		default:
			return
		}
	}
	x.mode = invalid
}

// exprInternal is the main expression checking function.
func (c *Checker) exprInternal(x *operand, e syntax.Expr) {
	x.mode = invalid
	x.pos = e.Pos()
	x.expr = e
	x.typ = nil
	x.val = nil
	x.obj = nil

	switch e := e.(type) {
	case *syntax.Name:
		c.ident(x, e)
	case *syntax.BasicLit:
		c.basicLit(x, e)
	case *syntax.Operation:
		if e.Y == nil {
			c.unary(x, e)
		} else {
			c.binary(x, e)
		}
	case *syntax.CondExpr:
		c.condExpr(x, e)
	case *syntax.CallExpr:
		c.call(x, e)
	case *syntax.IndexExpr:
		c.index(x, e)
	case *syntax.SelectorExpr:
		c.selector(x, e)
	case *syntax.SelectExpr:
		c.errorf(e.Pos(), "select is only allowed as a parser transition")
	case *syntax.BitType, *syntax.BoolType, *syntax.VoidType, *syntax.StackType:
		c.typExpr(x, e)
	default:
		c.errorf(e.Pos(), "unexpected expression %T", e)
	}
}

// ident evaluates an identifier.
func (c *Checker) ident(x *operand, name *syntax.Name) {
	obj := c.resolve(name)
	if obj == nil {
		return
	}
	x.obj = obj

	switch obj := obj.(type) {
	case *types.Var:
		if obj.Writable() {
			x.setVar(obj.Type())
		} else {
			x.setValue(obj.Type())
		}
	case *types.Const:
		if obj.Val() == nil {
			return // invalid constant; already reported
		}
		x.setConst(obj.Type(), obj.Val())
	case *types.TypeName:
		x.mode = typexpr
		x.typ = obj.Type()
	case *types.FuncObj:
		x.setValue(obj.Signature())
	case *types.TableObj:
		x.setValue(obj.Table())
	case *types.State:
		c.errorf(name.Pos(), "parser state %s used as value", name.Value)
	default:
		c.errorf(name.Pos(), "unexpected object %T", obj)
	}
}

// basicLit evaluates a literal. Integers written as NwV or NsV have
// type bit<N> or int<N>; other integers are untyped.
func (c *Checker) basicLit(x *operand, lit *syntax.BasicLit) {
	if lit.Kind == syntax.BoolLit {
		x.setConst(types.Typ[types.Bool], constant.MakeBool(lit.Value == "true"))
		return
	}

	text := lit.Value
	var typ types.Type = types.Typ[types.UntypedInt]
	if i := strings.IndexAny(text, "ws"); i > 0 && !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		wv := constant.MakeFromLiteral(text[:i], token.INT, 0)
		w, ok := constant.Int64Val(wv)
		if wv.Kind() != constant.Int || !ok || w <= 0 {
			c.errorf(lit.Pos(), "invalid width in literal %s", text)
			return
		}
		typ = types.NewBits(int(w), text[i] == 's')
		text = text[i+1:]
	}

	val := constant.MakeFromLiteral(intLiteral(text), token.INT, 0)
	if val.Kind() != constant.Int {
		c.errorf(lit.Pos(), "malformed integer literal %s", lit.Value)
		return
	}
	if b, ok := typ.(*types.Bits); ok && !representable(val, b) {
		c.errorf(lit.Pos(), "literal %s does not fit in %s", lit.Value, b)
		return
	}
	x.setConst(typ, val)
}

// intLiteral rewrites a P4 integer literal into Go syntax. Leading zeros
// of a decimal literal do not mean octal.
func intLiteral(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) > 1 && s[0] == '0' && strings.IndexAny(s[1:2], "xXbBoOdD") < 0 {
		s = strings.TrimLeft(s, "0")
		if s == "" {
			s = "0"
		}
	}
	if strings.HasPrefix(s, "0d") || strings.HasPrefix(s, "0D") {
		s = s[2:]
	}
	return s
}

// representable reports whether the literal v fits in b. Unsigned
// widths accept 0 to 2^W-1; signed widths accept -2^(W-1) to 2^W-1 so
// that hex patterns such as 8s0xFF may be written.
func representable(v constant.Value, b *types.Bits) bool {
	max := constant.Shift(constant.MakeInt64(1), token.SHL, uint(b.Width()))
	if constant.Compare(v, token.GEQ, max) {
		return false
	}
	if !b.Signed() {
		return constant.Sign(v) >= 0
	}
	min := constant.UnaryOp(token.SUB, constant.Shift(constant.MakeInt64(1), token.SHL, uint(b.Width()-1)), 0)
	return constant.Compare(v, token.GEQ, min)
}

// wrap reduces v modulo 2^W and, for signed types, maps it into the
// two's complement range.
func wrap(v constant.Value, b *types.Bits) constant.Value {
	w := uint(b.Width())
	mod := constant.Shift(constant.MakeInt64(1), token.SHL, w)
	mask := constant.BinaryOp(mod, token.SUB, constant.MakeInt64(1))
	v = constant.BinaryOp(v, token.AND, mask)
	if b.Signed() {
		half := constant.Shift(constant.MakeInt64(1), token.SHL, w-1)
		if constant.Compare(v, token.GEQ, half) {
			v = constant.BinaryOp(v, token.SUB, mod)
		}
	}
	return v
}

// unary evaluates a unary operation.
func (c *Checker) unary(x *operand, e *syntax.Operation) {
	c.expr(x, e.X)
	if x.mode == invalid {
		return
	}
	x.pos = e.Pos()
	x.expr = e

	switch e.Op {
	case syntax.Not:
		if !types.IsBoolean(x.typ) {
			c.invalidOp(x, "operator ! not defined on %s", x.typ)
			x.mode = invalid
			return
		}
		if x.mode == constant_ {
			x.val = constant.UnaryOp(token.NOT, x.val, 0)
			return
		}
	case syntax.Sub:
		if !types.IsNumeric(x.typ) {
			c.invalidOp(x, "operator - not defined on %s", x.typ)
			x.mode = invalid
			return
		}
		if x.mode == constant_ {
			x.val = c.fold(constant.UnaryOp(token.SUB, x.val, 0), x.typ)
			return
		}
	case syntax.Tilde:
		b, ok := x.typ.Underlying().(*types.Bits)
		if !ok {
			c.invalidOp(x, "operator ~ not defined on %s", x.typ)
			x.mode = invalid
			return
		}
		if x.mode == constant_ {
			x.val = wrap(constant.UnaryOp(token.XOR, x.val, 0), b)
			return
		}
	default:
		c.invalidOp(x, "unknown unary operator %s", e.Op)
		x.mode = invalid
		return
	}
	x.setValue(x.typ)
}

// fold wraps a constant result to the width of typ.
func (c *Checker) fold(v constant.Value, typ types.Type) constant.Value {
	if b, ok := typ.Underlying().(*types.Bits); ok {
		return wrap(v, b)
	}
	return v
}

// binary evaluates a binary operation.
func (c *Checker) binary(x *operand, e *syntax.Operation) {
	var y operand
	c.expr(x, e.X)
	c.expr(&y, e.Y)
	if x.mode == invalid || y.mode == invalid {
		x.mode = invalid
		return
	}

	switch {
	case e.Op.IsShortCircuit():
		c.logical(x, &y, e.Op)
	case e.Op.IsComparison():
		c.comparison(x, &y, e.Op)
	case e.Op == syntax.Shl || e.Op == syntax.Shr:
		c.shift(x, &y, e.Op)
	default:
		c.arithmetic(x, &y, e.Op)
	}
	x.pos = e.Pos()
	x.expr = e
}

// logical evaluates && and ||.
func (c *Checker) logical(x, y *operand, op syntax.Token) {
	if !types.IsBoolean(x.typ) || !types.IsBoolean(y.typ) {
		c.invalidOp(x, "operator %s requires bool operands, have %s and %s", op, x.typ, y.typ)
		x.mode = invalid
		return
	}
	if x.mode == constant_ && y.mode == constant_ {
		tok := token.LAND
		if op == syntax.OrOr {
			tok = token.LOR
		}
		x.setConst(types.Typ[types.Bool], constant.BinaryOp(x.val, tok, y.val))
		return
	}
	x.setValue(types.Typ[types.Bool])
}

// comparison evaluates == != < <= > >=.
func (c *Checker) comparison(x, y *operand, op syntax.Token) {
	if !c.matchTypes(x, y) {
		c.invalidOp(x, "mismatched types %s and %s", x.typ, y.typ)
		x.mode = invalid
		return
	}

	switch op {
	case syntax.Eql, syntax.Neq:
		if !types.Comparable(x.typ) {
			c.invalidOp(x, "operator %s not defined on %s", op, x.typ)
			x.mode = invalid
			return
		}
	default:
		if !types.Ordered(x.typ) {
			c.invalidOp(x, "operator %s not defined on %s", op, x.typ)
			x.mode = invalid
			return
		}
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.setConst(types.Typ[types.Bool], constant.MakeBool(constant.Compare(x.val, goToken(op), y.val)))
		return
	}
	x.setValue(types.Typ[types.Bool])
}

// shift evaluates << and >>. The result has the type of the left
// operand; the shift amount is any unsigned or untyped integer.
func (c *Checker) shift(x, y *operand, op syntax.Token) {
	if !types.IsNumeric(x.typ) {
		c.invalidOp(x, "operator %s not defined on %s", op, x.typ)
		x.mode = invalid
		return
	}
	if b, ok := y.typ.Underlying().(*types.Bits); (ok && b.Signed()) || !types.IsNumeric(y.typ) {
		c.invalidOp(y, "shift amount %s must be unsigned", syntax.ExprString(y.expr))
		x.mode = invalid
		return
	}
	if y.mode == constant_ && constant.Sign(y.val) < 0 {
		c.invalidOp(y, "negative shift amount %s", y.val)
		x.mode = invalid
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		s, ok := constant.Uint64Val(y.val)
		if !ok || s > 1<<12 {
			c.invalidOp(y, "shift amount %s too large", y.val)
			x.mode = invalid
			return
		}
		x.setConst(x.typ, c.fold(constant.Shift(x.val, goToken(op), uint(s)), x.typ))
		return
	}
	x.setValue(x.typ)
}

// arithmetic evaluates + - * / % & | ^.
func (c *Checker) arithmetic(x, y *operand, op syntax.Token) {
	if !c.matchTypes(x, y) {
		c.invalidOp(x, "mismatched types %s and %s", x.typ, y.typ)
		x.mode = invalid
		return
	}
	if !types.IsNumeric(x.typ) {
		c.invalidOp(x, "operator %s not defined on %s", op, x.typ)
		x.mode = invalid
		return
	}

	if (op == syntax.Div || op == syntax.Rem) && y.mode == constant_ && constant.Sign(y.val) == 0 {
		c.invalidOp(y, "division by zero")
		x.mode = invalid
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.setConst(x.typ, c.fold(constant.BinaryOp(x.val, goToken(op), y.val), x.typ))
		return
	}
	x.setValue(x.typ)
}

// matchTypes converts an untyped operand to the type of the other one
// and reports whether both operands end up with identical types.
func (c *Checker) matchTypes(x, y *operand) bool {
	switch {
	case types.IsUntyped(x.typ) && !types.IsUntyped(y.typ):
		c.convertUntyped(x, y.typ)
	case types.IsUntyped(y.typ) && !types.IsUntyped(x.typ):
		c.convertUntyped(y, x.typ)
	}
	if x.mode == invalid || y.mode == invalid {
		return false
	}
	return types.Identical(x.typ, y.typ)
}

// convertUntyped gives the untyped operand x the type target.
func (c *Checker) convertUntyped(x *operand, target types.Type) {
	if !types.IsUntyped(x.typ) || target == nil {
		return
	}
	b, ok := target.Underlying().(*types.Bits)
	if !ok {
		c.errorf(x.pos, "cannot use %s as %s", syntax.ExprString(x.expr), target)
		x.mode = invalid
		return
	}
	if x.mode == constant_ {
		x.val = wrap(x.val, b)
	}
	x.typ = target
	c.updateExprType(x.expr, target)
}

// updateExprType replaces the untyped type recorded for e and its
// untyped operands with typ.
func (c *Checker) updateExprType(e syntax.Expr, typ types.Type) {
	tv, ok := c.info.Types[e]
	if !ok || !types.IsUntyped(tv.Type) {
		return
	}
	switch e := e.(type) {
	case *syntax.Operation:
		c.updateExprType(e.X, typ)
		if e.Y != nil && e.Op != syntax.Shl && e.Op != syntax.Shr {
			c.updateExprType(e.Y, typ)
		}
	case *syntax.CondExpr:
		c.updateExprType(e.X, typ)
		c.updateExprType(e.Y, typ)
	}
	tv.Type = typ
	if tv.Value != nil {
		tv.Value = c.fold(tv.Value, typ)
	}
	c.info.Types[e] = tv
}

// goToken maps an operator to its go/token equivalent for constant
// evaluation.
func goToken(op syntax.Token) token.Token {
	switch op {
	case syntax.Eql:
		return token.EQL
	case syntax.Neq:
		return token.NEQ
	case syntax.Lss:
		return token.LSS
	case syntax.Leq:
		return token.LEQ
	case syntax.Gtr:
		return token.GTR
	case syntax.Geq:
		return token.GEQ
	case syntax.Add:
		return token.ADD
	case syntax.Sub:
		return token.SUB
	case syntax.Mul:
		return token.MUL
	case syntax.Div:
		return token.QUO_ASSIGN // integer division
	case syntax.Rem:
		return token.REM
	case syntax.And:
		return token.AND
	case syntax.Or:
		return token.OR
	case syntax.Xor:
		return token.XOR
	case syntax.Shl:
		return token.SHL
	case syntax.Shr:
		return token.SHR
	}
	panic("types2.goToken: unexpected operator " + op.String())
}

// condExpr evaluates Cond ? X : Y.
func (c *Checker) condExpr(x *operand, e *syntax.CondExpr) {
	var cond, y operand
	c.expr(&cond, e.Cond)
	if cond.mode != invalid && !types.IsBoolean(cond.typ) {
		c.errorf(e.Cond.Pos(), "non-boolean condition %s", syntax.ExprString(e.Cond))
		cond.mode = invalid
	}
	c.expr(x, e.X)
	c.expr(&y, e.Y)
	if cond.mode == invalid || x.mode == invalid || y.mode == invalid {
		x.mode = invalid
		return
	}
	if types.IsUntyped(x.typ) && types.IsUntyped(y.typ) && cond.mode != constant_ {
		c.errorf(e.Pos(), "cannot infer the width of %s", syntax.ExprString(e))
		x.mode = invalid
		return
	}
	if !c.matchTypes(x, &y) {
		c.errorf(e.Pos(), "mismatched types %s and %s in conditional expression", x.typ, y.typ)
		x.mode = invalid
		return
	}
	x.expr = e
	x.pos = e.Pos()

	if cond.mode == constant_ && x.mode == constant_ && y.mode == constant_ {
		if !constant.BoolVal(cond.val) {
			x.val = y.val
		}
		x.setConst(x.typ, x.val)
		return
	}
	x.setValue(x.typ)
}

// index evaluates a header stack element access.
func (c *Checker) index(x *operand, e *syntax.IndexExpr) {
	c.expr(x, e.X)
	if x.mode == invalid {
		return
	}
	st, ok := x.typ.Underlying().(*types.Stack)
	if !ok {
		c.invalidOp(x, "cannot index %s of type %s", syntax.ExprString(e.X), x.typ)
		x.mode = invalid
		return
	}

	var i operand
	c.expr(&i, e.Index)
	if i.mode == invalid {
		x.mode = invalid
		return
	}
	if types.IsUntyped(i.typ) {
		c.convertUntyped(&i, types.NewBits(32, false))
	}
	if b, ok := i.typ.Underlying().(*types.Bits); !ok || b.Signed() {
		c.errorf(e.Index.Pos(), "index %s must be an unsigned integer", syntax.ExprString(e.Index))
		x.mode = invalid
		return
	}
	if i.mode == constant_ {
		if n, ok := constant.Int64Val(i.val); !ok || n >= st.Size() {
			c.errorf(e.Index.Pos(), "index %s out of bounds for %s", i.val, x.typ)
			x.mode = invalid
			return
		}
	}

	if x.mode == variable {
		x.setVar(st.Elem())
	} else {
		x.setValue(st.Elem())
	}
	x.pos = e.Pos()
	x.expr = e
}

// selector evaluates X.Sel: enum members, fields of headers and structs,
// and the hit, miss and action_run members of a table apply result.
func (c *Checker) selector(x *operand, e *syntax.SelectorExpr) {
	// Enum member: Color.Red
	if n, ok := e.X.(*syntax.Name); ok {
		if tn, ok := c.lookup(n.Value).(*types.TypeName); ok {
			if enum, ok := tn.Type().Underlying().(*types.Enum); ok {
				c.recordUse(n, tn)
				c.info.Types[n] = TypeAndValue{Type: tn.Type(), mode: typexpr}
				m := enum.LookupMember(e.Sel.Value)
				if m == nil {
					c.errorf(e.Sel.Pos(), "%s has no member %s", tn.Name(), e.Sel.Value)
					return
				}
				c.recordUse(e.Sel, m)
				x.setConst(m.Type(), m.Val())
				x.obj = m
				return
			}
		}
	}

	c.rawExpr(x, e.X)
	if x.mode == invalid {
		return
	}
	x.pos = e.Pos()
	x.expr = e

	if b, sig := types.LookupMethod(x.typ, e.Sel.Value); b != nil {
		c.recordUse(e.Sel, b)
		x.mode = builtin
		x.typ = sig
		x.val = nil
		x.obj = b
		return
	}
	c.singleValue(x)
	if x.mode == invalid {
		return
	}

	switch t := x.typ.Underlying().(type) {
	case *types.ApplyResult:
		switch e.Sel.Value {
		case "hit", "miss":
			x.setValue(types.Typ[types.Bool])
			return
		case "action_run":
			x.setValue(types.NewActionEnum(t.Table()))
			return
		}
	case *types.Struct:
		if f := t.LookupField(e.Sel.Value); f != nil {
			c.recordUse(e.Sel, f)
			if x.mode == variable {
				x.setVar(f.Type())
			} else {
				x.setValue(f.Type())
			}
			x.obj = f
			return
		}
	}
	c.errorf(e.Sel.Pos(), "%s.%s undefined (type %s has no field or method %s)",
		syntax.ExprString(e.X), e.Sel.Value, x.typ, e.Sel.Value)
	x.mode = invalid
}

// assignment checks that x can be assigned to a variable of type T,
// converting an untyped x.
func (c *Checker) assignment(x *operand, T types.Type, context string) {
	if x.mode == invalid || T == nil {
		return
	}
	if types.IsUntyped(x.typ) {
		c.convertUntyped(x, T)
		if x.mode == invalid {
			return
		}
	}
	if !types.AssignableTo(x.typ, T) {
		c.errorf(x.pos, "cannot use %s (type %s) as %s value in %s",
			syntax.ExprString(x.expr), x.typ, T, context)
		x.mode = invalid
	}
}
