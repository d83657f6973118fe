package simplify

import (
	"fmt"
	"go/constant"
	"go/token"

	"go.uber.org/zap"

	"github.com/you-not-fish/p4simpl/internal/analysis"
	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// Options control the rewrite.
type Options struct {
	// TempPrefix is the base name of synthesized temporaries.
	TempPrefix string

	// KeepConstantOperations leaves binary operations whose value is a
	// compile-time constant inline instead of hoisting them.
	KeepConstantOperations bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{TempPrefix: "tmp"}
}

// InvariantError reports an input the rewrite cannot handle, such as a
// call in left-value position or a call site that does not resolve.
// These indicate a bug in an earlier phase rather than a user error.
type InvariantError struct {
	Pos syntax.Pos
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: internal error: %s", e.Pos, e.Msg)
}

func failf(pos syntax.Pos, format string, args ...interface{}) {
	panic(&InvariantError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Dismantler rewrites single expressions. It is not safe for
// concurrent use since it updates the oracle.
type Dismantler struct {
	oracle Oracle
	opts   Options
	log    *zap.Logger
}

// NewDismantler returns a Dismantler recording into oracle. A nil log
// disables logging.
func NewDismantler(oracle Oracle, opts Options, log *zap.Logger) *Dismantler {
	if opts.TempPrefix == "" {
		opts.TempPrefix = DefaultOptions().TempPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dismantler{oracle: oracle, opts: opts, log: log}
}

// Dismantle rewrites x into an evaluation order. leftValue is set when
// x is the target of an assignment or an out argument; resultUnused is
// set when x is a call whose result is discarded.
func (d *Dismantler) Dismantle(x syntax.Expr, leftValue, resultUnused bool) (o *EvalOrder, err error) {
	defer catch(&err)
	return d.dismantle(x, leftValue, resultUnused), nil
}

// catch turns an InvariantError panic into *err.
func catch(err *error) {
	if r := recover(); r != nil {
		ie, ok := r.(*InvariantError)
		if !ok {
			panic(r)
		}
		*err = ie
	}
}

func (d *Dismantler) dismantle(x syntax.Expr, leftValue, resultUnused bool) *EvalOrder {
	d.log.Debug("Dismantling", zap.Stringer("expr", exprString{x}), zap.Bool("leftValue", leftValue))
	o := newEvalOrder(d.oracle, d.opts.TempPrefix, d.log)
	if call, ok := x.(*syntax.CallExpr); ok {
		o.Final = d.call(o, call, leftValue, resultUnused, false)
	} else {
		o.Final = d.expr(o, x, leftValue)
	}
	d.log.Debug("Result is",
		zap.Stringer("final", exprString{o.Final}),
		zap.Int("temps", len(o.Temps)),
		zap.Int("stmts", len(o.Stmts)))
	return o
}

// expr dismantles x into o and returns the residual expression.
func (d *Dismantler) expr(o *EvalOrder, x syntax.Expr, leftValue bool) syntax.Expr {
	d.log.Debug("Visiting", zap.Stringer("expr", exprString{x}), zap.Stringer("pos", x.Pos()))

	switch x := x.(type) {
	case *syntax.Name, *syntax.BasicLit:
		return x

	case *syntax.SelectorExpr:
		var nx syntax.Expr
		if call, ok := x.X.(*syntax.CallExpr); ok &&
			(analysis.IsTableHit(x, d.oracle) || analysis.IsActionRun(x, d.oracle)) {
			nx = d.call(o, call, false, false, true)
		} else {
			nx = d.expr(o, x.X, leftValue)
		}
		if nx == x.X {
			return x
		}
		n := *x
		n.X = nx
		d.annotate(&n, x)
		return &n

	case *syntax.IndexExpr:
		nx := d.expr(o, x.X, leftValue)
		ni := d.expr(o, x.Index, false)
		if nx == x.X && ni == x.Index {
			return x
		}
		n := *x
		n.X, n.Index = nx, ni
		d.annotate(&n, x)
		return &n

	case *syntax.Operation:
		if x.Y == nil {
			return d.unary(o, x)
		}
		if x.Op.IsShortCircuit() {
			return d.shortCircuit(o, x)
		}
		return d.binary(o, x)

	case *syntax.CondExpr:
		return d.cond(o, x)

	case *syntax.CallExpr:
		return d.call(o, x, leftValue, false, false)

	case *syntax.SelectExpr:
		return d.selectExpr(o, x)
	}
	failf(x.Pos(), "unexpected expression %T", x)
	return nil
}

func (d *Dismantler) unary(o *EvalOrder, x *syntax.Operation) syntax.Expr {
	nx := d.expr(o, x.X, false)
	if nx == x.X {
		return x
	}
	n := *x
	n.X = nx
	d.annotate(&n, x)
	return &n
}

// binary evaluates the left operand before the right one and names the
// result.
func (d *Dismantler) binary(o *EvalOrder, x *syntax.Operation) syntax.Expr {
	nx := d.expr(o, x.X, false)
	ny := d.expr(o, x.Y, false)
	var res syntax.Expr = x
	if nx != x.X || ny != x.Y {
		n := *x
		n.X, n.Y = nx, ny
		d.annotate(&n, x)
		res = &n
	}

	t := d.oracle.TypeOf(x)
	if !types.IsDeclarable(t) {
		return res
	}
	if d.opts.KeepConstantOperations && d.oracle.IsCompileTimeConstant(x) {
		return res
	}
	tmp := o.CreateTemporary(t, x.Pos())
	return o.AddAssignment(tmp, res)
}

// shortCircuit lowers
//
//	a && b  to  if (!a) tmp = false; else { b...; tmp = b; }
//	a || b  to  if (a) tmp = true; else { b...; tmp = b; }
func (d *Dismantler) shortCircuit(o *EvalOrder, x *syntax.Operation) syntax.Expr {
	pos := x.Pos()
	t := d.oracle.TypeOf(x)
	cond := d.expr(o, x.X, false)
	tmp := o.CreateTemporary(t, pos)

	land := x.Op == syntax.AndAnd
	short := d.boolLit(pos, !land)
	then := syntax.NewAssign(pos, o.ref(tmp.Value, pos), short)

	b := o.branch()
	right := d.expr(b, x.Y, false)
	b.AddAssignment(o.ref(tmp.Value, pos), right)

	if land {
		not := syntax.NewUnary(pos, syntax.Not, cond)
		d.oracle.SetType(not, t)
		if d.oracle.IsCompileTimeConstant(cond) {
			d.oracle.SetCompileTimeConstant(not)
		}
		cond = not
	}
	o.addStmt(syntax.NewIf(pos, cond, then, o.join(b, pos)))
	return tmp
}

// cond lowers c ? a : b to if (c) { a...; tmp = a; } else { b...; tmp = b; }.
// A constant whose type admits no variable, such as true ? 0 : 1, is
// replaced by its value.
func (d *Dismantler) cond(o *EvalOrder, x *syntax.CondExpr) syntax.Expr {
	pos := x.Pos()
	t := d.oracle.TypeOf(x)
	if v := d.oracle.ConstantValue(x); v != nil && !types.IsDeclarable(t) {
		o.folded = true
		return d.intLit(pos, v, t)
	}
	c := d.expr(o, x.Cond, false)
	tmp := o.CreateTemporary(t, pos)

	bt := o.branch()
	bt.AddAssignment(o.ref(tmp.Value, pos), d.expr(bt, x.X, false))
	then := o.join(bt, pos)

	be := o.branch()
	be.AddAssignment(o.ref(tmp.Value, pos), d.expr(be, x.Y, false))
	els := o.join(be, pos)

	o.addStmt(syntax.NewIf(pos, c, then, els))
	return tmp
}

// selectExpr dismantles the selector list only; the keysets are not
// evaluated as expressions.
func (d *Dismantler) selectExpr(o *EvalOrder, x *syntax.SelectExpr) syntax.Expr {
	var list []syntax.Expr
	for i, e := range x.Select {
		ne := d.expr(o, e, false)
		if ne != e && list == nil {
			list = append(make([]syntax.Expr, 0, len(x.Select)), x.Select[:i]...)
		}
		if list != nil {
			list = append(list, ne)
		}
	}
	if list == nil {
		return x
	}
	n := *x
	n.Select = list
	d.annotate(&n, x)
	return &n
}

// call dismantles a call. sink is set when the call is the operand of a
// table hit or action_run query; such a call is never hoisted.
func (d *Dismantler) call(o *EvalOrder, x *syntax.CallExpr, leftValue, resultUnused, sink bool) syntax.Expr {
	pos := x.Pos()
	if leftValue {
		failf(pos, "method on left hand side: %s", syntax.ExprString(x))
	}

	if !analysis.HasSideEffects(x, d.oracle) {
		return x
	}
	desc, err := analysis.DescribeCall(x, d.oracle)
	if err != nil {
		failf(pos, "%v", err)
	}

	useTemps := analysis.ArgsHaveSideEffects(desc, d.oracle)
	for _, p := range desc.Params {
		if p.IsWritten() {
			useTemps = true
		}
	}

	fun := d.expr(o, x.Fun, false)
	args := make([]syntax.Expr, len(desc.Params))
	var copyBack []syntax.Stmt
	for i, p := range desc.Params {
		if p.Dir() == syntax.DirNone {
			args[i] = p.Arg
			continue
		}
		lv := p.IsWritten()
		d.log.Debug("Transforming argument",
			zap.Stringer("arg", exprString{p.Arg}),
			zap.String("param", p.Var.Name()),
			zap.Stringer("dir", p.Dir()))
		arg := d.expr(o, p.Arg, lv)
		if !useTemps || d.oracle.IsCompileTimeConstant(arg) {
			args[i] = arg
			continue
		}

		tmp := o.CreateTemporary(p.Var.Type(), p.Arg.Pos())
		target := arg
		if p.Dir() == syntax.DirOut {
			args[i] = tmp
		} else {
			args[i] = o.AddAssignment(tmp, arg)
			target = d.clone(arg)
		}
		if lv {
			back := syntax.NewAssign(p.Arg.Pos(), target, o.ref(tmp.Value, p.Arg.Pos()))
			d.log.Debug("Will copy out value", zap.Stringer("stmt", stmtString{back}))
			copyBack = append(copyBack, back)
		}
	}

	res := x
	if fun != x.Fun || !sameExprs(args, x.Args) {
		n := *x
		n.Fun, n.Args = fun, args
		d.annotate(&n, x)
		res = &n
	}

	if sink {
		return res
	}

	var final syntax.Expr
	switch t := desc.Result(); {
	case !types.IsVoid(t) && !resultUnused:
		if !types.IsDeclarable(t) {
			failf(pos, "cannot hoist %s of type %s", syntax.ExprString(x), t)
		}
		tmp := o.CreateTemporary(t, pos)
		final = o.AddAssignment(tmp, res)
	case res == x && len(copyBack) == 0:
		// Unchanged statement call.
		return x
	default:
		o.addStmt(syntax.NewCallStmt(pos, res))
	}
	o.Stmts = append(o.Stmts, copyBack...)
	return final
}

// annotate copies the recorded type and mode of old to n.
func (d *Dismantler) annotate(n, old syntax.Expr) {
	d.oracle.SetType(n, d.oracle.TypeOf(old))
	switch {
	case d.oracle.IsLeftValue(old):
		d.oracle.SetLeftValue(n)
	case d.oracle.IsCompileTimeConstant(old):
		d.oracle.SetCompileTimeConstant(n)
	}
}

func (d *Dismantler) boolLit(pos syntax.Pos, v bool) *syntax.BasicLit {
	lit := syntax.NewBoolLit(pos, v)
	d.oracle.SetType(lit, types.Typ[types.Bool])
	d.oracle.SetCompileTimeConstant(lit)
	return lit
}

// intLit spells the integer constant v of type t.
func (d *Dismantler) intLit(pos syntax.Pos, v constant.Value, t types.Type) syntax.Expr {
	if constant.Sign(v) < 0 {
		lit := d.intLit(pos, constant.UnaryOp(token.SUB, v, 0), t)
		neg := syntax.NewUnary(pos, syntax.Sub, lit)
		d.oracle.SetType(neg, t)
		d.oracle.SetCompileTimeConstant(neg)
		return neg
	}
	lit := syntax.NewIntLit(pos, v.ExactString())
	d.oracle.SetType(lit, t)
	d.oracle.SetCompileTimeConstant(lit)
	return lit
}

// clone returns a copy of the left-value x with fresh nodes, so the
// same storage can be named twice in the output.
func (d *Dismantler) clone(x syntax.Expr) syntax.Expr {
	var n syntax.Expr
	switch x := x.(type) {
	case *syntax.Name:
		c := syntax.NewName(x.Pos(), x.Value)
		if obj := d.oracle.ObjectOf(x); obj != nil {
			d.oracle.Use(c, obj)
		}
		n = c
	case *syntax.BasicLit:
		c := *x
		n = &c
	case *syntax.SelectorExpr:
		c := *x
		c.X = d.clone(x.X)
		c.Sel = syntax.NewName(x.Sel.Pos(), x.Sel.Value)
		if obj := d.oracle.ObjectOf(x.Sel); obj != nil {
			d.oracle.Use(c.Sel, obj)
		}
		n = &c
	case *syntax.IndexExpr:
		c := *x
		c.X = d.clone(x.X)
		c.Index = d.clone(x.Index)
		n = &c
	case *syntax.Operation:
		c := *x
		c.X = d.clone(x.X)
		if x.Y != nil {
			c.Y = d.clone(x.Y)
		}
		n = &c
	default:
		failf(x.Pos(), "cannot copy %s", syntax.ExprString(x))
	}
	d.annotate(n, x)
	return n
}

func sameExprs(a, b []syntax.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// exprString and stmtString defer printing until a log entry is
// actually written.
type exprString struct{ x syntax.Expr }

func (s exprString) String() string {
	if s.x == nil {
		return "<nil>"
	}
	return syntax.ExprString(s.x)
}

type stmtString struct{ s syntax.Stmt }

func (s stmtString) String() string { return syntax.String(s.s) }
