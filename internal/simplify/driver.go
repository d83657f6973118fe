package simplify

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/you-not-fish/p4simpl/internal/syntax"
)

// driver holds the state for rewriting the statements of one program.
type driver struct {
	d   *Dismantler
	log *zap.Logger

	temps []*syntax.VarDecl // temporaries of the current container
}

// Program rewrites every statement of prog so that its expressions are
// free of nested side effects. It returns a new program; prog itself is
// not modified. Temporaries of functions and actions are declared at the
// start of their body; those of controls and parsers are appended to the
// container's local declarations.
func Program(prog *syntax.Program, oracle Oracle, opts Options, log *zap.Logger) (*syntax.Program, error) {
	dr := &driver{d: NewDismantler(oracle, opts, log)}
	dr.log = dr.d.log

	out := *prog
	out.Decls = make([]syntax.Decl, len(prog.Decls))
	for i, decl := range prog.Decls {
		nd, err := dr.topDecl(decl)
		if err != nil {
			return nil, err
		}
		out.Decls[i] = nd
	}
	return &out, nil
}

// topDecl rewrites one top-level declaration.
func (dr *driver) topDecl(decl syntax.Decl) (nd syntax.Decl, err error) {
	var name string
	defer func() {
		if err != nil {
			err = errors.Wrapf(err, "simplify %s", name)
		}
	}()
	defer catch(&err)

	switch decl := decl.(type) {
	case *syntax.FuncDecl:
		name = decl.Name.Value
		n := *decl
		n.Body = dr.body(decl.Body)
		return &n, nil

	case *syntax.ActionDecl:
		name = decl.Name.Value
		return dr.action(decl), nil

	case *syntax.ControlDecl:
		name = decl.Name.Value
		return dr.control(decl), nil

	case *syntax.ParserDecl:
		name = decl.Name.Value
		return dr.parser(decl), nil
	}
	return decl, nil
}

// body rewrites a function or action body and declares its temporaries
// at the start of the result.
func (dr *driver) body(b *syntax.BlockStmt) *syntax.BlockStmt {
	saved := dr.temps
	dr.temps = nil
	defer func() { dr.temps = saved }()

	nb := dr.block(b)
	if len(dr.temps) == 0 {
		return nb
	}
	stmts := make([]syntax.Stmt, 0, len(dr.temps)+len(nb.Stmts))
	for _, t := range dr.temps {
		stmts = append(stmts, syntax.NewDeclStmt(t))
	}
	n := *nb
	n.Stmts = append(stmts, nb.Stmts...)
	return &n
}

func (dr *driver) action(a *syntax.ActionDecl) *syntax.ActionDecl {
	dr.log.Debug("simplify action", zap.String("name", a.Name.Value))
	n := *a
	n.Body = dr.body(a.Body)
	return &n
}

func (dr *driver) control(c *syntax.ControlDecl) *syntax.ControlDecl {
	dr.log.Debug("simplify control", zap.String("name", c.Name.Value))
	dr.temps = nil

	n := *c
	n.Locals = make([]syntax.Decl, len(c.Locals))
	for i, l := range c.Locals {
		if a, ok := l.(*syntax.ActionDecl); ok {
			n.Locals[i] = dr.action(a)
			continue
		}
		n.Locals[i] = l
	}
	n.Body = dr.block(c.Body)
	n.Locals = appendTemps(n.Locals, dr.temps)
	dr.temps = nil
	return &n
}

func (dr *driver) parser(p *syntax.ParserDecl) *syntax.ParserDecl {
	dr.log.Debug("simplify parser", zap.String("name", p.Name.Value))
	dr.temps = nil

	n := *p
	n.States = make([]*syntax.StateDecl, len(p.States))
	for i, s := range p.States {
		n.States[i] = dr.state(s)
	}
	n.Locals = appendTemps(append([]syntax.Decl(nil), p.Locals...), dr.temps)
	dr.temps = nil
	return &n
}

// state rewrites the statements of a parser state and its select
// expression. The select is replaced in place; the statements computing
// its operands are appended to the state body.
func (dr *driver) state(s *syntax.StateDecl) *syntax.StateDecl {
	stmts, changed := dr.stmts(s.Stmts)
	var sel *syntax.SelectExpr
	if s.Select != nil {
		o := dr.dismantle(s.Select, false, false)
		if !o.Simple() {
			stmts = append(append([]syntax.Stmt(nil), stmts...), o.Stmts...)
			sel = o.Final.(*syntax.SelectExpr)
			changed = true
		}
	}
	if !changed {
		return s
	}
	n := *s
	n.Stmts = stmts
	if sel != nil {
		n.Select = sel
	}
	return &n
}

// dismantle runs the dismantler and takes over the temporaries it
// produced.
func (dr *driver) dismantle(x syntax.Expr, leftValue, resultUnused bool) *EvalOrder {
	o := dr.d.dismantle(x, leftValue, resultUnused)
	dr.temps = append(dr.temps, o.Temps...)
	return o
}

// stmts rewrites list. changed reports whether any statement differs
// from the input.
func (dr *driver) stmts(list []syntax.Stmt) (out []syntax.Stmt, changed bool) {
	out = make([]syntax.Stmt, 0, len(list))
	for _, s := range list {
		ns := dr.stmt(s)
		if len(ns) != 1 || ns[0] != s {
			changed = true
		}
		out = append(out, ns...)
	}
	if !changed {
		return list, false
	}
	return out, true
}

func (dr *driver) block(b *syntax.BlockStmt) *syntax.BlockStmt {
	stmts, changed := dr.stmts(b.Stmts)
	if !changed {
		return b
	}
	n := *b
	n.Stmts = stmts
	return &n
}

// stmt rewrites s. Only a declaration with an initializer expands into
// more than one statement.
func (dr *driver) stmt(s syntax.Stmt) []syntax.Stmt {
	switch s := s.(type) {
	case *syntax.BlockStmt:
		return one(dr.block(s))

	case *syntax.AssignStmt:
		return one(dr.assign(s))

	case *syntax.CallStmt:
		o := dr.dismantle(s.Call, false, true)
		if o.Simple() {
			return one(s)
		}
		return one(syntax.NewBlock(s.Pos(), o.Stmts))

	case *syntax.IfStmt:
		return one(dr.ifStmt(s))

	case *syntax.SwitchStmt:
		return one(dr.switchStmt(s))

	case *syntax.ReturnStmt:
		if s.Result == nil {
			return one(s)
		}
		o := dr.dismantle(s.Result, false, false)
		if o.Simple() {
			return one(s)
		}
		return one(wrap(s.Pos(), o.Stmts, syntax.NewReturn(s.Pos(), o.Final)))

	case *syntax.DeclStmt:
		return dr.declStmt(s)

	case *syntax.EmptyStmt, *syntax.ExitStmt:
		return one(s)
	}
	failf(s.Pos(), "unexpected statement %T", s)
	return nil
}

func (dr *driver) assign(s *syntax.AssignStmt) syntax.Stmt {
	l := dr.dismantle(s.LHS, true, false)
	r := dr.dismantle(s.RHS, false, false)
	if l.Simple() && r.Simple() {
		return s
	}
	stmts := append(append([]syntax.Stmt(nil), l.Stmts...), r.Stmts...)
	return wrap(s.Pos(), stmts, syntax.NewAssign(s.Pos(), l.Final, r.Final))
}

// ifStmt dismantles the condition before the branches, so condition
// temporaries are declared first.
func (dr *driver) ifStmt(s *syntax.IfStmt) syntax.Stmt {
	o := dr.dismantle(s.Cond, false, false)
	then := dr.branch(s.Then)
	var els syntax.Stmt
	if s.Else != nil {
		els = dr.branch(s.Else)
	}
	if o.Simple() && then == s.Then && els == s.Else {
		return s
	}
	n := *s
	n.Cond, n.Then, n.Else = o.Final, then, els
	if o.Simple() {
		return &n
	}
	return wrap(s.Pos(), o.Stmts, &n)
}

// branch rewrites the body of an if or else clause.
func (dr *driver) branch(s syntax.Stmt) syntax.Stmt {
	ns := dr.stmt(s)
	if len(ns) == 1 {
		return ns[0]
	}
	return syntax.NewBlock(s.Pos(), ns)
}

func (dr *driver) switchStmt(s *syntax.SwitchStmt) syntax.Stmt {
	o := dr.dismantle(s.Tag, false, false)
	changed := !o.Simple()
	cases := make([]*syntax.SwitchCase, len(s.Cases))
	for i, c := range s.Cases {
		body := dr.block(c.Body)
		if body == c.Body {
			cases[i] = c
			continue
		}
		nc := *c
		nc.Body = body
		cases[i] = &nc
		changed = true
	}
	if !changed {
		return s
	}
	n := *s
	n.Tag, n.Cases = o.Final, cases
	if o.Simple() {
		return &n
	}
	return wrap(s.Pos(), o.Stmts, &n)
}

// declStmt splits T x = e; into T x; followed by the statements
// computing e and x = e'.
func (dr *driver) declStmt(s *syntax.DeclStmt) []syntax.Stmt {
	vd, ok := s.Decl.(*syntax.VarDecl)
	if !ok || vd.Value == nil {
		return one(s)
	}
	o := dr.dismantle(vd.Value, false, false)
	if o.Simple() {
		return one(s)
	}
	decl := *vd
	decl.Value = nil

	lhs := syntax.NewName(vd.Name.Pos(), vd.Name.Value)
	if obj := dr.d.oracle.ObjectOf(vd.Name); obj != nil {
		dr.d.oracle.Use(lhs, obj)
		dr.d.oracle.SetType(lhs, obj.Type())
	}
	dr.d.oracle.SetLeftValue(lhs)
	return []syntax.Stmt{
		syntax.NewDeclStmt(&decl),
		wrap(s.Pos(), o.Stmts, syntax.NewAssign(s.Pos(), lhs, o.Final)),
	}
}

// wrap returns a block holding stmts followed by last, or last alone if
// there are no stmts.
func wrap(pos syntax.Pos, stmts []syntax.Stmt, last syntax.Stmt) syntax.Stmt {
	if len(stmts) == 0 {
		return last
	}
	list := make([]syntax.Stmt, 0, len(stmts)+1)
	list = append(list, stmts...)
	return syntax.NewBlock(pos, append(list, last))
}

func one(s syntax.Stmt) []syntax.Stmt { return []syntax.Stmt{s} }

func appendTemps(locals []syntax.Decl, temps []*syntax.VarDecl) []syntax.Decl {
	for _, t := range temps {
		locals = append(locals, t)
	}
	return locals
}
