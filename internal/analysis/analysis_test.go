package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
	"github.com/you-not-fish/p4simpl/internal/types2"
)

const prelude = `
header h_t {
    bit<8> a;
}
struct hs_t {
    h_t h;
    h_t[2] s;
}
extern bit<8> f(in bit<8> x);
extern void inc(inout bit<8> x);
@noSideEffects extern bit<8> p(in bit<8> x);
@pure extern void peek(out bit<8> x);
`

// check parses and checks src, failing the test on any error.
func check(t *testing.T, src string) (*syntax.Program, *types2.Info) {
	t.Helper()
	prog, err := syntax.Parse("test.p4", strings.NewReader(prelude+src), nil)
	require.NoError(t, err)
	info, err := types2.Check(prog, nil)
	require.NoError(t, err)
	return prog, info
}

// rhs returns the right-hand sides of the assignments in function fn.
func rhs(t *testing.T, prog *syntax.Program, fn string) []syntax.Expr {
	t.Helper()
	var list []syntax.Expr
	for _, d := range prog.Decls {
		fd, ok := d.(*syntax.FuncDecl)
		if !ok || fd.Name.Value != fn {
			continue
		}
		for _, s := range fd.Body.Stmts {
			if a, ok := s.(*syntax.AssignStmt); ok {
				list = append(list, a.RHS)
			}
		}
	}
	require.NotEmpty(t, list, "no assignments in %s", fn)
	return list
}

func TestHasSideEffects(t *testing.T) {
	prog, info := check(t, `
void fn(inout hs_t hs, inout bit<8> x, inout bool b) {
    x = 1;
    x = x + hs.h.a;
    b = hs.h.isValid();
    x = p(x);
    x = f(x);
    x = p(f(x));
    x = x + f(1);
    b = !(x == 2) && hs.s[0].isValid();
    x = hs.s[f(0) & 1].a;
    b = b ? true : hs.h.isValid();
}
`)
	want := []bool{false, false, false, false, true, true, true, false, true, false}
	exprs := rhs(t, prog, "fn")
	require.Len(t, exprs, len(want))
	for i, x := range exprs {
		assert.Equal(t, want[i], HasSideEffects(x, info), "HasSideEffects(%s)", syntax.ExprString(x))
	}
	assert.False(t, HasSideEffects(nil, info))
}

func TestDescribeCall(t *testing.T) {
	prog, info := check(t, `
void fn(inout bit<8> x) {
    x = f(x + 1);
    inc(x);
}
`)
	fd := prog.Decls[len(prog.Decls)-1].(*syntax.FuncDecl)

	call := fd.Body.Stmts[0].(*syntax.AssignStmt).RHS.(*syntax.CallExpr)
	d, err := DescribeCall(call, info)
	require.NoError(t, err)
	require.Len(t, d.Params, 1)
	assert.Equal(t, "x", d.Params[0].Var.Name())
	assert.Equal(t, syntax.DirIn, d.Params[0].Dir())
	assert.Same(t, call.Args[0], d.Params[0].Arg)
	assert.False(t, d.Params[0].IsWritten())
	assert.Equal(t, "bit<8>", d.Result().String())
	assert.False(t, d.Pure())

	incCall := fd.Body.Stmts[1].(*syntax.CallStmt).Call
	d, err = DescribeCall(incCall, info)
	require.NoError(t, err)
	assert.True(t, d.Params[0].IsWritten())
	assert.True(t, types.IsVoid(d.Result()))
}

func TestDescribeBuiltinCalls(t *testing.T) {
	prog, info := check(t, `
control c(inout hs_t hs) {
    action a() {}
    table t {
        actions = {
            a;
        }
    }
    apply {
        hs.h.setValid();
        t.apply();
    }
}
`)
	cd := prog.Decls[len(prog.Decls)-1].(*syntax.ControlDecl)

	set := cd.Body.Stmts[0].(*syntax.CallStmt).Call
	d, err := DescribeCall(set, info)
	require.NoError(t, err)
	assert.Empty(t, d.Params)
	assert.False(t, d.Pure())
	assert.True(t, types.IsVoid(d.Result()))

	apply := cd.Body.Stmts[1].(*syntax.CallStmt).Call
	d, err = DescribeCall(apply, info)
	require.NoError(t, err)
	b, ok := d.Callee.(*types.Builtin)
	require.True(t, ok, "callee %T", d.Callee)
	assert.Equal(t, types.BuiltinApply, b.Kind())
	assert.False(t, d.Pure())
	_, ok = d.Result().(*types.ApplyResult)
	assert.True(t, ok, "apply result type %s", d.Result())
}

func TestDescribeCallErrors(t *testing.T) {
	pos := syntax.NewPos("test.p4", 3, 7)
	info := types2.NewInfo()

	unresolved := syntax.NewCall(pos, syntax.NewName(pos, "g"), nil)
	_, err := DescribeCall(unresolved, info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.p4:3:7: unresolved call target g")

	fn := types.NewFuncObj(pos, "g", types.Function)
	fn.SetSignature(types.NewFunc([]*types.Var{types.NewParam(pos, "x", types.NewBits(8, false), syntax.DirIn)}, nil))
	name := syntax.NewName(pos, "g")
	info.Define(name, fn)
	arity := syntax.NewCall(pos, name, nil)
	_, err = DescribeCall(arity, info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 0 arguments, want 1")

	// Unresolvable calls are treated as side-effecting.
	assert.True(t, HasSideEffects(unresolved, info))
}

func TestPureExternWithOutParameter(t *testing.T) {
	prog, info := check(t, `
void fn(inout bit<8> x) {
    peek(x);
}
`)
	fd := prog.Decls[len(prog.Decls)-1].(*syntax.FuncDecl)
	call := fd.Body.Stmts[0].(*syntax.CallStmt).Call
	d, err := DescribeCall(call, info)
	require.NoError(t, err)
	assert.False(t, d.Pure(), "an extern writing an out parameter is not pure")
	assert.True(t, HasSideEffects(call, info))
}

func TestTableQueries(t *testing.T) {
	prog, info := check(t, `
control c(inout hs_t hs, inout bool b) {
    action a() {}
    table t {
        actions = {
            a;
        }
    }
    apply {
        b = t.apply().hit;
        b = t.apply().miss;
        switch (t.apply().action_run) {
            a: {}
        }
        b = hs.h.isValid();
    }
}
`)
	cd := prog.Decls[len(prog.Decls)-1].(*syntax.ControlDecl)
	stmts := cd.Body.Stmts

	hit := stmts[0].(*syntax.AssignStmt).RHS.(*syntax.SelectorExpr)
	miss := stmts[1].(*syntax.AssignStmt).RHS.(*syntax.SelectorExpr)
	run := stmts[2].(*syntax.SwitchStmt).Tag.(*syntax.SelectorExpr)

	assert.True(t, IsTableHit(hit, info))
	assert.True(t, IsTableHit(miss, info))
	assert.False(t, IsTableHit(run, info))
	assert.True(t, IsActionRun(run, info))
	assert.False(t, IsActionRun(hit, info))

	field := syntax.NewSelector(hit.Pos(), syntax.NewName(hit.Pos(), "hs"), "hit")
	assert.False(t, IsTableHit(field, info))
}
