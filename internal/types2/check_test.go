package types2

import (
	"strings"
	"testing"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// parseAndCheck parses source code and runs the type checker.
// Returns the program, the collected info and any errors.
func parseAndCheck(src string) (*syntax.Program, *Info, []string) {
	r := strings.NewReader(src)
	var parseErrs []string
	parseErrh := func(pos syntax.Pos, msg string) {
		parseErrs = append(parseErrs, pos.String()+": "+msg)
	}

	prog, _ := syntax.Parse("test.p4", r, parseErrh)
	if len(parseErrs) > 0 {
		return nil, nil, parseErrs
	}

	var typeErrs []string
	conf := &Config{
		Error: func(pos syntax.Pos, msg string) {
			typeErrs = append(typeErrs, pos.String()+": "+msg)
		},
	}
	info, _ := Check(prog, conf)
	return prog, info, typeErrs
}

// expectNoErrors checks that the source code type-checks without errors.
func expectNoErrors(t *testing.T, src string) (*syntax.Program, *Info) {
	t.Helper()
	prog, info, errs := parseAndCheck(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", strings.Join(errs, "\n"))
	}
	return prog, info
}

// expectErrors checks that type-checking produces expected error substrings.
func expectErrors(t *testing.T, src string, expectedMsgs ...string) {
	t.Helper()
	_, _, errs := parseAndCheck(src)
	if len(errs) == 0 {
		t.Errorf("expected errors containing %v, got none", expectedMsgs)
		return
	}
	errText := strings.Join(errs, "\n")
	for _, msg := range expectedMsgs {
		if !strings.Contains(errText, msg) {
			t.Errorf("expected error containing %q, got:\n%s", msg, errText)
		}
	}
}

// findExpr returns the first value expression in prog whose source text
// is s.
func findExpr(prog *syntax.Program, info *Info, s string) syntax.Expr {
	var found syntax.Expr
	syntax.Inspect(prog, func(n syntax.Node) bool {
		if found != nil {
			return false
		}
		e, ok := n.(syntax.Expr)
		if ok && info.Types[e].IsValue() && syntax.ExprString(e) == s {
			found = e
			return false
		}
		return true
	})
	return found
}

const typesPrelude = `
header h_t {
    bit<8> a;
    bit<8> b;
}
struct hs_t {
    h_t h;
    h_t[4] stack;
}
enum Color {
    Red,
    Green
}
extern bit<8> f(inout bit<8> x);
@noSideEffects extern bit<8> g(in bit<8> x);
extern void set(out bit<8> x, in bit<8> v);
`

func TestHeadersAndStructs(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude)

	h := info.ObjectOf(prog.Decls[0].(*syntax.HeaderDecl).Name).(*types.TypeName)
	st, ok := h.Type().Underlying().(*types.Struct)
	if !ok || !st.IsHeader() {
		t.Fatalf("h_t underlying = %v, want header", h.Type().Underlying())
	}
	if st.NumFields() != 2 || st.LookupField("b") == nil {
		t.Errorf("h_t fields = %v, want a and b", st)
	}

	hs := info.ObjectOf(prog.Decls[1].(*syntax.StructDecl).Name).(*types.TypeName)
	f := hs.Type().Underlying().(*types.Struct).LookupField("stack")
	stack, ok := f.Type().(*types.Stack)
	if !ok || stack.Size() != 4 || !types.Identical(stack.Elem(), h.Type()) {
		t.Errorf("stack field type = %v, want h_t[4]", f.Type())
	}
}

func TestEnumMembers(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude)
	color := info.ObjectOf(prog.Decls[2].(*syntax.EnumDecl).Name).(*types.TypeName)
	enum := color.Type().Underlying().(*types.Enum)
	if len(enum.Members()) != 2 {
		t.Fatalf("got %d members, want 2", len(enum.Members()))
	}
	if green := enum.LookupMember("Green"); green == nil || green.Val().String() != "1" {
		t.Errorf("Green = %v, want constant 1", green)
	}
}

func TestExternAnnotations(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude)
	tests := []struct {
		decl int
		pure bool
	}{
		{3, false},
		{4, true},
		{5, false},
	}
	for _, tt := range tests {
		d := prog.Decls[tt.decl].(*syntax.ExternDecl)
		fn := info.ObjectOf(d.Name).(*types.FuncObj)
		if fn.NoSideEffects() != tt.pure {
			t.Errorf("%s: NoSideEffects = %v, want %v", fn.Name(), fn.NoSideEffects(), tt.pure)
		}
		if fn.Kind() != types.Extern {
			t.Errorf("%s: kind = %v, want extern", fn.Name(), fn.Kind())
		}
	}
}

func TestFunctions(t *testing.T) {
	expectNoErrors(t, typesPrelude+`
bit<8> add(in bit<8> a, in bit<8> b) {
    return a + b;
}
void update(inout hs_t hs) {
    bit<8> v = add(hs.h.a, 1);
    hs.h.b = f(v);
    set(hs.stack[0].a, g(v));
    if (hs.h.isValid() && v == 8w3) {
        hs.h.setInvalid();
    }
}
`)
}

func TestControlTablesAndSwitch(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude+`
control c(inout hs_t hs) {
    action a1(bit<8> v) {
        hs.h.a = v;
    }
    action a2() {
    }
    table t {
        key = {
            hs.h.a: exact;
        }
        actions = {
            a1;
            a2;
        }
        default_action = a2();
    }
    apply {
        if (t.apply().hit) {
            exit;
        }
        switch (t.apply().action_run) {
            a1: {
            }
            default: {
            }
        }
    }
}
`)

	hit := findExpr(prog, info, "t.apply().hit")
	if hit == nil {
		t.Fatal("t.apply().hit not found")
	}
	if typ := info.TypeOf(hit); !types.IsBoolean(typ) {
		t.Errorf("type of t.apply().hit = %v, want bool", typ)
	}
	apply := hit.(*syntax.SelectorExpr).X
	if _, ok := info.TypeOf(apply).(*types.ApplyResult); !ok {
		t.Errorf("type of t.apply() = %v, want apply_result", info.TypeOf(apply))
	}
	fun := apply.(*syntax.CallExpr).Fun
	if !info.Types[fun].IsBuiltin() {
		t.Errorf("t.apply mode = %s, want builtin", info.Types[fun].Mode())
	}

	run := findExpr(prog, info, "t.apply().action_run")
	if _, ok := info.TypeOf(run).(*types.ActionEnum); !ok {
		t.Errorf("type of action_run = %v, want action_list", info.TypeOf(run))
	}
}

func TestParserStates(t *testing.T) {
	expectNoErrors(t, typesPrelude+`
const bit<8> ONE = 1;
parser p(inout hs_t hs) {
    bit<8> sel;
    state start {
        sel = hs.h.a;
        transition select(sel, hs.h.b) {
            (ONE, 2): next;
            default: reject;
        }
    }
    state next {
        transition accept;
    }
}
`)
}

func TestLeftValues(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude+`
void fn(inout hs_t hs, in bit<8> x) {
    bit<8> y = x;
    y = hs.h.a + x;
}
`)
	tests := []struct {
		expr string
		lv   bool
	}{
		{"hs", true},
		{"hs.h", true},
		{"hs.h.a", true},
		{"x", false},
		{"y", true},
		{"hs.h.a + x", false},
	}
	for _, tt := range tests {
		e := findExpr(prog, info, tt.expr)
		if e == nil {
			t.Errorf("%s not found", tt.expr)
			continue
		}
		if got := info.IsLeftValue(e); got != tt.lv {
			t.Errorf("IsLeftValue(%s) = %v, want %v", tt.expr, got, tt.lv)
		}
	}
}

func TestUntypedLiteralsTakeContextType(t *testing.T) {
	prog, info := expectNoErrors(t, `
void fn(inout bit<16> x) {
    x = x + (2 + 3);
}
`)
	for _, s := range []string{"2", "3", "(2 + 3)", "2 + 3"} {
		e := findExpr(prog, info, s)
		if e == nil {
			continue
		}
		typ := info.TypeOf(e)
		if b, ok := typ.(*types.Bits); !ok || b.Width() != 16 {
			t.Errorf("type of %s = %v, want bit<16>", s, typ)
		}
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"undefined",
			`void fn() { x = 1; }`,
			"undefined: x",
		},
		{
			"redeclared",
			`void fn() { bit<8> x; bit<8> x; }`,
			"x redeclared in this scope",
		},
		{
			"mismatched widths",
			`void fn(inout bit<8> a, in bit<16> b) { a = a + b; }`,
			"mismatched types bit<8> and bit<16>",
		},
		{
			"non-boolean condition",
			`void fn(inout bit<8> a) { if (a) { a = 1; } }`,
			"non-boolean condition",
		},
		{
			"assign to in parameter",
			`void fn(in bit<8> a) { a = 1; }`,
			"cannot assign to a",
		},
		{
			"out argument not a left-value",
			typesPrelude + `void fn(inout bit<8> a) { set(a + 1, a); }`,
			"out argument a + 1 is not a left-value",
		},
		{
			"wrong argument count",
			typesPrelude + `void fn(inout bit<8> a) { a = g(a, a); }`,
			"wrong number of arguments in call to g",
		},
		{
			"void used as value",
			typesPrelude + `void fn(inout bit<8> a) { a = set(a, 1); }`,
			"used as value",
		},
		{
			"missing return value",
			`bit<8> fn() { return; }`,
			"missing return value",
		},
		{
			"exit in function",
			`void fn() { exit; }`,
			"exit is not allowed in a function",
		},
		{
			"isValid on struct",
			typesPrelude + `bool fn(in hs_t hs) { return hs.isValid(); }`,
			"hs.isValid undefined",
		},
		{
			"literal overflow",
			`void fn(inout bit<8> a) { a = 8w256; }`,
			"literal 8w256 does not fit in bit<8>",
		},
		{
			"division by zero",
			`void fn(inout bit<8> a) { a = a / 0; }`,
			"division by zero",
		},
		{
			"stack index out of bounds",
			typesPrelude + `void fn(inout hs_t hs) { hs.stack[4].a = 1; }`,
			"index 4 out of bounds",
		},
		{
			"unknown match kind",
			`control c(inout bit<8> a) { action x() {} table t { key = { a: range; } actions = { x; } } apply {} }`,
			"unknown match kind range",
		},
		{
			"default action not listed",
			`action y() {} control c(inout bit<8> a) { action x() {} table t { actions = { x; } default_action = y(); } apply {} }`,
			"default action y is not in the actions of table t",
		},
		{
			"bad switch label",
			`control c(inout bit<8> a) {
    action x() {}
    action z() {}
    table t { actions = { x; } }
    apply { switch (t.apply().action_run) { z: {} } }
}`,
			"z is not an action of table t",
		},
		{
			"keyset arity",
			`parser p(inout bit<8> a) { state start { transition select(a) { (1, 2): accept; } } }`,
			"keyset has 2 elements, select has 1",
		},
		{
			"missing start state",
			`parser p(inout bit<8> a) { state s { transition accept; } }`,
			"parser p has no start state",
		},
		{
			"directionless argument",
			`action act(bit<8> v) {} void fn(inout bit<8> a) { act(a); }`,
			"directionless argument a is not a compile-time constant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrors(t, tt.src, tt.want)
		})
	}
}

func TestCheckReturnsFirstError(t *testing.T) {
	prog, err := syntax.Parse("test.p4", strings.NewReader(`void fn() { x = y; }`), nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := Check(prog, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if info == nil {
		t.Fatal("Check returned nil Info")
	}
	te, ok := err.(*TypeError)
	if !ok || !strings.Contains(te.Msg, "undefined: x") {
		t.Errorf("first error = %v, want undefined: x", err)
	}
}
