package types2

import (
	"testing"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

func TestNamesNew(t *testing.T) {
	n := NewNames()
	n.Use("tmp")
	n.Use("tmp_1")

	want := []string{"tmp_0", "tmp_2", "tmp_3"}
	for _, w := range want {
		if got := n.New("tmp"); got != w {
			t.Errorf("New(tmp) = %s, want %s", got, w)
		}
	}

	if got := n.New("fresh"); got != "fresh" {
		t.Errorf("New(fresh) = %s, want fresh", got)
	}
	if got := n.New("fresh"); got != "fresh_0" {
		t.Errorf("second New(fresh) = %s, want fresh_0", got)
	}
}

func TestNamesStripSuffix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tmp_12", "tmp"},
		{"tmp_", "tmp_"},
		{"tmp_x1", "tmp_x1"},
		{"_7", "_7"},
		{"a_b_3", "a_b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := stripNumericSuffix(tt.in); got != tt.want {
			t.Errorf("stripNumericSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	n := NewNames()
	if got := n.New("tmp_5"); got != "tmp" {
		t.Errorf("New(tmp_5) = %s, want tmp", got)
	}
}

func TestNamesReserveUniverse(t *testing.T) {
	n := NewNames()
	for _, name := range []string{"accept", "reject", "NoAction", "bool"} {
		if got := n.New(name); got == name {
			t.Errorf("New(%s) returned a predeclared name", name)
		}
	}
}

func TestNewNameIndependentOfEarlierChecks(t *testing.T) {
	const empty = `
void fn() {}
`
	_, info := expectNoErrors(t, empty)
	if got := info.NewName("tmp"); got != "tmp" {
		t.Fatalf("NewName(tmp) = %s, want tmp", got)
	}

	expectNoErrors(t, `
void g() {
    bit<8> tmp;
    bit<8> tmp_0;
}
`)
	_, info = expectNoErrors(t, empty)
	if got := info.NewName("tmp"); got != "tmp" {
		t.Errorf("NewName(tmp) after an unrelated check = %s, want tmp", got)
	}
	if n := len(types.Universe.Children()); n != 0 {
		t.Errorf("Universe has %d child scopes, want 0", n)
	}
}

func TestInfoNewNameAvoidsDeclarations(t *testing.T) {
	_, info := expectNoErrors(t, `
void tmp() {
    bit<8> tmp_0;
}
`)
	if got := info.NewName("tmp"); got != "tmp_1" {
		t.Errorf("NewName(tmp) = %s, want tmp_1", got)
	}
	if got := info.NewName("tmp"); got != "tmp_2" {
		t.Errorf("NewName(tmp) = %s, want tmp_2", got)
	}
}

func TestOracleUpdates(t *testing.T) {
	info := NewInfo()
	pos := syntax.NewPos("test.p4", 1, 1)
	bit8 := types.NewBits(8, false)

	name := syntax.NewName(pos, "tmp")
	if info.Annotated(name) {
		t.Fatal("fresh name is annotated")
	}

	v := types.NewVar(pos, "tmp", bit8)
	info.Define(name, v)
	if info.ObjectOf(name) != v {
		t.Errorf("ObjectOf(tmp) = %v, want %v", info.ObjectOf(name), v)
	}
	if !types.Identical(info.TypeOf(name), bit8) {
		t.Errorf("TypeOf(tmp) = %v, want bit<8> through its object", info.TypeOf(name))
	}

	use := syntax.NewName(pos, "tmp")
	info.SetType(use, bit8)
	if !info.Annotated(use) || info.IsLeftValue(use) {
		t.Errorf("SetType: annotated=%v leftValue=%v, want true false", info.Annotated(use), info.IsLeftValue(use))
	}
	if !info.Types[use].IsValue() {
		t.Errorf("mode after SetType = %s, want value", info.Types[use].Mode())
	}
	info.SetLeftValue(use)
	if !info.IsLeftValue(use) {
		t.Error("SetLeftValue had no effect")
	}

	lit := syntax.NewBoolLit(pos, true)
	info.SetType(lit, types.Typ[types.Bool])
	info.SetCompileTimeConstant(lit)
	if !info.IsCompileTimeConstant(lit) {
		t.Error("SetCompileTimeConstant had no effect")
	}

	call := syntax.NewCall(pos, syntax.NewName(pos, "f"), nil)
	info.SetType(call, types.Typ[types.Void])
	if !info.Types[call].IsVoid() {
		t.Errorf("mode of void call = %s, want no value", info.Types[call].Mode())
	}
}

func TestTypeExpr(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude)
	h := info.ObjectOf(prog.Decls[0].(*syntax.HeaderDecl).Name).(*types.TypeName)
	pos := syntax.NewPos("test.p4", 9, 1)

	tests := []struct {
		typ  types.Type
		want string
	}{
		{types.Typ[types.Bool], "bool"},
		{types.NewBits(8, false), "bit<8>"},
		{types.NewBits(4, true), "int<4>"},
		{h.Type(), "h_t"},
		{types.NewStack(2, h.Type()), "h_t[2]"},
	}
	for _, tt := range tests {
		e := info.TypeExpr(tt.typ, pos)
		if e == nil {
			t.Errorf("TypeExpr(%s) = nil", tt.typ)
			continue
		}
		if got := syntax.TypeString(e); got != tt.want {
			t.Errorf("TypeExpr(%s) = %s, want %s", tt.typ, got, tt.want)
		}
		if !info.Types[e].IsType() || !types.Identical(info.TypeOf(e), tt.typ) {
			t.Errorf("TypeExpr(%s) not recorded as a type expression", tt.typ)
		}
	}

	if e := info.TypeExpr(types.Typ[types.Void], pos); e != nil {
		t.Errorf("TypeExpr(void) = %s, want nil", syntax.TypeString(e))
	}
}
