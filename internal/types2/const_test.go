package types2

import (
	"testing"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// constValue checks src, which must declare a constant named C as its
// last declaration, and returns the folded value of C.
func constValue(t *testing.T, src string) (string, types.Type) {
	t.Helper()
	prog, info := expectNoErrors(t, src)
	d, ok := prog.Decls[len(prog.Decls)-1].(*syntax.ConstDecl)
	if !ok {
		t.Fatalf("last declaration is %T, want const", prog.Decls[len(prog.Decls)-1])
	}
	c := info.ObjectOf(d.Name).(*types.Const)
	if c.Val() == nil {
		t.Fatalf("constant %s has no value", c.Name())
	}
	return c.Val().String(), c.Type()
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"const bit<8> C = 10 + 5;", "15"},
		{"const bit<8> C = 20 - 3;", "17"},
		{"const bit<8> C = 6 * 7;", "42"},
		{"const bit<8> C = 100 / 7;", "14"},
		{"const bit<8> C = 17 % 5;", "2"},
		{"const bit<8> C = 0x0F & 0x3C;", "12"},
		{"const bit<8> C = 0x0F | 0x30;", "63"},
		{"const bit<8> C = 0x0F ^ 0xFF;", "240"},
		{"const bit<8> C = 1 << 4;", "16"},
		{"const bit<8> C = 8w200 + 8w100;", "44"},
		{"const bit<8> C = 8w0 - 8w1;", "255"},
		{"const bit<8> C = ~8w1;", "254"},
		{"const int<8> C = 8s127 + 8s1;", "-128"},
		{"const int<8> C = -8s5;", "-5"},
		{"const bit<16> C = 16w0x800;", "2048"},
		{"const bit<8> C = 8w1 << 8;", "0"},
		{"const bit<8> C = true ? 8w3 : 8w4;", "3"},
		{"const bit<8> C = 007;", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, _ := constValue(t, tt.src)
			if got != tt.want {
				t.Errorf("%s: got %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestConstantBoolFolding(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"const bool C = 1 == 1;", "true"},
		{"const bool C = 2 > 3;", "false"},
		{"const bool C = 8w5 <= 8w5;", "true"},
		{"const bool C = true && false;", "false"},
		{"const bool C = true || false;", "true"},
		{"const bool C = !false;", "true"},
		{"enum E { A, B } const bool C = E.A != E.B;", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, typ := constValue(t, tt.src)
			if got != tt.want {
				t.Errorf("%s: got %s, want %s", tt.src, got, tt.want)
			}
			if !types.IsBoolean(typ) {
				t.Errorf("%s: type %s, want bool", tt.src, typ)
			}
		})
	}
}

func TestConstantReferences(t *testing.T) {
	got, typ := constValue(t, `
const bit<16> A = 16w0x800;
const bit<16> C = A + 1;
`)
	if got != "2049" {
		t.Errorf("got %s, want 2049", got)
	}
	if b, ok := typ.(*types.Bits); !ok || b.Width() != 16 {
		t.Errorf("type = %v, want bit<16>", typ)
	}
}

func TestConstantErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"void f(inout bit<8> x) { const bit<8> C = x; }", "x is not a compile-time constant"},
		{"const bit<8> C = 1 / 0;", "division by zero"},
		{"const bit<8> C = 8w1 + 16w1;", "mismatched types"},
		{"const bit<8> C = 4w16;", "does not fit in bit<4>"},
		{"const bool C = 1;", "cannot use 1 as bool"},
		{"const bit<8> C = 8w1 << -1;", "negative shift amount"},
		{"const bit<8> C = 8w1 << 8s1;", "must be unsigned"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expectErrors(t, tt.src, tt.want)
		})
	}
}

func TestCompileTimeConstantMode(t *testing.T) {
	prog, info := expectNoErrors(t, `
const bit<8> K = 3;
void f(inout bit<8> x) {
    x = x + K;
}
`)
	k := findExpr(prog, info, "K")
	if k == nil {
		t.Fatal("K not found")
	}
	if !info.IsCompileTimeConstant(k) {
		t.Errorf("K is not a compile-time constant")
	}
	sum := findExpr(prog, info, "x + K")
	if info.IsCompileTimeConstant(sum) {
		t.Errorf("x + K is a compile-time constant")
	}
}

// condExprs returns the conditional expressions of prog in source order.
func condExprs(prog *syntax.Program) []*syntax.CondExpr {
	var list []*syntax.CondExpr
	syntax.Inspect(prog, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.CondExpr); ok {
			list = append(list, c)
		}
		return n != nil
	})
	return list
}

func TestConstantConditional(t *testing.T) {
	prog, info := expectNoErrors(t, typesPrelude+`
void fn(inout hs_t hs, in bit<8> x, out bool b) {
    hs.stack[false ? 0 : 2].a = x;
    b = (true ? 0 : 1) == 1;
}
`)
	conds := condExprs(prog)
	if len(conds) != 2 {
		t.Fatalf("found %d conditionals, want 2", len(conds))
	}

	// An index gives the conditional and both arms a width.
	idx := conds[0]
	if typ := info.TypeOf(idx); typ.String() != "bit<32>" {
		t.Errorf("index conditional has type %s, want bit<32>", typ)
	}
	if typ := info.TypeOf(idx.X); typ.String() != "bit<32>" {
		t.Errorf("index conditional arm has type %s, want bit<32>", typ)
	}
	if v := info.ConstantValue(idx); v == nil || v.String() != "2" {
		t.Errorf("ConstantValue = %v, want 2", v)
	}

	// Compared with an unsized literal it stays unsized.
	cmp := conds[1]
	if !types.IsUntyped(info.TypeOf(cmp)) {
		t.Errorf("compared conditional has type %s, want int", info.TypeOf(cmp))
	}
	if v := info.ConstantValue(cmp); v == nil || v.String() != "0" {
		t.Errorf("ConstantValue = %v, want 0", v)
	}
	if v := info.ConstantValue(findExpr(prog, info, "x")); v != nil {
		t.Errorf("ConstantValue(x) = %v, want nil", v)
	}

	expectErrors(t, typesPrelude+`
void fn(inout hs_t hs, in bit<8> x) {
    hs.stack[x == 1 ? 0 : 2].a = x;
}
`, "cannot infer the width")
}
