package types

import (
	"go/constant"
	"testing"

	"github.com/you-not-fish/p4simpl/internal/syntax"
)

func TestBasicTypes(t *testing.T) {
	tests := []struct {
		kind BasicKind
		name string
		info BasicInfo
	}{
		{Void, "void", 0},
		{Bool, "bool", InfoBoolean},
		{UntypedInt, "int", InfoInteger | InfoUntyped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := Typ[tt.kind]
			if typ == nil {
				t.Fatalf("Typ[%d] is nil", tt.kind)
			}
			if typ.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", typ.Kind(), tt.kind)
			}
			if typ.Info() != tt.info {
				t.Errorf("Info() = %v, want %v", typ.Info(), tt.info)
			}
			if typ.String() != tt.name {
				t.Errorf("String() = %q, want %q", typ.String(), tt.name)
			}
			if typ.Underlying() != typ {
				t.Errorf("Underlying() != self")
			}
		})
	}
}

func TestBitsType(t *testing.T) {
	tests := []struct {
		width  int
		signed bool
		want   string
	}{
		{8, false, "bit<8>"},
		{48, false, "bit<48>"},
		{16, true, "int<16>"},
	}
	for _, tt := range tests {
		b := NewBits(tt.width, tt.signed)
		if b.String() != tt.want {
			t.Errorf("String() = %q, want %q", b.String(), tt.want)
		}
		if b.Width() != tt.width || b.Signed() != tt.signed {
			t.Errorf("%s: Width/Signed mismatch", tt.want)
		}
		if b.Underlying() != b {
			t.Errorf("Underlying() != self")
		}
	}
}

func TestStructAndHeader(t *testing.T) {
	fields := []*Var{
		NewField(syntax.Pos{}, "dst", NewBits(48, false)),
		NewField(syntax.Pos{}, "etherType", NewBits(16, false)),
	}
	h := NewHeader(fields)
	if !h.IsHeader() {
		t.Errorf("IsHeader() = false for header")
	}
	if h.NumFields() != 2 || h.Field(1).Name() != "etherType" {
		t.Errorf("unexpected fields %s", h)
	}
	if f := h.LookupField("dst"); f == nil || !f.IsField() {
		t.Errorf("LookupField(dst) = %v", f)
	}
	if h.LookupField("src") != nil {
		t.Errorf("LookupField(src) should be nil")
	}
	if got, want := h.String(), "header{bit<48> dst; bit<16> etherType}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	s := NewStruct(nil)
	s.SetFields([]*Var{NewField(syntax.Pos{}, "eth", h)})
	if s.IsHeader() {
		t.Errorf("IsHeader() = true for struct")
	}
}

func TestStackType(t *testing.T) {
	tn := NewTypeName(syntax.Pos{}, "h_t", nil)
	h := NewNamed(tn, NewHeader(nil))
	st := NewStack(4, h)
	if st.String() != "h_t[4]" {
		t.Errorf("String() = %q, want %q", st.String(), "h_t[4]")
	}
	if st.Size() != 4 || st.Elem() != h {
		t.Errorf("Size/Elem mismatch")
	}
}

func TestEnumType(t *testing.T) {
	tn := NewTypeName(syntax.Pos{}, "Color", nil)
	e := NewEnum()
	named := NewNamed(tn, e)
	e.AddMember(NewConst(syntax.Pos{}, "Red", named, constant.MakeInt64(0)))
	e.AddMember(NewConst(syntax.Pos{}, "Green", named, constant.MakeInt64(1)))

	if tn.Type() != named {
		t.Errorf("NewNamed did not bind the type name")
	}
	if named.Underlying() != e {
		t.Errorf("Underlying() != enum")
	}
	if m := e.LookupMember("Green"); m == nil || m.Type() != named {
		t.Errorf("LookupMember(Green) = %v", m)
	}
	if e.String() != "enum{Red, Green}" {
		t.Errorf("String() = %q", e.String())
	}
	if named.String() != "Color" {
		t.Errorf("Named String() = %q", named.String())
	}
}

func TestFuncType(t *testing.T) {
	params := []*Var{
		NewParam(syntax.Pos{}, "a", NewBits(8, false), syntax.DirIn),
		NewParam(syntax.Pos{}, "b", NewBits(8, false), syntax.DirInOut),
		NewParam(syntax.Pos{}, "c", NewBits(8, false), syntax.DirNone),
	}
	fn := NewFunc(params, nil)
	if !IsVoid(fn.Result()) {
		t.Errorf("nil result should mean void, got %s", fn.Result())
	}
	if fn.NumParams() != 3 || fn.Param(1).Dir() != syntax.DirInOut {
		t.Errorf("unexpected params in %s", fn)
	}
	want := "void(in bit<8> a, inout bit<8> b, bit<8> c)"
	if fn.String() != want {
		t.Errorf("String() = %q, want %q", fn.String(), want)
	}
}

func TestTableTypes(t *testing.T) {
	a := NewFuncObj(syntax.Pos{}, "set_port", Action)
	tbl := NewTable("fwd", []*FuncObj{a, UniverseNoAction()})
	obj := NewTableObj(syntax.Pos{}, "fwd", tbl)

	if obj.Table() != tbl {
		t.Errorf("Table() mismatch")
	}
	if !tbl.HasAction("set_port") || !tbl.HasAction("NoAction") || tbl.HasAction("drop") {
		t.Errorf("HasAction mismatch")
	}

	res := NewApplyResult(tbl)
	run := NewActionEnum(tbl)
	if res.String() != "apply_result(fwd)" || run.String() != "action_list(fwd)" {
		t.Errorf("String() = %q, %q", res, run)
	}
	if !Identical(res, NewApplyResult(tbl)) {
		t.Errorf("apply results of the same table should be identical")
	}
	if Identical(run, NewActionEnum(NewTable("other", nil))) {
		t.Errorf("action_run of different tables should differ")
	}
}

func TestVarKinds(t *testing.T) {
	tests := []struct {
		name     string
		v        *Var
		writable bool
	}{
		{"local", NewVar(syntax.Pos{}, "x", bit8), true},
		{"in", NewParam(syntax.Pos{}, "x", bit8, syntax.DirIn), false},
		{"out", NewParam(syntax.Pos{}, "x", bit8, syntax.DirOut), true},
		{"inout", NewParam(syntax.Pos{}, "x", bit8, syntax.DirInOut), true},
		{"directionless", NewParam(syntax.Pos{}, "x", bit8, syntax.DirNone), false},
		{"field", NewField(syntax.Pos{}, "x", bit8), false},
	}
	for _, tt := range tests {
		if got := tt.v.Writable(); got != tt.writable {
			t.Errorf("%s: Writable() = %v, want %v", tt.name, got, tt.writable)
		}
	}
}

func TestFuncObj(t *testing.T) {
	f := NewFuncObj(syntax.Pos{}, "hash", Extern)
	sig := NewFunc(nil, NewBits(16, false))
	f.SetSignature(sig)
	if f.Type() != sig || f.Signature() != sig {
		t.Errorf("SetSignature did not set the type")
	}
	if f.NoSideEffects() {
		t.Errorf("externs have side effects by default")
	}
	f.SetNoSideEffects(true)
	if !f.NoSideEffects() {
		t.Errorf("SetNoSideEffects(true) had no effect")
	}
	if f.Kind().String() != "extern" {
		t.Errorf("Kind() = %s", f.Kind())
	}
}
