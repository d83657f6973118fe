package types

import (
	"testing"

	"github.com/you-not-fish/p4simpl/internal/syntax"
)

var bit8 = NewBits(8, false)

func testScope(parent *Scope, comment string) *Scope {
	return NewScope(parent, nil, comment)
}

func TestScopeInsertAndLookup(t *testing.T) {
	scope := testScope(nil, "test")

	obj := NewVar(syntax.Pos{}, "x", bit8)
	existing := scope.Insert(obj)

	if existing != nil {
		t.Errorf("Insert() returned non-nil for first insert")
	}

	found := scope.Lookup("x")
	if found != obj {
		t.Errorf("Lookup() did not return inserted object")
	}

	// Insert duplicate
	obj2 := NewVar(syntax.Pos{}, "x", Typ[Bool])
	existing = scope.Insert(obj2)
	if existing != obj {
		t.Errorf("Insert() should return first object for duplicate")
	}
}

func TestScopeLookupParent(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	obj := NewVar(syntax.Pos{}, "x", bit8)
	parent.Insert(obj)

	found, foundScope := child.LookupParent("x")
	if found != obj {
		t.Errorf("LookupParent() did not find parent's object")
	}
	if foundScope != parent {
		t.Errorf("LookupParent() returned wrong scope")
	}

	if child.Lookup("x") != nil {
		t.Errorf("Lookup() should not find parent's object")
	}
}

func TestScopeShadowing(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	parentObj := NewVar(syntax.Pos{}, "x", bit8)
	parent.Insert(parentObj)

	childObj := NewVar(syntax.Pos{}, "x", Typ[Bool])
	child.Insert(childObj)

	found, foundScope := child.LookupParent("x")
	if found != childObj {
		t.Errorf("LookupParent() should find child's shadowing object")
	}
	if foundScope != child {
		t.Errorf("LookupParent() should return child scope")
	}
}

func TestScopeHierarchy(t *testing.T) {
	// Universe -> Program -> Control -> Action -> Block
	universe := testScope(nil, "universe")
	prog := testScope(universe, "program")
	ctl := testScope(prog, "control")
	act := testScope(ctl, "action")
	block := testScope(act, "block")

	universe.Insert(NewTypeName(syntax.Pos{}, "bool", Typ[Bool]))
	prog.Insert(NewConst(syntax.Pos{}, "K", bit8, nil))
	ctl.Insert(NewParam(syntax.Pos{}, "hdr", bit8, syntax.DirInOut))
	act.Insert(NewParam(syntax.Pos{}, "port", bit8, syntax.DirNone))
	block.Insert(NewVar(syntax.Pos{}, "local", bit8))

	for _, name := range []string{"bool", "K", "hdr", "port", "local"} {
		found, _ := block.LookupParent(name)
		if found == nil {
			t.Errorf("LookupParent(%q) failed from block", name)
		}
	}
}

func TestScopeNames(t *testing.T) {
	scope := testScope(nil, "test")

	scope.Insert(NewVar(syntax.Pos{}, "c", bit8))
	scope.Insert(NewVar(syntax.Pos{}, "a", bit8))
	scope.Insert(NewVar(syntax.Pos{}, "b", Typ[Bool]))

	names := scope.Names()
	expected := []string{"a", "b", "c"}
	if len(names) != len(expected) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(expected))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestScopeEach(t *testing.T) {
	root := testScope(nil, "root")
	child := testScope(root, "child")
	root.Insert(NewVar(syntax.Pos{}, "b", bit8))
	root.Insert(NewVar(syntax.Pos{}, "a", bit8))
	child.Insert(NewVar(syntax.Pos{}, "tmp", bit8))

	var got []string
	root.Each(func(obj Object) {
		got = append(got, obj.Name())
	})
	want := []string{"a", "b", "tmp"}
	if len(got) != len(want) {
		t.Fatalf("Each visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Each visited %v, want %v", got, want)
			break
		}
	}
}

func TestObjectParentScope(t *testing.T) {
	scope := testScope(nil, "test")
	obj := NewVar(syntax.Pos{}, "x", bit8)

	if obj.Parent() != nil {
		t.Errorf("Parent() should be nil before insertion")
	}

	scope.Insert(obj)

	if obj.Parent() != scope {
		t.Errorf("Parent() should be set after insertion")
	}
}

func TestScopeChildren(t *testing.T) {
	parent := testScope(nil, "parent")
	child1 := testScope(parent, "child1")
	child2 := testScope(parent, "child2")

	children := parent.Children()
	if len(children) != 2 || children[0] != child1 || children[1] != child2 {
		t.Errorf("Children() out of creation order")
	}
	if child1.Parent() != parent {
		t.Errorf("Parent() != expected parent")
	}
	if parent.Comment() != "parent" {
		t.Errorf("Comment() = %q, want %q", parent.Comment(), "parent")
	}
}

func TestProgramScopeNotUniverseChild(t *testing.T) {
	prog := NewScope(Universe, nil, "program")
	prog.Insert(NewVar(syntax.Pos{}, "tmp", bit8))

	if prog.Parent() != Universe {
		t.Errorf("Parent() != Universe")
	}
	if obj, _ := prog.LookupParent("accept"); obj == nil {
		t.Errorf("LookupParent(accept) failed from program scope")
	}
	for _, c := range Universe.Children() {
		if c == prog {
			t.Fatalf("program scope recorded as a Universe child")
		}
	}
	Universe.Each(func(obj Object) {
		if obj.Name() == "tmp" {
			t.Errorf("Universe.Each reached a program declaration")
		}
	})
}

func TestScopeNodeAndString(t *testing.T) {
	block := syntax.NewBlock(syntax.NewPos("s.p4", 3, 5), nil)
	ctl := testScope(nil, "control c")
	inner := NewScope(ctl, block, "block")
	ctl.Insert(NewParam(syntax.Pos{}, "x", bit8, syntax.DirInOut))
	inner.Insert(NewVar(syntax.Pos{}, "b", Typ[Bool]))

	if inner.Node() != block {
		t.Errorf("Node() = %v, want the block", inner.Node())
	}
	want := "control c {\n  x bit<8>\n  block {\n    b bool\n  }\n}\n"
	if got := ctl.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUniverse(t *testing.T) {
	if Universe == nil {
		t.Fatal("Universe is nil")
	}

	for _, name := range []string{"bool", "void"} {
		obj := Universe.Lookup(name)
		if _, ok := obj.(*TypeName); !ok {
			t.Errorf("Universe.Lookup(%q) = %v, want TypeName", name, obj)
		}
	}

	for _, name := range []string{"accept", "reject"} {
		if _, ok := Universe.Lookup(name).(*State); !ok {
			t.Errorf("Universe.Lookup(%q) is not a State", name)
		}
	}

	na, ok := Universe.Lookup("NoAction").(*FuncObj)
	if !ok {
		t.Fatal("NoAction is not predeclared")
	}
	if na.Kind() != Action || na.Signature().NumParams() != 0 {
		t.Errorf("NoAction = %s %s", na.Kind(), na.Signature())
	}

	// Builtin methods are not visible as names.
	if Universe.Lookup("isValid") != nil {
		t.Errorf("isValid should only be reachable through LookupMethod")
	}
}

func TestLookupMethod(t *testing.T) {
	hdr := NewNamed(NewTypeName(syntax.Pos{}, "h_t", nil), NewHeader(nil))
	st := NewNamed(NewTypeName(syntax.Pos{}, "s_t", nil), NewStruct(nil))
	tbl := NewTable("t", nil)

	b, sig := LookupMethod(hdr, "isValid")
	if b == nil || b.Kind() != BuiltinIsValid || !b.Pure() {
		t.Fatalf("LookupMethod(header, isValid) = %v", b)
	}
	if !IsBoolean(sig.Result()) {
		t.Errorf("isValid result = %s, want bool", sig.Result())
	}

	b, sig = LookupMethod(hdr, "setValid")
	if b == nil || b.Pure() || !IsVoid(sig.Result()) {
		t.Errorf("LookupMethod(header, setValid) = %v %v", b, sig)
	}

	if b, _ := LookupMethod(st, "isValid"); b != nil {
		t.Errorf("structs have no isValid")
	}

	b, sig = LookupMethod(tbl, "apply")
	if b == nil || b.Kind() != BuiltinApply {
		t.Fatalf("LookupMethod(table, apply) = %v", b)
	}
	res, ok := sig.Result().(*ApplyResult)
	if !ok || res.Table() != tbl {
		t.Errorf("apply result = %s", sig.Result())
	}

	if b, _ := LookupMethod(tbl, "hit"); b != nil {
		t.Errorf("hit is a field of the apply result, not a table method")
	}
}
