package types

import (
	"go/constant"

	"github.com/you-not-fish/p4simpl/internal/syntax"
)

// Object represents a declared entity: variable, constant, type, function,
// builtin, table or parser state.
type Object interface {
	Name() string    // object name
	Type() Type      // object type
	Pos() syntax.Pos // declaration position
	Parent() *Scope  // enclosing scope

	setParent(*Scope) // internal: set parent scope
	aObject()         // marker method to restrict implementations
}

// object is the base struct for all objects.
type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// VarKind distinguishes local variables, parameters and fields.
type VarKind int

const (
	LocalVar VarKind = iota
	ParamVar
	FieldVar
)

// Var represents a variable, a parameter or a struct/header field.
type Var struct {
	object
	kind VarKind
	dir  syntax.Direction // parameters only
}

// NewVar creates a new local variable object.
func NewVar(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}}
}

// NewParam creates a new parameter object with the given direction.
func NewParam(pos syntax.Pos, name string, typ Type, dir syntax.Direction) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: ParamVar, dir: dir}
}

// NewField creates a new struct field object.
func NewField(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: FieldVar}
}

// Kind returns the variable kind.
func (v *Var) Kind() VarKind {
	return v.kind
}

// IsField reports whether this variable is a struct field.
func (v *Var) IsField() bool {
	return v.kind == FieldVar
}

// IsParam reports whether this variable is a parameter.
func (v *Var) IsParam() bool {
	return v.kind == ParamVar
}

// Dir returns the parameter direction; DirNone for non-parameters.
func (v *Var) Dir() syntax.Direction {
	return v.dir
}

// Writable reports whether v may appear on the left of an assignment:
// locals, and out or inout parameters.
func (v *Var) Writable() bool {
	switch v.kind {
	case LocalVar:
		return true
	case ParamVar:
		return v.dir == syntax.DirOut || v.dir == syntax.DirInOut
	}
	return false
}

// SetType sets the variable's type.
// This is called during type checking once the type is resolved.
func (v *Var) SetType(typ Type) {
	v.typ = typ
}

// Const represents a declared constant or an enum member.
type Const struct {
	object
	val constant.Value
}

// NewConst creates a new constant object.
func NewConst(pos syntax.Pos, name string, typ Type, val constant.Value) *Const {
	return &Const{object: object{name: name, typ: typ, pos: pos}, val: val}
}

// Val returns the constant's value.
func (c *Const) Val() constant.Value {
	return c.val
}

// SetType sets the constant's type.
func (c *Const) SetType(typ Type) {
	c.typ = typ
}

// TypeName represents a declared type name.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// SetType sets the type associated with the type name.
// This is used during type checking once the declaration is resolved.
func (t *TypeName) SetType(typ Type) {
	t.typ = typ
}

// FuncKind distinguishes the callables declared in a program.
type FuncKind int

const (
	Function FuncKind = iota
	Extern
	Action
)

func (k FuncKind) String() string {
	switch k {
	case Function:
		return "function"
	case Extern:
		return "extern"
	case Action:
		return "action"
	}
	return "unknown"
}

// FuncObj represents a declared function, extern function or action.
type FuncObj struct {
	object
	kind          FuncKind
	sig           *Func // function signature (set after construction)
	noSideEffects bool
}

// NewFuncObj creates a new function object.
// The signature should be set later using SetSignature.
func NewFuncObj(pos syntax.Pos, name string, kind FuncKind) *FuncObj {
	return &FuncObj{object: object{name: name, pos: pos}, kind: kind}
}

// Kind returns the kind of callable.
func (f *FuncObj) Kind() FuncKind {
	return f.kind
}

// Signature returns the function signature.
func (f *FuncObj) Signature() *Func {
	return f.sig
}

// SetSignature sets the function signature.
// This is called during type checking once the signature is resolved.
func (f *FuncObj) SetSignature(sig *Func) {
	f.sig = sig
	f.typ = sig
}

// NoSideEffects reports whether calls to f are known not to modify
// any state (externs annotated @noSideEffects or @pure).
func (f *FuncObj) NoSideEffects() bool {
	return f.noSideEffects
}

// SetNoSideEffects marks f as free of side effects.
func (f *FuncObj) SetNoSideEffects(v bool) {
	f.noSideEffects = v
}

// BuiltinKind identifies a builtin method.
type BuiltinKind int

const (
	BuiltinIsValid BuiltinKind = iota
	BuiltinSetValid
	BuiltinSetInvalid
	BuiltinApply
)

// Builtin represents a built-in method of headers or tables.
type Builtin struct {
	object
	kind BuiltinKind
}

// NewBuiltin creates a new builtin method object.
func NewBuiltin(name string, kind BuiltinKind) *Builtin {
	return &Builtin{object: object{name: name}, kind: kind}
}

// Kind returns the builtin kind.
func (b *Builtin) Kind() BuiltinKind {
	return b.kind
}

// Pure reports whether calling the builtin leaves all state unchanged.
func (b *Builtin) Pure() bool {
	return b.kind == BuiltinIsValid
}

// TableObj represents a declared table.
type TableObj struct {
	object
}

// NewTableObj creates a new table object.
func NewTableObj(pos syntax.Pos, name string, typ *Table) *TableObj {
	return &TableObj{object: object{name: name, typ: typ, pos: pos}}
}

// Table returns the table type.
func (t *TableObj) Table() *Table {
	return t.typ.(*Table)
}

// State represents a parser state, including accept and reject.
type State struct {
	object
}

// NewState creates a new parser state object.
func NewState(pos syntax.Pos, name string) *State {
	return &State{object: object{name: name, typ: Typ[Void], pos: pos}}
}
