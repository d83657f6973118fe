package types

import (
	"fmt"
	"strings"
)

// Bits represents a fixed-width integer type bit<W> or int<W>.
type Bits struct {
	typ
	width  int
	signed bool
}

// NewBits creates a new fixed-width integer type.
func NewBits(width int, signed bool) *Bits {
	return &Bits{width: width, signed: signed}
}

// Width returns the width in bits.
func (b *Bits) Width() int {
	return b.width
}

// Signed reports whether this is an int<W> type.
func (b *Bits) Signed() bool {
	return b.signed
}

// Underlying implements Type.
func (b *Bits) Underlying() Type {
	return b
}

// String implements Type.
func (b *Bits) String() string {
	if b.signed {
		return fmt.Sprintf("int<%d>", b.width)
	}
	return fmt.Sprintf("bit<%d>", b.width)
}

// Struct represents a struct or header type.
type Struct struct {
	typ
	header bool
	fields []*Var
}

// NewStruct creates a new struct type with the given fields.
func NewStruct(fields []*Var) *Struct {
	return &Struct{fields: fields}
}

// NewHeader creates a new header type with the given fields.
// Headers carry a validity bit manipulated by isValid/setValid/setInvalid.
func NewHeader(fields []*Var) *Struct {
	return &Struct{header: true, fields: fields}
}

// IsHeader reports whether s is a header type.
func (s *Struct) IsHeader() bool {
	return s.header
}

// NumFields returns the number of fields.
func (s *Struct) NumFields() int {
	return len(s.fields)
}

// Field returns the field at the given index.
func (s *Struct) Field(i int) *Var {
	return s.fields[i]
}

// Fields returns all fields.
func (s *Struct) Fields() []*Var {
	return s.fields
}

// SetFields sets the fields once they are resolved.
func (s *Struct) SetFields(fields []*Var) {
	s.fields = fields
}

// LookupField returns the field with the given name, or nil.
func (s *Struct) LookupField(name string) *Var {
	for _, f := range s.fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Underlying implements Type.
func (s *Struct) Underlying() Type {
	return s
}

// String implements Type.
func (s *Struct) String() string {
	var buf strings.Builder
	if s.header {
		buf.WriteString("header{")
	} else {
		buf.WriteString("struct{")
	}
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(f.Type().String())
		buf.WriteString(" ")
		buf.WriteString(f.Name())
	}
	buf.WriteString("}")
	return buf.String()
}

// Enum represents an enumeration type. Its members are Const objects
// of the enclosing Named type.
type Enum struct {
	typ
	members []*Const
}

// NewEnum creates a new enum type. Members are added with AddMember.
func NewEnum() *Enum {
	return &Enum{}
}

// AddMember appends a member.
func (e *Enum) AddMember(c *Const) {
	e.members = append(e.members, c)
}

// Members returns the members in declaration order.
func (e *Enum) Members() []*Const {
	return e.members
}

// LookupMember returns the member with the given name, or nil.
func (e *Enum) LookupMember(name string) *Const {
	for _, m := range e.members {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Underlying implements Type.
func (e *Enum) Underlying() Type {
	return e
}

// String implements Type.
func (e *Enum) String() string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Name()
	}
	return "enum{" + strings.Join(names, ", ") + "}"
}

// Stack represents a header stack Elem[Size].
type Stack struct {
	typ
	size int64
	elem Type
}

// NewStack creates a new header stack type.
func NewStack(size int64, elem Type) *Stack {
	return &Stack{size: size, elem: elem}
}

// Size returns the number of elements.
func (s *Stack) Size() int64 {
	return s.size
}

// Elem returns the element type.
func (s *Stack) Elem() Type {
	return s.elem
}

// Underlying implements Type.
func (s *Stack) Underlying() Type {
	return s
}

// String implements Type.
func (s *Stack) String() string {
	return fmt.Sprintf("%s[%d]", s.elem, s.size)
}

// Func represents the signature of a function, extern, action or
// builtin method.
type Func struct {
	typ
	params []*Var // parameters, each carrying its direction
	result Type   // return type (Typ[Void] for void functions)
}

// NewFunc creates a new function type. A nil result means void.
func NewFunc(params []*Var, result Type) *Func {
	if result == nil {
		result = Typ[Void]
	}
	return &Func{params: params, result: result}
}

// Params returns the parameter list.
func (f *Func) Params() []*Var {
	return f.params
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the parameter at index i.
func (f *Func) Param(i int) *Var {
	return f.params[i]
}

// Result returns the result type.
func (f *Func) Result() Type {
	return f.result
}

// Underlying implements Type.
func (f *Func) Underlying() Type {
	return f
}

// String implements Type.
func (f *Func) String() string {
	var buf strings.Builder
	buf.WriteString(f.result.String())
	buf.WriteString("(")
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		if d := p.Dir().String(); d != "" {
			buf.WriteString(d)
			buf.WriteString(" ")
		}
		buf.WriteString(p.Type().String())
		buf.WriteString(" ")
		buf.WriteString(p.Name())
	}
	buf.WriteString(")")
	return buf.String()
}

// Table represents a match-action table. Its only method is apply.
type Table struct {
	typ
	name    string
	actions []*FuncObj
}

// NewTable creates a new table type.
func NewTable(name string, actions []*FuncObj) *Table {
	return &Table{name: name, actions: actions}
}

// Actions returns the actions the table may run.
func (t *Table) Actions() []*FuncObj {
	return t.actions
}

// HasAction reports whether name is one of the table's actions.
func (t *Table) HasAction(name string) bool {
	for _, a := range t.actions {
		if a.Name() == name {
			return true
		}
	}
	return false
}

// Underlying implements Type.
func (t *Table) Underlying() Type {
	return t
}

// String implements Type.
func (t *Table) String() string {
	return "table " + t.name
}

// ApplyResult is the type of t.apply(). It has the fields hit, miss
// (bool) and action_run (ActionEnum). It cannot be stored in a variable.
type ApplyResult struct {
	typ
	table *Table
}

// NewApplyResult creates the apply result type of a table.
func NewApplyResult(t *Table) *ApplyResult {
	return &ApplyResult{table: t}
}

// Table returns the table whose apply produced this result.
func (r *ApplyResult) Table() *Table {
	return r.table
}

// Underlying implements Type.
func (r *ApplyResult) Underlying() Type {
	return r
}

// String implements Type.
func (r *ApplyResult) String() string {
	return "apply_result(" + r.table.name + ")"
}

// ActionEnum is the type of t.apply().action_run. Its values are the
// names of the table's actions and are only usable as switch labels.
type ActionEnum struct {
	typ
	table *Table
}

// NewActionEnum creates the action_run type of a table.
func NewActionEnum(t *Table) *ActionEnum {
	return &ActionEnum{table: t}
}

// Table returns the table the actions belong to.
func (a *ActionEnum) Table() *Table {
	return a.table
}

// Underlying implements Type.
func (a *ActionEnum) Underlying() Type {
	return a
}

// String implements Type.
func (a *ActionEnum) String() string {
	return "action_list(" + a.table.name + ")"
}
