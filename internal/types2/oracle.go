package types2

import (
	"go/constant"

	"github.com/you-not-fish/p4simpl/internal/syntax"
	"github.com/you-not-fish/p4simpl/internal/types"
)

// Queries and updates used by passes that rewrite a checked program.
// Nodes synthesized by a pass have no entry until the pass records one
// with SetType and, where applicable, SetLeftValue or
// SetCompileTimeConstant.

// NewName returns a fresh identifier derived from base that is unique
// across the whole program. Names are never reused.
func (info *Info) NewName(base string) string {
	if info.names == nil {
		info.names = NewNames()
		info.names.UseAll(info)
	}
	return info.names.New(base)
}

// TypeOf returns the type of x, or nil if x has no recorded type.
func (info *Info) TypeOf(x syntax.Expr) types.Type {
	if tv, ok := info.Types[x]; ok {
		return tv.Type
	}
	if n, ok := x.(*syntax.Name); ok {
		if obj := info.ObjectOf(n); obj != nil {
			return obj.Type()
		}
	}
	return nil
}

// IsLeftValue reports whether x denotes writable storage.
func (info *Info) IsLeftValue(x syntax.Expr) bool {
	return info.Types[x].IsLeftValue()
}

// IsCompileTimeConstant reports whether x is a compile-time constant.
func (info *Info) IsCompileTimeConstant(x syntax.Expr) bool {
	return info.Types[x].IsConstant()
}

// ConstantValue returns the value of the compile-time constant x, or nil.
func (info *Info) ConstantValue(x syntax.Expr) constant.Value {
	tv := info.Types[x]
	if !tv.IsConstant() {
		return nil
	}
	return tv.Value
}

// Annotated reports whether x has a recorded type.
func (info *Info) Annotated(x syntax.Expr) bool {
	tv, ok := info.Types[x]
	return ok && tv.Type != nil
}

// ObjectOf returns the object name defines or refers to, or nil.
func (info *Info) ObjectOf(name *syntax.Name) types.Object {
	if obj := info.Defs[name]; obj != nil {
		return obj
	}
	return info.Uses[name]
}

// SetType records t as the type of x. An expression without a recorded
// mode becomes a plain value.
func (info *Info) SetType(x syntax.Expr, t types.Type) {
	tv := info.Types[x]
	tv.Type = t
	if tv.mode == invalid {
		tv.mode = value
		if types.IsVoid(t) {
			tv.mode = novalue
		}
	}
	info.Types[x] = tv
}

// SetLeftValue marks x as writable storage.
func (info *Info) SetLeftValue(x syntax.Expr) {
	tv := info.Types[x]
	tv.mode = variable
	tv.Value = nil
	info.Types[x] = tv
}

// SetCompileTimeConstant marks x as a compile-time constant.
func (info *Info) SetCompileTimeConstant(x syntax.Expr) {
	tv := info.Types[x]
	tv.mode = constant_
	info.Types[x] = tv
}

// Define records obj as declared by name.
func (info *Info) Define(name *syntax.Name, obj types.Object) {
	info.Defs[name] = obj
}

// Use records name as a reference to obj.
func (info *Info) Use(name *syntax.Name, obj types.Object) {
	info.Uses[name] = obj
}
