package types

// Named represents a declared header, struct or enum type.
type Named struct {
	typ
	obj        *TypeName // type name object
	underlying Type      // underlying type
}

// NewNamed creates a new named type.
// The underlying type may be set later using SetUnderlying.
func NewNamed(obj *TypeName, underlying Type) *Named {
	n := &Named{obj: obj, underlying: underlying}
	if obj != nil {
		obj.typ = n
	}
	return n
}

// Obj returns the type name object.
func (n *Named) Obj() *TypeName {
	return n.obj
}

// SetUnderlying sets the underlying type.
// This is called during type checking once the underlying type is resolved.
func (n *Named) SetUnderlying(underlying Type) {
	n.underlying = underlying
}

// Underlying implements Type.
// For named types, returns the underlying type of the named type.
func (n *Named) Underlying() Type {
	return n.underlying
}

// String implements Type.
func (n *Named) String() string {
	if n.obj != nil {
		return n.obj.Name()
	}
	return "unnamed"
}
