package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Void
	Bool

	// UntypedInt is the type of an integer literal without a width
	// prefix. It takes the width of the context it is used in.
	UntypedInt
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	InfoBoolean BasicInfo = 1 << iota
	InfoInteger
	InfoUntyped
)

// Basic represents a basic type: void, bool and untyped int.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// Underlying implements Type.
func (b *Basic) Underlying() Type {
	return b
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid:    nil,
	Void:       {kind: Void, name: "void"},
	Bool:       {kind: Bool, info: InfoBoolean, name: "bool"},
	UntypedInt: {kind: UntypedInt, info: InfoInteger | InfoUntyped, name: "int"},
}
