package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return identical(x, y)
}

func identical(x, y Type) bool {
	// Handle named types
	xn, xNamed := x.(*Named)
	yn, yNamed := y.(*Named)
	if xNamed && yNamed {
		// Two named types are identical only if they are the same named type
		return xn.obj == yn.obj
	}
	if xNamed != yNamed {
		// One named, one not
		return false
	}

	// Neither is named, compare underlying structures
	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Bits:
		if y, ok := y.(*Bits); ok {
			return x.width == y.width && x.signed == y.signed
		}
	case *Stack:
		if y, ok := y.(*Stack); ok {
			return x.size == y.size && Identical(x.elem, y.elem)
		}
	case *Struct:
		if y, ok := y.(*Struct); ok {
			return identicalStructs(x, y)
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return identicalFuncs(x, y)
		}
	case *Table, *Enum:
		// Tables and enums are only identical to themselves.
		return false
	case *ApplyResult:
		if y, ok := y.(*ApplyResult); ok {
			return x.table == y.table
		}
	case *ActionEnum:
		if y, ok := y.(*ActionEnum); ok {
			return x.table == y.table
		}
	}
	return false
}

func identicalStructs(x, y *Struct) bool {
	if x.header != y.header || len(x.fields) != len(y.fields) {
		return false
	}
	for i := range x.fields {
		if x.fields[i].Name() != y.fields[i].Name() {
			return false
		}
		if !Identical(x.fields[i].Type(), y.fields[i].Type()) {
			return false
		}
	}
	return true
}

func identicalFuncs(x, y *Func) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if x.params[i].Dir() != y.params[i].Dir() {
			return false
		}
		if !Identical(x.params[i].Type(), y.params[i].Type()) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

// AssignableTo reports whether a value of type V is assignable to type T.
func AssignableTo(V, T Type) bool {
	// Identical types are always assignable
	if Identical(V, T) {
		return true
	}

	// Unsized integer literals take the width of the target.
	if IsUntyped(V) {
		_, ok := T.Underlying().(*Bits)
		return ok
	}

	return false
}

// IsUntyped reports whether T is the type of an unsized integer literal.
func IsUntyped(T Type) bool {
	b, ok := T.(*Basic)
	return ok && b.info&InfoUntyped != 0
}

// IsBoolean reports whether T is bool.
func IsBoolean(T Type) bool {
	b, ok := T.Underlying().(*Basic)
	return ok && b.info&InfoBoolean != 0
}

// IsNumeric reports whether T is a fixed-width integer or an unsized
// integer literal type.
func IsNumeric(T Type) bool {
	switch t := T.Underlying().(type) {
	case *Bits:
		return true
	case *Basic:
		return t.info&InfoInteger != 0
	}
	return false
}

// IsVoid reports whether T is void.
func IsVoid(T Type) bool {
	b, ok := T.(*Basic)
	return ok && b.kind == Void
}

// IsHeader reports whether T is a header type.
func IsHeader(T Type) bool {
	s, ok := T.Underlying().(*Struct)
	return ok && s.header
}

// IsDeclarable reports whether a variable of type T can be declared.
// Table apply results and action_run values are only consumed in
// place; void, untyped literals, functions and tables have no storage.
func IsDeclarable(T Type) bool {
	if T == nil {
		return false
	}
	switch t := T.Underlying().(type) {
	case *Basic:
		return t.kind == Bool
	case *Bits, *Struct, *Enum:
		return true
	case *Stack:
		return IsDeclarable(t.elem)
	}
	return false
}

// Comparable reports whether values of type T can be compared with == or !=.
func Comparable(T Type) bool {
	switch t := T.Underlying().(type) {
	case *Basic:
		return t.kind == Bool || t.kind == UntypedInt
	case *Bits, *Enum:
		return true
	case *Struct:
		for _, f := range t.fields {
			if !Comparable(f.Type()) {
				return false
			}
		}
		return true
	case *Stack:
		return Comparable(t.elem)
	default:
		return false
	}
}

// Ordered reports whether values of type T can be ordered with <, <=, >, >=.
func Ordered(T Type) bool {
	return IsNumeric(T)
}
