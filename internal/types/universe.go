package types

import "github.com/you-not-fish/p4simpl/internal/syntax"

// NoPos is the zero position value, used for predeclared objects.
var NoPos syntax.Pos

// Universe is the root scope containing all predeclared objects.
var Universe *Scope

// Predeclared objects accessible via the Universe scope.
var (
	// Types
	universeBool *TypeName
	universeVoid *TypeName

	// Parser states
	universeAccept *State
	universeReject *State

	// Actions
	universeNoAction *FuncObj
)

// Builtin methods. They are not in any scope; LookupMethod finds
// them by receiver type.
var (
	builtinIsValid    = NewBuiltin("isValid", BuiltinIsValid)
	builtinSetValid   = NewBuiltin("setValid", BuiltinSetValid)
	builtinSetInvalid = NewBuiltin("setInvalid", BuiltinSetInvalid)
	builtinApply      = NewBuiltin("apply", BuiltinApply)
)

func init() {
	Universe = NewScope(nil, nil, "universe")

	defPredeclaredTypes()
	defPredeclaredStates()
	defPredeclaredActions()
	defBuiltinSignatures()
}

// defPredeclaredTypes defines bool and void in Universe.
func defPredeclaredTypes() {
	universeBool = NewTypeName(NoPos, "bool", Typ[Bool])
	Universe.Insert(universeBool)

	universeVoid = NewTypeName(NoPos, "void", Typ[Void])
	Universe.Insert(universeVoid)
}

// defPredeclaredStates defines the terminal parser states.
func defPredeclaredStates() {
	universeAccept = NewState(NoPos, "accept")
	Universe.Insert(universeAccept)

	universeReject = NewState(NoPos, "reject")
	Universe.Insert(universeReject)
}

// defPredeclaredActions defines NoAction.
func defPredeclaredActions() {
	universeNoAction = NewFuncObj(NoPos, "NoAction", Action)
	universeNoAction.SetSignature(NewFunc(nil, nil))
	Universe.Insert(universeNoAction)
}

func defBuiltinSignatures() {
	builtinIsValid.typ = NewFunc(nil, Typ[Bool])
	builtinSetValid.typ = NewFunc(nil, nil)
	builtinSetInvalid.typ = NewFunc(nil, nil)
	// apply's result depends on the table; see LookupMethod.
	builtinApply.typ = NewFunc(nil, nil)
}

// LookupMethod returns the builtin method name of a value of type recv
// and the signature of the call, or (nil, nil) if recv has no such
// method.
func LookupMethod(recv Type, name string) (*Builtin, *Func) {
	switch t := recv.Underlying().(type) {
	case *Struct:
		if !t.IsHeader() {
			return nil, nil
		}
		for _, b := range []*Builtin{builtinIsValid, builtinSetValid, builtinSetInvalid} {
			if b.name == name {
				return b, b.typ.(*Func)
			}
		}
	case *Table:
		if name == builtinApply.name {
			return builtinApply, NewFunc(nil, NewApplyResult(t))
		}
	}
	return nil, nil
}

// Predeclared type accessors
func UniverseBool() *TypeName { return universeBool }
func UniverseVoid() *TypeName { return universeVoid }

// Predeclared state accessors
func UniverseAccept() *State { return universeAccept }
func UniverseReject() *State { return universeReject }

// UniverseNoAction returns the predeclared empty action.
func UniverseNoAction() *FuncObj { return universeNoAction }
