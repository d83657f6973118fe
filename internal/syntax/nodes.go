package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and Declarations.
// All nodes implement the Node interface. Expression, Statement, and Declaration
// nodes further implement their respective interfaces. Type expressions are
// Expr nodes as well; the checker decides from context which reading applies.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }

// SetPos sets the node position. Passes that synthesize nodes use it to
// attribute them to the source construct they were derived from.
func (n *node) SetPos(pos Pos) { n.pos = pos }

func (n *node) aNode() {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Program and top-level declarations

// Program represents a complete P4 source file.
type Program struct {
	node
	Decls []Decl
}

// Annotation represents @name attached to a declaration.
type Annotation struct {
	node
	Name string
}

// Field is a member of a header or struct type.
type Field struct {
	node
	Type Expr
	Name *Name
}

// HeaderDecl represents: header Name { Fields }
type HeaderDecl struct {
	decl
	Name   *Name
	Fields []*Field
}

// StructDecl represents: struct Name { Fields }
type StructDecl struct {
	decl
	Name   *Name
	Fields []*Field
}

// EnumDecl represents: enum Name { A, B, ... }
type EnumDecl struct {
	decl
	Name    *Name
	Members []*Name
}

// ConstDecl represents: const Type Name = Value;
// It appears at top level, in container locals and as a statement.
type ConstDecl struct {
	decl
	Type  Expr
	Name  *Name
	Value Expr
}

// VarDecl represents: Type Name [= Value];
type VarDecl struct {
	decl
	Type  Expr
	Name  *Name
	Value Expr // nil if no initializer
}

// Direction is the passing mode of a parameter.
type Direction uint8

const (
	DirNone  Direction = iota // directionless: compile-time or action data
	DirIn                     // in
	DirOut                    // out
	DirInOut                  // inout
)

var dirNames = [...]string{
	DirNone:  "",
	DirIn:    "in",
	DirOut:   "out",
	DirInOut: "inout",
}

func (d Direction) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return "dir?"
}

// Param represents a formal parameter: [Dir] Type Name
type Param struct {
	node
	Dir  Direction
	Type Expr
	Name *Name
}

// ExternDecl represents an extern function prototype:
// {@annotation} extern Result Name(Params);
type ExternDecl struct {
	decl
	Annotations []*Annotation
	Result      Expr
	Name        *Name
	Params      []*Param
}

// FuncDecl represents a function: Result Name(Params) { Body }
type FuncDecl struct {
	decl
	Result Expr
	Name   *Name
	Params []*Param
	Body   *BlockStmt
}

// ActionDecl represents: action Name(Params) { Body }
type ActionDecl struct {
	decl
	Name   *Name
	Params []*Param
	Body   *BlockStmt
}

// KeyElement is one entry of a table key: Expr : MatchKind;
type KeyElement struct {
	node
	Expr      Expr
	MatchKind *Name
}

// TableDecl represents a match-action table declared in a control.
type TableDecl struct {
	decl
	Name          *Name
	Key           []*KeyElement
	Actions       []*Name
	DefaultAction *Name // nil if absent
}

// ControlDecl represents: control Name(Params) { Locals apply Body }
type ControlDecl struct {
	decl
	Name   *Name
	Params []*Param
	Locals []Decl // *VarDecl, *ConstDecl, *ActionDecl, *TableDecl
	Body   *BlockStmt
}

// ParserDecl represents: parser Name(Params) { Locals States }
type ParserDecl struct {
	decl
	Name   *Name
	Params []*Param
	Locals []Decl // *VarDecl, *ConstDecl
	States []*StateDecl
}

// StateDecl represents a parser state.
// Exactly one of Next and Select is set.
type StateDecl struct {
	decl
	Name   *Name
	Stmts  []Stmt
	Next   *Name       // transition Next;
	Select *SelectExpr // transition select(...) { ... }
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents an integer or boolean literal.
// For integers Value is the literal text as written (5, 0x1F, 8w5).
type BasicLit struct {
	expr
	Value string
	Kind  LitKind
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil.
// && and || are Operation nodes with Op AndAnd / OrOr.
type Operation struct {
	expr
	Op Token
	X  Expr
	Y  Expr // nil for unary
}

// CondExpr represents Cond ? X : Y.
type CondExpr struct {
	expr
	Cond Expr
	X    Expr
	Y    Expr
}

// CallExpr represents Fun(Args...). Fun is a Name for functions,
// externs and actions, or a SelectorExpr for methods (h.isValid, t.apply).
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// SelectorExpr represents X.Sel.
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// IndexExpr represents X[Index].
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// SelectCase is one clause of a select expression.
// Keys is nil for the default clause.
type SelectCase struct {
	node
	Keys  []Expr
	State *Name
}

// SelectExpr represents select(Select...) { Cases }.
// It only appears as the transition of a parser state.
type SelectExpr struct {
	expr
	Select []Expr
	Cases  []*SelectCase
}

// ----------------------------------------------------------------------------
// Type expressions

// BitType represents bit<Width> or int<Width>.
type BitType struct {
	expr
	Signed bool
	Width  *BasicLit
}

// BoolType represents bool.
type BoolType struct {
	expr
}

// VoidType represents void.
type VoidType struct {
	expr
}

// StackType represents a header stack: Elem[Size].
type StackType struct {
	expr
	Elem Expr
	Size *BasicLit
}

// ----------------------------------------------------------------------------
// Statements

// EmptyStmt represents an empty statement (just a semicolon).
type EmptyStmt struct {
	stmt
}

// BlockStmt represents a block statement: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

// AssignStmt represents LHS = RHS;
type AssignStmt struct {
	stmt
	LHS Expr
	RHS Expr
}

// CallStmt represents a call evaluated for its effect: Call;
type CallStmt struct {
	stmt
	Call *CallExpr
}

// IfStmt represents if (Cond) Then [else Else].
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// SwitchCase is one labelled block of a switch statement.
// Label is nil for the default case.
type SwitchCase struct {
	node
	Label Expr
	Body  *BlockStmt
}

// SwitchStmt represents switch (Tag) { Cases }.
type SwitchStmt struct {
	stmt
	Tag   Expr
	Cases []*SwitchCase
}

// ReturnStmt represents return [Result];
type ReturnStmt struct {
	stmt
	Result Expr // nil for bare return
}

// ExitStmt represents exit;
type ExitStmt struct {
	stmt
}

// DeclStmt wraps a local declaration (*VarDecl or *ConstDecl) as a statement.
type DeclStmt struct {
	stmt
	Decl Decl
}
