package syntax

import "strconv"

// Constructors for nodes synthesized by later passes. Each takes the
// position the new node is attributed to.

func NewName(pos Pos, value string) *Name {
	n := &Name{Value: value}
	n.pos = pos
	return n
}

func NewBoolLit(pos Pos, v bool) *BasicLit {
	lit := &BasicLit{Value: "false", Kind: BoolLit}
	if v {
		lit.Value = "true"
	}
	lit.pos = pos
	return lit
}

func NewIntLit(pos Pos, text string) *BasicLit {
	lit := &BasicLit{Value: text, Kind: IntLit}
	lit.pos = pos
	return lit
}

func NewUnary(pos Pos, op Token, x Expr) *Operation {
	o := &Operation{Op: op, X: x}
	o.pos = pos
	return o
}

func NewBinary(pos Pos, op Token, x, y Expr) *Operation {
	o := &Operation{Op: op, X: x, Y: y}
	o.pos = pos
	return o
}

func NewSelector(pos Pos, x Expr, sel string) *SelectorExpr {
	s := &SelectorExpr{X: x, Sel: NewName(pos, sel)}
	s.pos = pos
	return s
}

func NewIndex(pos Pos, x, index Expr) *IndexExpr {
	ix := &IndexExpr{X: x, Index: index}
	ix.pos = pos
	return ix
}

func NewCall(pos Pos, fun Expr, args []Expr) *CallExpr {
	c := &CallExpr{Fun: fun, Args: args}
	c.pos = pos
	return c
}

func NewSelect(pos Pos, sel []Expr, cases []*SelectCase) *SelectExpr {
	s := &SelectExpr{Select: sel, Cases: cases}
	s.pos = pos
	return s
}

func NewVarDecl(pos Pos, typ Expr, name string, value Expr) *VarDecl {
	d := &VarDecl{Type: typ, Name: NewName(pos, name), Value: value}
	d.pos = pos
	return d
}

func NewAssign(pos Pos, lhs, rhs Expr) *AssignStmt {
	s := &AssignStmt{LHS: lhs, RHS: rhs}
	s.pos = pos
	return s
}

func NewCallStmt(pos Pos, call *CallExpr) *CallStmt {
	s := &CallStmt{Call: call}
	s.pos = pos
	return s
}

func NewBlock(pos Pos, stmts []Stmt) *BlockStmt {
	b := &BlockStmt{Stmts: stmts}
	b.pos = pos
	return b
}

func NewIf(pos Pos, cond Expr, then, els Stmt) *IfStmt {
	s := &IfStmt{Cond: cond, Then: then, Else: els}
	s.pos = pos
	return s
}

func NewSwitch(pos Pos, tag Expr, cases []*SwitchCase) *SwitchStmt {
	s := &SwitchStmt{Tag: tag, Cases: cases}
	s.pos = pos
	return s
}

func NewReturn(pos Pos, result Expr) *ReturnStmt {
	s := &ReturnStmt{Result: result}
	s.pos = pos
	return s
}

func NewDeclStmt(d Decl) *DeclStmt {
	s := &DeclStmt{Decl: d}
	s.pos = d.Pos()
	return s
}

// Type expressions used to spell the declared type of a synthesized variable.

func NewBitType(pos Pos, width int, signed bool) *BitType {
	t := &BitType{Signed: signed, Width: NewIntLit(pos, strconv.Itoa(width))}
	t.pos = pos
	return t
}

func NewBoolType(pos Pos) *BoolType {
	t := &BoolType{}
	t.pos = pos
	return t
}

func NewStackType(pos Pos, elem Expr, size int) *StackType {
	t := &StackType{Elem: elem, Size: NewIntLit(pos, strconv.Itoa(size))}
	t.pos = pos
	return t
}
