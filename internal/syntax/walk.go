package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *HeaderDecl:
		Walk(n.Name, v)
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *StructDecl:
		Walk(n.Name, v)
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *Field:
		Walk(n.Type, v)
		Walk(n.Name, v)

	case *EnumDecl:
		Walk(n.Name, v)
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *ConstDecl:
		Walk(n.Type, v)
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *VarDecl:
		Walk(n.Type, v)
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *Param:
		Walk(n.Type, v)
		Walk(n.Name, v)

	case *ExternDecl:
		for _, a := range n.Annotations {
			Walk(a, v)
		}
		Walk(n.Result, v)
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}

	case *FuncDecl:
		Walk(n.Result, v)
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Body, v)

	case *ActionDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Body, v)

	case *KeyElement:
		Walk(n.Expr, v)
		Walk(n.MatchKind, v)

	case *TableDecl:
		Walk(n.Name, v)
		for _, k := range n.Key {
			Walk(k, v)
		}
		for _, a := range n.Actions {
			Walk(a, v)
		}
		if n.DefaultAction != nil {
			Walk(n.DefaultAction, v)
		}

	case *ControlDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		for _, d := range n.Locals {
			Walk(d, v)
		}
		Walk(n.Body, v)

	case *ParserDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		for _, d := range n.Locals {
			Walk(d, v)
		}
		for _, s := range n.States {
			Walk(s, v)
		}

	case *StateDecl:
		Walk(n.Name, v)
		for _, s := range n.Stmts {
			Walk(s, v)
		}
		if n.Next != nil {
			Walk(n.Next, v)
		}
		if n.Select != nil {
			Walk(n.Select, v)
		}

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *AssignStmt:
		Walk(n.LHS, v)
		Walk(n.RHS, v)

	case *CallStmt:
		Walk(n.Call, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *SwitchStmt:
		Walk(n.Tag, v)
		for _, c := range n.Cases {
			Walk(c, v)
		}

	case *SwitchCase:
		if n.Label != nil {
			Walk(n.Label, v)
		}
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *DeclStmt:
		Walk(n.Decl, v)

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CondExpr:
		Walk(n.Cond, v)
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *SelectExpr:
		for _, e := range n.Select {
			Walk(e, v)
		}
		for _, c := range n.Cases {
			Walk(c, v)
		}

	case *SelectCase:
		for _, k := range n.Keys {
			Walk(k, v)
		}
		Walk(n.State, v)

	case *BitType:
		Walk(n.Width, v)

	case *StackType:
		Walk(n.Elem, v)
		Walk(n.Size, v)

	// Leaf nodes: Name, BasicLit, Annotation, BoolType, VoidType,
	// EmptyStmt, ExitStmt. No children to visit.
	}
}

// isNil reports whether node is nil or a typed nil pointer, so optional
// children such as a missing default action can be passed to Walk as is.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Name:
		return n == nil
	case *BasicLit:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *SelectExpr:
		return n == nil
	case *CallExpr:
		return n == nil
	}
	return false
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
