package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented structural dump of the AST to w.
// Use Format for P4 source text.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled child node one level deeper.
func (p *printer) child(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program %s\n", n.pos)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *HeaderDecl:
		p.printf("HeaderDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, f := range n.Fields {
			p.printf("Field: %s %s\n", f.Name.Value, TypeString(f.Type))
		}
		p.indent--

	case *StructDecl:
		p.printf("StructDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, f := range n.Fields {
			p.printf("Field: %s %s\n", f.Name.Value, TypeString(f.Type))
		}
		p.indent--

	case *EnumDecl:
		p.printf("EnumDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, m := range n.Members {
			p.printf("Member: %s\n", m.Value)
		}
		p.indent--

	case *ConstDecl:
		p.printf("ConstDecl %s %s %s\n", n.pos, n.Name.Value, TypeString(n.Type))
		p.indent++
		p.child("Value", n.Value)
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s %s %s\n", n.pos, n.Name.Value, TypeString(n.Type))
		if n.Value != nil {
			p.indent++
			p.child("Value", n.Value)
			p.indent--
		}

	case *ExternDecl:
		p.printf("ExternDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, a := range n.Annotations {
			p.printf("Annotation: @%s\n", a.Name)
		}
		p.params(n.Params)
		p.printf("Result: %s\n", TypeString(n.Result))
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.params(n.Params)
		p.printf("Result: %s\n", TypeString(n.Result))
		p.child("Body", n.Body)
		p.indent--

	case *ActionDecl:
		p.printf("ActionDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.params(n.Params)
		p.child("Body", n.Body)
		p.indent--

	case *TableDecl:
		p.printf("TableDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, k := range n.Key {
			p.printf("Key: %s %s\n", ExprString(k.Expr), k.MatchKind.Value)
		}
		for _, a := range n.Actions {
			p.printf("Action: %s\n", a.Value)
		}
		if n.DefaultAction != nil {
			p.printf("DefaultAction: %s\n", n.DefaultAction.Value)
		}
		p.indent--

	case *ControlDecl:
		p.printf("ControlDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.params(n.Params)
		if len(n.Locals) > 0 {
			p.printf("Locals:\n")
			p.indent++
			for _, l := range n.Locals {
				p.print(l)
			}
			p.indent--
		}
		p.child("Apply", n.Body)
		p.indent--

	case *ParserDecl:
		p.printf("ParserDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.params(n.Params)
		if len(n.Locals) > 0 {
			p.printf("Locals:\n")
			p.indent++
			for _, l := range n.Locals {
				p.print(l)
			}
			p.indent--
		}
		for _, s := range n.States {
			p.print(s)
		}
		p.indent--

	case *StateDecl:
		p.printf("StateDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		if n.Select != nil {
			p.child("Transition", n.Select)
		} else if n.Next != nil {
			p.printf("Transition: %s\n", n.Next.Value)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s\n", n.pos)
		p.indent++
		p.child("LHS", n.LHS)
		p.child("RHS", n.RHS)
		p.indent--

	case *CallStmt:
		p.printf("CallStmt %s\n", n.pos)
		p.indent++
		p.print(n.Call)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}
		p.indent--

	case *SwitchStmt:
		p.printf("SwitchStmt %s\n", n.pos)
		p.indent++
		p.child("Tag", n.Tag)
		for _, c := range n.Cases {
			if c.Label == nil {
				p.child("Default", c.Body)
			} else {
				p.child("Case "+ExprString(c.Label), c.Body)
			}
		}
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *ExitStmt:
		p.printf("ExitStmt %s\n", n.pos)

	case *DeclStmt:
		p.printf("DeclStmt %s\n", n.pos)
		p.indent++
		p.print(n.Decl)
		p.indent--

	case *EmptyStmt:
		p.printf("EmptyStmt %s\n", n.pos)

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.child("X", n.X)
			p.child("Y", n.Y)
			p.indent--
		}

	case *CondExpr:
		p.printf("CondExpr %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s\n", n.pos)
		p.indent++
		p.child("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.child("X", n.X)
		p.child("Index", n.Index)
		p.indent--

	case *SelectorExpr:
		p.printf("SelectorExpr %s\n", n.pos)
		p.indent++
		p.child("X", n.X)
		p.printf("Sel: %s\n", n.Sel.Value)
		p.indent--

	case *SelectExpr:
		p.printf("SelectExpr %s\n", n.pos)
		p.indent++
		for _, x := range n.Select {
			p.print(x)
		}
		for _, c := range n.Cases {
			if c.Keys == nil {
				p.printf("Case default: %s\n", c.State.Value)
				continue
			}
			p.printf("Case %s: %s\n", exprList(c.Keys), c.State.Value)
		}
		p.indent--

	case *BitType, *BoolType, *VoidType, *StackType:
		p.printf("Type %s\n", TypeString(n.(Expr)))

	default:
		p.printf("<%T>\n", node)
	}
}

func (p *printer) params(params []*Param) {
	if len(params) == 0 {
		return
	}
	p.printf("Params:\n")
	p.indent++
	for _, prm := range params {
		if prm.Dir != DirNone {
			p.printf("%s %s %s\n", prm.Dir, TypeString(prm.Type), prm.Name.Value)
		} else {
			p.printf("%s %s\n", TypeString(prm.Type), prm.Name.Value)
		}
	}
	p.indent--
}
