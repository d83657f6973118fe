package syntax

import (
	"bytes"
	"io"
	"strings"
)

// Format writes node to w as P4 source text, indented with four spaces.
// Parentheses are emitted only where operator precedence requires them.
func Format(w io.Writer, node Node) error {
	f := &formatter{}
	f.node(node)
	_, err := w.Write(f.buf.Bytes())
	return err
}

// String returns the P4 source text of node.
// Expressions are rendered on a single line.
func String(node Node) string {
	if x, ok := node.(Expr); ok {
		return ExprString(x)
	}
	var b bytes.Buffer
	_ = Format(&b, node)
	return strings.TrimSuffix(b.String(), "\n")
}

type formatter struct {
	buf     bytes.Buffer
	indent  int
	midLine bool
}

// print writes s, preceded by indentation when at the start of a line.
func (f *formatter) print(args ...string) {
	for _, s := range args {
		if s == "" {
			continue
		}
		if !f.midLine {
			f.buf.WriteString(strings.Repeat("    ", f.indent))
			f.midLine = true
		}
		f.buf.WriteString(s)
	}
}

// nl terminates the current line.
func (f *formatter) nl() {
	f.buf.WriteByte('\n')
	f.midLine = false
}

func (f *formatter) node(node Node) {
	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			f.decl(d)
			f.nl()
		}
	case Decl:
		f.decl(n)
		f.nl()
	case Stmt:
		f.stmt(n)
		f.nl()
	case Expr:
		f.print(ExprString(n))
		f.nl()
	}
}

// ----------------------------------------------------------------------------
// Declarations

func (f *formatter) decl(d Decl) {
	switch d := d.(type) {
	case *HeaderDecl:
		f.print("header ", d.Name.Value)
		f.fields(d.Fields)

	case *StructDecl:
		f.print("struct ", d.Name.Value)
		f.fields(d.Fields)

	case *EnumDecl:
		f.print("enum ", d.Name.Value, " {")
		f.nl()
		f.indent++
		for i, m := range d.Members {
			f.print(m.Value)
			if i < len(d.Members)-1 {
				f.print(",")
			}
			f.nl()
		}
		f.indent--
		f.print("}")

	case *ConstDecl:
		f.print("const ", TypeString(d.Type), " ", d.Name.Value, " = ", ExprString(d.Value), ";")

	case *VarDecl:
		f.print(TypeString(d.Type), " ", d.Name.Value)
		if d.Value != nil {
			f.print(" = ", ExprString(d.Value))
		}
		f.print(";")

	case *ExternDecl:
		for _, a := range d.Annotations {
			f.print("@", a.Name, " ")
		}
		f.print("extern ", TypeString(d.Result), " ", d.Name.Value, paramsString(d.Params), ";")

	case *FuncDecl:
		f.print(TypeString(d.Result), " ", d.Name.Value, paramsString(d.Params), " ")
		f.block(d.Body)

	case *ActionDecl:
		f.print("action ", d.Name.Value, paramsString(d.Params), " ")
		f.block(d.Body)

	case *TableDecl:
		f.table(d)

	case *ControlDecl:
		f.print("control ", d.Name.Value, paramsString(d.Params), " {")
		f.nl()
		f.indent++
		for _, l := range d.Locals {
			f.decl(l)
			f.nl()
		}
		f.print("apply ")
		f.block(d.Body)
		f.nl()
		f.indent--
		f.print("}")

	case *ParserDecl:
		f.print("parser ", d.Name.Value, paramsString(d.Params), " {")
		f.nl()
		f.indent++
		for _, l := range d.Locals {
			f.decl(l)
			f.nl()
		}
		for _, s := range d.States {
			f.state(s)
			f.nl()
		}
		f.indent--
		f.print("}")
	}
}

func (f *formatter) fields(fields []*Field) {
	f.print(" {")
	f.nl()
	f.indent++
	for _, fld := range fields {
		f.print(TypeString(fld.Type), " ", fld.Name.Value, ";")
		f.nl()
	}
	f.indent--
	f.print("}")
}

func (f *formatter) table(d *TableDecl) {
	f.print("table ", d.Name.Value, " {")
	f.nl()
	f.indent++
	if len(d.Key) > 0 {
		f.print("key = {")
		f.nl()
		f.indent++
		for _, k := range d.Key {
			f.print(ExprString(k.Expr), ": ", k.MatchKind.Value, ";")
			f.nl()
		}
		f.indent--
		f.print("}")
		f.nl()
	}
	f.print("actions = {")
	f.nl()
	f.indent++
	for _, a := range d.Actions {
		f.print(a.Value, ";")
		f.nl()
	}
	f.indent--
	f.print("}")
	f.nl()
	if d.DefaultAction != nil {
		f.print("default_action = ", d.DefaultAction.Value, "();")
		f.nl()
	}
	f.indent--
	f.print("}")
}

func (f *formatter) state(s *StateDecl) {
	f.print("state ", s.Name.Value, " {")
	f.nl()
	f.indent++
	for _, st := range s.Stmts {
		f.stmt(st)
		f.nl()
	}
	if s.Select != nil {
		f.print("transition ")
		f.selectExpr(s.Select)
	} else if s.Next != nil {
		f.print("transition ", s.Next.Value, ";")
	}
	f.nl()
	f.indent--
	f.print("}")
}

func (f *formatter) selectExpr(x *SelectExpr) {
	f.print("select(", exprList(x.Select), ") {")
	f.nl()
	f.indent++
	for _, c := range x.Cases {
		switch len(c.Keys) {
		case 0:
			f.print("default")
		case 1:
			f.print(ExprString(c.Keys[0]))
		default:
			f.print("(", exprList(c.Keys), ")")
		}
		f.print(": ", c.State.Value, ";")
		f.nl()
	}
	f.indent--
	f.print("}")
}

// ----------------------------------------------------------------------------
// Statements

// stmt prints s without a trailing newline.
func (f *formatter) stmt(s Stmt) {
	switch s := s.(type) {
	case *EmptyStmt:
		f.print(";")

	case *BlockStmt:
		f.block(s)

	case *AssignStmt:
		f.print(ExprString(s.LHS), " = ", ExprString(s.RHS), ";")

	case *CallStmt:
		f.print(ExprString(s.Call), ";")

	case *IfStmt:
		f.ifStmt(s)

	case *SwitchStmt:
		f.print("switch (", ExprString(s.Tag), ") {")
		f.nl()
		f.indent++
		for _, c := range s.Cases {
			if c.Label == nil {
				f.print("default: ")
			} else {
				f.print(ExprString(c.Label), ": ")
			}
			f.block(c.Body)
			f.nl()
		}
		f.indent--
		f.print("}")

	case *ReturnStmt:
		if s.Result == nil {
			f.print("return;")
		} else {
			f.print("return ", ExprString(s.Result), ";")
		}

	case *ExitStmt:
		f.print("exit;")

	case *DeclStmt:
		f.decl(s.Decl)
	}
}

func (f *formatter) block(b *BlockStmt) {
	f.print("{")
	f.nl()
	f.indent++
	for _, s := range b.Stmts {
		f.stmt(s)
		f.nl()
	}
	f.indent--
	f.print("}")
}

func (f *formatter) ifStmt(s *IfStmt) {
	f.print("if (", ExprString(s.Cond), ")")
	f.clause(s.Then)
	if s.Else == nil {
		return
	}
	if _, ok := s.Then.(*BlockStmt); ok {
		f.print(" else")
	} else {
		f.nl()
		f.print("else")
	}
	if elif, ok := s.Else.(*IfStmt); ok {
		f.print(" ")
		f.ifStmt(elif)
		return
	}
	f.clause(s.Else)
}

// clause prints the body of an if or else branch.
func (f *formatter) clause(s Stmt) {
	if b, ok := s.(*BlockStmt); ok {
		f.print(" ")
		f.block(b)
		return
	}
	f.nl()
	f.indent++
	f.stmt(s)
	f.indent--
}

// ----------------------------------------------------------------------------
// Expressions and types

// TypeString returns the P4 spelling of a type expression.
func TypeString(t Expr) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *Name:
		return t.Value
	case *BitType:
		if t.Signed {
			return "int<" + t.Width.Value + ">"
		}
		return "bit<" + t.Width.Value + ">"
	case *BoolType:
		return "bool"
	case *VoidType:
		return "void"
	case *StackType:
		return TypeString(t.Elem) + "[" + t.Size.Value + "]"
	default:
		return ExprString(t)
	}
}

func paramsString(params []*Param) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Dir != DirNone {
			b.WriteString(p.Dir.String())
			b.WriteByte(' ')
		}
		b.WriteString(TypeString(p.Type))
		b.WriteByte(' ')
		b.WriteString(p.Name.Value)
	}
	b.WriteByte(')')
	return b.String()
}

func exprList(list []Expr) string {
	parts := make([]string, len(list))
	for i, x := range list {
		parts[i] = ExprString(x)
	}
	return strings.Join(parts, ", ")
}

// ExprString returns the P4 source text of x on one line.
func ExprString(x Expr) string {
	var b strings.Builder
	writeExpr(&b, x, 0)
	return b.String()
}

// precedence levels used for parenthesization, above the binary levels.
const (
	precCond    = 0
	precUnary   = 10
	precPrimary = 11
)

func exprPrec(x Expr) int {
	switch x := x.(type) {
	case *CondExpr:
		return precCond
	case *Operation:
		if x.Y == nil {
			return precUnary
		}
		return x.Op.Precedence()
	}
	return precPrimary
}

// writeExpr writes x, parenthesized if its precedence is below min.
func writeExpr(b *strings.Builder, x Expr, min int) {
	if x == nil {
		b.WriteString("<nil>")
		return
	}
	paren := exprPrec(x) < min
	if paren {
		b.WriteByte('(')
	}

	switch x := x.(type) {
	case *Name:
		b.WriteString(x.Value)

	case *BasicLit:
		b.WriteString(x.Value)

	case *Operation:
		if x.Y == nil {
			b.WriteString(x.Op.String())
			writeExpr(b, x.X, precUnary)
			break
		}
		prec := x.Op.Precedence()
		writeExpr(b, x.X, prec)
		b.WriteString(" " + x.Op.String() + " ")
		writeExpr(b, x.Y, prec+1)

	case *CondExpr:
		writeExpr(b, x.Cond, 1)
		b.WriteString(" ? ")
		writeExpr(b, x.X, precCond)
		b.WriteString(" : ")
		writeExpr(b, x.Y, precCond)

	case *CallExpr:
		writeExpr(b, x.Fun, precPrimary)
		b.WriteByte('(')
		b.WriteString(exprList(x.Args))
		b.WriteByte(')')

	case *SelectorExpr:
		writeExpr(b, x.X, precPrimary)
		b.WriteByte('.')
		b.WriteString(x.Sel.Value)

	case *IndexExpr:
		writeExpr(b, x.X, precPrimary)
		b.WriteByte('[')
		writeExpr(b, x.Index, precCond)
		b.WriteByte(']')

	case *SelectExpr:
		b.WriteString("select(")
		b.WriteString(exprList(x.Select))
		b.WriteString(") { ... }")

	case *BitType, *BoolType, *VoidType, *StackType:
		b.WriteString(TypeString(x))

	default:
		b.WriteString("<?>")
	}

	if paren {
		b.WriteByte(')')
	}
}
