package syntax

import "io"

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on P4 source code.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok Token
	lit string
	pos Pos

	// Error handling
	errh   func(pos Pos, msg string)
	errcnt int
	first  error // first error encountered
	abort  bool  // set to true when error limit reached
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	scanErrh := func(line, col uint32, msg string) {
		if errh != nil {
			errh(NewPos(filename, line, col), msg)
		}
	}

	p := &Parser{
		scanner: NewScanner(filename, src, scanErrh),
		errh:    errh,
	}
	p.next() // prime the parser with first token
	return p
}

// Parse is a convenience wrapper: it parses src and returns the program
// together with the first error, if any.
func Parse(filename string, src io.Reader, errh func(pos Pos, msg string)) (*Program, error) {
	p := NewParser(filename, src, errh)
	prog := p.Parse()
	return prog, p.FirstError()
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current position.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt reports a syntax error at a specific position.
func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	p.errorLimitCheck(pos)
}

// errorLimitCheck aborts parsing if too many errors have occurred.
func (p *Parser) errorLimitCheck(pos Pos) {
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// syncTokens are the tokens at which error recovery resumes.
var syncTokens = map[Token]bool{
	_Semi:    true,
	_Rbrace:  true,
	_Rparen:  true,
	_Header:  true,
	_Struct:  true,
	_Enum:    true,
	_Extern:  true,
	_Control: true,
	_Parser:  true,
	_Action:  true,
	_Table:   true,
	_State:   true,
	_If:      true,
	_Switch:  true,
	_Return:  true,
	_EOF:     true,
}

// advance skips tokens until it finds a synchronization point.
func (p *Parser) advance() {
	for p.tok != _EOF && !syncTokens[p.tok] {
		p.next()
	}

	// Consume sync point to avoid repeated errors at the same position
	if p.tok != _EOF {
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	prog.pos = p.pos

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue
		}
		if d := p.decl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
	}

	return prog
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError("expected identifier")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	p.next()
	return n
}

// intLit parses an integer literal used in a type (bit width, stack size).
func (p *Parser) intLit() *BasicLit {
	lit := &BasicLit{Kind: IntLit}
	lit.pos = p.pos
	if p.tok != _Literal || p.scanner.LitKind() != IntLit {
		p.syntaxError("expected integer literal")
		lit.Value = "0"
		return lit
	}
	lit.Value = p.lit
	p.next()
	return lit
}

// ----------------------------------------------------------------------------
// Top-level declarations

// decl parses a top-level declaration.
func (p *Parser) decl() Decl {
	switch p.tok {
	case _Header:
		return p.headerDecl()
	case _Struct:
		return p.structDecl()
	case _Enum:
		return p.enumDecl()
	case _Const:
		return p.constDecl()
	case _Annotation, _Extern:
		return p.externDecl()
	case _Action:
		return p.actionDecl()
	case _Control:
		return p.controlDecl()
	case _Parser:
		return p.parserDecl()
	case _Bit, _Int, _Bool, _Void, _Name:
		return p.funcDecl()
	default:
		p.syntaxError("expected declaration")
		p.advance()
		return nil
	}
}

// headerDecl parses: header Name { Fields }
func (p *Parser) headerDecl() *HeaderDecl {
	d := &HeaderDecl{}
	d.pos = p.pos
	p.want(_Header)
	d.Name = p.name()
	d.Fields = p.fieldList()
	return d
}

// structDecl parses: struct Name { Fields }
func (p *Parser) structDecl() *StructDecl {
	d := &StructDecl{}
	d.pos = p.pos
	p.want(_Struct)
	d.Name = p.name()
	d.Fields = p.fieldList()
	return d
}

// fieldList parses { Type Name; ... }
func (p *Parser) fieldList() []*Field {
	var fields []*Field
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Type = p.type_()
		f.Name = p.name()
		p.want(_Semi)
		fields = append(fields, f)
	}
	p.want(_Rbrace)
	return fields
}

// enumDecl parses: enum Name { A, B, ... }
func (p *Parser) enumDecl() *EnumDecl {
	d := &EnumDecl{}
	d.pos = p.pos
	p.want(_Enum)
	d.Name = p.name()
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		d.Members = append(d.Members, p.name())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rbrace)
	return d
}

// constDecl parses: const Type Name = Value;
func (p *Parser) constDecl() *ConstDecl {
	d := &ConstDecl{}
	d.pos = p.pos
	p.want(_Const)
	d.Type = p.type_()
	d.Name = p.name()
	p.want(_Assign)
	d.Value = p.expr()
	p.want(_Semi)
	return d
}

// varDecl parses the remainder of: Type Name [= Value];
// The type has already been parsed by the caller.
func (p *Parser) varDecl(pos Pos, typ Expr) *VarDecl {
	d := &VarDecl{Type: typ}
	d.pos = pos
	d.Name = p.name()
	if p.got(_Assign) {
		d.Value = p.expr()
	}
	p.want(_Semi)
	return d
}

// externDecl parses: {@annotation} extern Result Name(Params);
func (p *Parser) externDecl() *ExternDecl {
	d := &ExternDecl{}
	d.pos = p.pos
	for p.tok == _Annotation {
		a := &Annotation{Name: p.lit}
		a.pos = p.pos
		d.Annotations = append(d.Annotations, a)
		p.next()
	}
	p.want(_Extern)
	d.Result = p.type_()
	d.Name = p.name()
	d.Params = p.paramList()
	p.want(_Semi)
	return d
}

// funcDecl parses: Result Name(Params) { Body }
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos
	d.Result = p.type_()
	d.Name = p.name()
	d.Params = p.paramList()
	d.Body = p.blockStmt()
	return d
}

// actionDecl parses: action Name(Params) { Body }
func (p *Parser) actionDecl() *ActionDecl {
	d := &ActionDecl{}
	d.pos = p.pos
	p.want(_Action)
	d.Name = p.name()
	d.Params = p.paramList()
	d.Body = p.blockStmt()
	return d
}

// paramList parses ([Dir] Type Name, ...)
func (p *Parser) paramList() []*Param {
	var params []*Param
	p.want(_Lparen)
	for p.tok != _Rparen && p.tok != _EOF {
		prm := &Param{}
		prm.pos = p.pos
		switch p.tok {
		case _In:
			prm.Dir = DirIn
			p.next()
		case _Out:
			prm.Dir = DirOut
			p.next()
		case _InOut:
			prm.Dir = DirInOut
			p.next()
		}
		prm.Type = p.type_()
		prm.Name = p.name()
		params = append(params, prm)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return params
}

// controlDecl parses: control Name(Params) { Locals apply { Body } }
func (p *Parser) controlDecl() *ControlDecl {
	d := &ControlDecl{}
	d.pos = p.pos
	p.want(_Control)
	d.Name = p.name()
	d.Params = p.paramList()
	p.want(_Lbrace)
	for !p.abort && p.tok != _Apply && p.tok != _Rbrace && p.tok != _EOF {
		if l := p.localDecl(true); l != nil {
			d.Locals = append(d.Locals, l)
		}
	}
	p.want(_Apply)
	d.Body = p.blockStmt()
	p.want(_Rbrace)
	return d
}

// parserDecl parses: parser Name(Params) { Locals States }
func (p *Parser) parserDecl() *ParserDecl {
	d := &ParserDecl{}
	d.pos = p.pos
	p.want(_Parser)
	d.Name = p.name()
	d.Params = p.paramList()
	p.want(_Lbrace)
	for !p.abort && p.tok != _State && p.tok != _Rbrace && p.tok != _EOF {
		if l := p.localDecl(false); l != nil {
			d.Locals = append(d.Locals, l)
		}
	}
	for !p.abort && p.tok == _State {
		d.States = append(d.States, p.stateDecl())
	}
	p.want(_Rbrace)
	return d
}

// localDecl parses a control or parser local declaration.
// Actions and tables are only legal in controls.
func (p *Parser) localDecl(control bool) Decl {
	switch p.tok {
	case _Const:
		return p.constDecl()
	case _Action, _Table:
		if !control {
			p.syntaxError(p.tok.String() + " declarations are only allowed in controls")
			p.advance()
			return nil
		}
		if p.tok == _Action {
			return p.actionDecl()
		}
		return p.tableDecl()
	case _Bit, _Int, _Bool, _Name:
		pos := p.pos
		return p.varDecl(pos, p.type_())
	default:
		p.syntaxError("expected local declaration")
		p.advance()
		return nil
	}
}

// tableDecl parses a table with key, actions and default_action properties.
func (p *Parser) tableDecl() *TableDecl {
	d := &TableDecl{}
	d.pos = p.pos
	p.want(_Table)
	d.Name = p.name()
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		switch p.tok {
		case _Key:
			p.next()
			p.want(_Assign)
			p.want(_Lbrace)
			for p.tok != _Rbrace && p.tok != _EOF {
				k := &KeyElement{}
				k.pos = p.pos
				k.Expr = p.expr()
				p.want(_Colon)
				k.MatchKind = p.name()
				p.want(_Semi)
				d.Key = append(d.Key, k)
			}
			p.want(_Rbrace)
		case _Actions:
			p.next()
			p.want(_Assign)
			p.want(_Lbrace)
			for p.tok != _Rbrace && p.tok != _EOF {
				d.Actions = append(d.Actions, p.name())
				p.want(_Semi)
			}
			p.want(_Rbrace)
		case _DefaultAction:
			p.next()
			p.want(_Assign)
			d.DefaultAction = p.name()
			if p.got(_Lparen) {
				p.want(_Rparen)
			}
			p.want(_Semi)
		default:
			p.syntaxError("expected table property")
			p.advance()
			continue
		}
	}
	p.want(_Rbrace)
	return d
}

// stateDecl parses: state Name { Stmts transition ... }
func (p *Parser) stateDecl() *StateDecl {
	d := &StateDecl{}
	d.pos = p.pos
	p.want(_State)
	d.Name = p.name()
	p.want(_Lbrace)
	for !p.abort && p.tok != _Transition && p.tok != _Rbrace && p.tok != _EOF {
		d.Stmts = append(d.Stmts, p.stmt())
	}
	p.want(_Transition)
	if p.tok == _Select {
		d.Select = p.selectExpr()
	} else {
		d.Next = p.name()
		p.want(_Semi)
	}
	p.want(_Rbrace)
	return d
}

// selectExpr parses: select(e, ...) { keyset: state; ... }
func (p *Parser) selectExpr() *SelectExpr {
	x := &SelectExpr{}
	x.pos = p.pos
	p.want(_Select)
	p.want(_Lparen)
	x.Select = p.exprList()
	p.want(_Rparen)
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		c := &SelectCase{}
		c.pos = p.pos
		switch {
		case p.got(_Default):
		case p.got(_Lparen):
			c.Keys = p.exprList()
			p.want(_Rparen)
		default:
			c.Keys = []Expr{p.expr()}
		}
		p.want(_Colon)
		c.State = p.name()
		p.want(_Semi)
		x.Cases = append(x.Cases, c)
	}
	p.want(_Rbrace)
	return x
}

// ----------------------------------------------------------------------------
// Types

// type_ parses a type expression.
func (p *Parser) type_() Expr {
	var t Expr
	switch p.tok {
	case _Bit, _Int:
		bt := &BitType{Signed: p.tok == _Int}
		bt.pos = p.pos
		p.next()
		p.want(_Lss)
		bt.Width = p.intLit()
		p.want(_Gtr)
		t = bt

	case _Bool:
		bt := &BoolType{}
		bt.pos = p.pos
		p.next()
		t = bt

	case _Void:
		vt := &VoidType{}
		vt.pos = p.pos
		p.next()
		t = vt

	case _Name:
		t = p.name()

	default:
		p.syntaxError("expected type")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}

	// Header stack: T[N]
	for p.tok == _Lbrack {
		st := &StackType{Elem: t}
		st.pos = t.Pos()
		p.next()
		st.Size = p.intLit()
		p.want(_Rbrack)
		t = st
	}
	return t
}

// exprAsType reinterprets an expression parsed in statement position as
// a type, for declarations such as "H[2] stack;" that start like an
// expression. It returns nil if x cannot denote a type.
func exprAsType(x Expr) Expr {
	switch x := x.(type) {
	case *Name:
		return x
	case *IndexExpr:
		elem := exprAsType(x.X)
		size, ok := x.Index.(*BasicLit)
		if elem == nil || !ok || size.Kind != IntLit {
			return nil
		}
		st := &StackType{Elem: elem, Size: size}
		st.pos = x.pos
		return st
	}
	return nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()

	case _If:
		return p.ifStmt()

	case _Switch:
		return p.switchStmt()

	case _Return:
		return p.returnStmt()

	case _Exit:
		s := &ExitStmt{}
		s.pos = p.pos
		p.next()
		p.want(_Semi)
		return s

	case _Const:
		d := p.constDecl()
		s := &DeclStmt{Decl: d}
		s.pos = d.Pos()
		return s

	case _Bit, _Int, _Bool:
		pos := p.pos
		d := p.varDecl(pos, p.type_())
		s := &DeclStmt{Decl: d}
		s.pos = pos
		return s

	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		p.next()
		return s

	default:
		return p.simpleStmt()
	}
}

// simpleStmt parses an assignment, a call statement, or a variable
// declaration whose type is a name.
func (p *Parser) simpleStmt() Stmt {
	pos := p.pos
	x := p.expr()

	switch p.tok {
	case _Name:
		typ := exprAsType(x)
		if typ == nil {
			p.syntaxErrorAt(pos, "expected type in declaration")
			p.advance()
			return p.badStmt(pos)
		}
		d := p.varDecl(pos, typ)
		s := &DeclStmt{Decl: d}
		s.pos = pos
		return s

	case _Assign:
		s := &AssignStmt{LHS: x}
		s.pos = pos
		p.next()
		s.RHS = p.expr()
		p.want(_Semi)
		return s

	default:
		call, ok := x.(*CallExpr)
		if !ok {
			p.syntaxErrorAt(pos, "expression is not a statement")
			p.advance()
			return p.badStmt(pos)
		}
		s := &CallStmt{Call: call}
		s.pos = pos
		p.want(_Semi)
		return s
	}
}

// badStmt returns a placeholder statement for error recovery.
func (p *Parser) badStmt(pos Pos) Stmt {
	s := &EmptyStmt{}
	s.pos = pos
	return s
}

// blockStmt parses { stmts... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos

	p.want(_Lbrace)

	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		b.Stmts = append(b.Stmts, p.stmt())
	}

	b.Rbrace = p.pos
	p.want(_Rbrace)

	return b
}

// ifStmt parses: if (cond) stmt [else stmt]
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	p.want(_Lparen)
	s.Cond = p.expr()
	p.want(_Rparen)
	s.Then = p.stmt()

	if p.got(_Else) {
		s.Else = p.stmt()
	}

	return s
}

// switchStmt parses: switch (tag) { label: { ... } ... }
func (p *Parser) switchStmt() Stmt {
	s := &SwitchStmt{}
	s.pos = p.pos

	p.want(_Switch)
	p.want(_Lparen)
	s.Tag = p.expr()
	p.want(_Rparen)
	p.want(_Lbrace)
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		c := &SwitchCase{}
		c.pos = p.pos
		if !p.got(_Default) {
			c.Label = p.expr()
		}
		p.want(_Colon)
		c.Body = p.blockStmt()
		s.Cases = append(s.Cases, c)
	}
	p.want(_Rbrace)
	return s
}

// returnStmt parses: return [expr];
func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos

	p.want(_Return)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	p.want(_Semi)
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression, including the conditional operator.
func (p *Parser) expr() Expr {
	x := p.binaryExpr(0)
	if p.tok != _Question {
		return x
	}
	c := &CondExpr{Cond: x}
	c.pos = x.Pos()
	p.next()
	c.X = p.expr()
	p.want(_Colon)
	c.Y = p.expr()
	return c
}

// binaryExpr parses a binary expression with minimum precedence prec.
// Implements precedence climbing.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()

	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}

		// Binary expression position starts at the left operand.
		op := &Operation{Op: p.tok, X: x}
		op.pos = x.Pos()

		p.next()

		// Parse right operand with higher precedence (left associative)
		op.Y = p.binaryExpr(oprec)
		x = op
	}
}

// unaryExpr parses a unary expression.
func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub, _Tilde:
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.unaryExpr()
		return op

	default:
		return p.primaryExpr()
	}
}

// primaryExpr parses primary expressions and postfix operations.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()

	for {
		switch p.tok {
		case _Lparen:
			x = p.callExpr(x)

		case _Lbrack:
			x = p.indexExpr(x)

		case _Dot:
			x = p.selectorExpr(x)

		default:
			return x
		}
	}
}

// operand parses an operand (the base of primary expressions).
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		return p.name()

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.scanner.LitKind()}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen:
		// Parentheses only group; the printer restores them from precedence.
		p.next()
		x := p.expr()
		p.want(_Rparen)
		return x

	default:
		p.syntaxError("expected operand")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) Expr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.want(_Lparen)
	if p.tok != _Rparen {
		call.Args = p.exprList()
	}
	p.want(_Rparen)

	return call
}

// indexExpr parses X[Index]
func (p *Parser) indexExpr(x Expr) Expr {
	idx := &IndexExpr{X: x}
	idx.pos = x.Pos()

	p.want(_Lbrack)
	idx.Index = p.expr()
	p.want(_Rbrack)

	return idx
}

// selectorExpr parses X.Sel. "apply" is a keyword but also the name of
// the table method, so it is accepted as a selector.
func (p *Parser) selectorExpr(x Expr) Expr {
	sel := &SelectorExpr{X: x}
	sel.pos = x.Pos()

	p.want(_Dot)
	if p.tok == _Apply {
		n := &Name{Value: "apply"}
		n.pos = p.pos
		p.next()
		sel.Sel = n
		return sel
	}
	sel.Sel = p.name()

	return sel
}

// exprList parses a comma-separated list of expressions.
func (p *Parser) exprList() []Expr {
	list := []Expr{p.expr()}
	for p.got(_Comma) {
		list = append(list, p.expr())
	}
	return list
}
