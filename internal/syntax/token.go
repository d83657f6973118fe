// Package syntax implements lexical and syntactic analysis for a subset of P4-16.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error

	// Literals
	_Name       // identifier: hdr, ingress, tmp_0
	_Literal    // literal value (used with LitKind)
	_Annotation // @name

	// Operators (ordered by precedence, low to high)
	_Assign   // =
	_Question // ?

	// Logical operators
	_OrOr   // ||
	_AndAnd // &&

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Bitwise operators
	_Or  // |
	_Xor // ^
	_And // &
	_Shl // <<
	_Shr // >>

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Mul // *
	_Div // /
	_Rem // %

	// Unary operators
	_Not   // !
	_Tilde // ~

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// Keywords
	_Action
	_Actions
	_Apply
	_Bit
	_Bool
	_Const
	_Control
	_Default
	_DefaultAction
	_Else
	_Enum
	_Exit
	_Extern
	_Header
	_If
	_In
	_InOut
	_Int
	_Key
	_Out
	_Parser
	_Return
	_Select
	_State
	_Struct
	_Switch
	_Table
	_Transition
	_Void

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:       "NAME",
	_Literal:    "LITERAL",
	_Annotation: "ANNOTATION",

	_Assign:   "=",
	_Question: "?",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Or:  "|",
	_Xor: "^",
	_And: "&",
	_Shl: "<<",
	_Shr: ">>",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Not:   "!",
	_Tilde: "~",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_Action:        "action",
	_Actions:       "actions",
	_Apply:         "apply",
	_Bit:           "bit",
	_Bool:          "bool",
	_Const:         "const",
	_Control:       "control",
	_Default:       "default",
	_DefaultAction: "default_action",
	_Else:          "else",
	_Enum:          "enum",
	_Exit:          "exit",
	_Extern:        "extern",
	_Header:        "header",
	_If:            "if",
	_In:            "in",
	_InOut:         "inout",
	_Int:           "int",
	_Key:           "key",
	_Out:           "out",
	_Parser:        "parser",
	_Return:        "return",
	_Select:        "select",
	_State:         "state",
	_Struct:        "struct",
	_Switch:        "switch",
	_Table:         "table",
	_Transition:    "transition",
	_Void:          "void",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the operator precedence for binary operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: ||
//	2: &&
//	3: == != < <= > >=
//	4: |
//	5: ^
//	6: &
//	7: << >>
//	8: + -
//	9: * / %
//
// The conditional operator ?: binds looser than all of them and is
// handled separately by the parser.
func (t Token) Precedence() int {
	switch t {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
		return 3
	case _Or:
		return 4
	case _Xor:
		return 5
	case _And:
		return 6
	case _Shl, _Shr:
		return 7
	case _Add, _Sub:
		return 8
	case _Mul, _Div, _Rem:
		return 9
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Action && t <= _Void
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Tilde
}

// IsShortCircuit reports whether t is one of the short-circuit
// operators && and ||.
func (t Token) IsShortCircuit() bool {
	return t == _AndAnd || t == _OrOr
}

// IsComparison reports whether t is a comparison operator.
func (t Token) IsComparison() bool {
	return t >= _Eql && t <= _Geq
}

// Exported operator tokens for the type checker and later passes.
const (
	OrOr   Token = _OrOr
	AndAnd Token = _AndAnd
	Eql    Token = _Eql
	Neq    Token = _Neq
	Lss    Token = _Lss
	Leq    Token = _Leq
	Gtr    Token = _Gtr
	Geq    Token = _Geq
	Or     Token = _Or
	Xor    Token = _Xor
	And    Token = _And
	Shl    Token = _Shl
	Shr    Token = _Shr
	Add    Token = _Add
	Sub    Token = _Sub
	Mul    Token = _Mul
	Div    Token = _Div
	Rem    Token = _Rem
	Not    Token = _Not
	Tilde  Token = _Tilde
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit  LitKind = iota // 5, 0x1F, 8w5, 4s3
	BoolLit                // true, false
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:  "int",
	BoolLit: "bool",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= BoolLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// true and false are scanned as BoolLit literals, not keywords.
var keywords = map[string]Token{
	"action":         _Action,
	"actions":        _Actions,
	"apply":          _Apply,
	"bit":            _Bit,
	"bool":           _Bool,
	"const":          _Const,
	"control":        _Control,
	"default":        _Default,
	"default_action": _DefaultAction,
	"else":           _Else,
	"enum":           _Enum,
	"exit":           _Exit,
	"extern":         _Extern,
	"header":         _Header,
	"if":             _If,
	"in":             _In,
	"inout":          _InOut,
	"int":            _Int,
	"key":            _Key,
	"out":            _Out,
	"parser":         _Parser,
	"return":         _Return,
	"select":         _Select,
	"state":          _State,
	"struct":         _Struct,
	"switch":         _Switch,
	"table":          _Table,
	"transition":     _Transition,
	"void":           _Void,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
