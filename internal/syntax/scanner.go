package syntax

import (
	"fmt"
	"io"
)

// Scanner performs lexical analysis on P4 source code.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number text, annotation name)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{
		source: *newSource(filename, src, errh),
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '@':
		s.nextch()
		if !isLetter(s.ch) {
			s.error("expected annotation name after @")
			goto redo
		}
		s.scanIdent()
		s.tok = _Annotation

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// scanIdent scans an identifier, keyword, or boolean literal.
func (s *Scanner) scanIdent() {
	s.start()
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}

	s.lit = string(s.segment())
	if s.lit == "true" || s.lit == "false" {
		s.tok = _Literal
		s.kind = BoolLit
		return
	}
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an integer literal, including the width-prefixed
// forms 8w5 and 4s3. The literal text is kept verbatim; the type checker
// decodes width, signedness and value.
func (s *Scanner) scanNumber() {
	s.start()
	s.kind = IntLit

	s.scanValue()
	if s.ch == 'w' || s.ch == 's' {
		if width := s.segment(); len(width) > 1 && width[0] == '0' {
			s.error("invalid width prefix")
		}
		s.nextch()
		if !isDigit(s.ch) {
			s.error("missing value after width prefix")
		} else {
			s.scanValue()
		}
	}

	s.lit = string(s.segment())
	s.tok = _Literal
}

// scanValue scans one unsized integer: decimal, or 0x / 0o / 0b prefixed.
func (s *Scanner) scanValue() {
	if s.ch != '0' {
		s.scanDigits(isDigit, "decimal")
		return
	}

	s.nextch()
	switch lower(s.ch) {
	case 'x':
		s.nextch()
		s.scanDigits(isHexDigit, "hex")
	case 'o':
		s.nextch()
		s.scanDigits(isOctalDigit, "octal")
	case 'b':
		s.nextch()
		s.scanDigits(isBinaryDigit, "binary")
		if isDigit(s.ch) {
			s.error("invalid binary digit")
		}
	default:
		for isDigit(s.ch) {
			s.nextch()
		}
	}
}

// scanDigits scans a non-empty run of digits accepted by ok.
func (s *Scanner) scanDigits(ok func(rune) bool, what string) {
	if !ok(s.ch) {
		s.error("invalid " + what + " digit")
		return
	}
	for ok(s.ch) || s.ch == '_' {
		s.nextch()
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok, s.lit = _Add, "+"
	case '-':
		s.tok, s.lit = _Sub, "-"
	case '*':
		s.tok, s.lit = _Mul, "*"
	case '/':
		switch s.ch {
		case '/':
			s.skipLineComment()
			return true
		case '*':
			s.skipBlockComment()
			return true
		}
		s.tok, s.lit = _Div, "/"
	case '%':
		s.tok, s.lit = _Rem, "%"
	case '&':
		if s.ch == '&' {
			s.nextch()
			s.tok, s.lit = _AndAnd, "&&"
		} else {
			s.tok, s.lit = _And, "&"
		}
	case '|':
		if s.ch == '|' {
			s.nextch()
			s.tok, s.lit = _OrOr, "||"
		} else {
			s.tok, s.lit = _Or, "|"
		}
	case '^':
		s.tok, s.lit = _Xor, "^"
	case '~':
		s.tok, s.lit = _Tilde, "~"
	case '<':
		switch s.ch {
		case '=':
			s.nextch()
			s.tok, s.lit = _Leq, "<="
		case '<':
			s.nextch()
			s.tok, s.lit = _Shl, "<<"
		default:
			s.tok, s.lit = _Lss, "<"
		}
	case '>':
		switch s.ch {
		case '=':
			s.nextch()
			s.tok, s.lit = _Geq, ">="
		case '>':
			s.nextch()
			s.tok, s.lit = _Shr, ">>"
		default:
			s.tok, s.lit = _Gtr, ">"
		}
	case '=':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Eql, "=="
		} else {
			s.tok, s.lit = _Assign, "="
		}
	case '!':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Neq, "!="
		} else {
			s.tok, s.lit = _Not, "!"
		}
	case '?':
		s.tok, s.lit = _Question, "?"
	case ':':
		s.tok, s.lit = _Colon, ":"
	case '(':
		s.tok, s.lit = _Lparen, "("
	case ')':
		s.tok, s.lit = _Rparen, ")"
	case '[':
		s.tok, s.lit = _Lbrack, "["
	case ']':
		s.tok, s.lit = _Rbrack, "]"
	case '{':
		s.tok, s.lit = _Lbrace, "{"
	case '}':
		s.tok, s.lit = _Rbrace, "}"
	case ',':
		s.tok, s.lit = _Comma, ","
	case ';':
		s.tok, s.lit = _Semi, ";"
	case '.':
		s.tok, s.lit = _Dot, "."
	}

	return false
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// skipBlockComment skips a /* */ comment. Block comments do not nest.
func (s *Scanner) skipBlockComment() {
	s.nextch()
	for s.ch >= 0 {
		if s.ch == '*' {
			s.nextch()
			if s.ch == '/' {
				s.nextch()
				return
			}
			continue
		}
		s.nextch()
	}
	s.error("comment not terminated")
}
