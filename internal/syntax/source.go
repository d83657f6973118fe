package syntax

import (
	"io"
	"unicode/utf8"
)

// source reads characters from an in-memory buffer and tracks their
// positions. Token text is sliced out of the buffer with start and
// segment rather than copied character by character.
type source struct {
	buf      []byte
	filename string

	ch     rune   // current character, -1 at EOF
	chOffs int    // offset of ch in buf
	offs   int    // offset of the byte after ch
	line   uint32 // position of ch, 1-based
	col    uint32 // column of ch, 1-based byte offset
	b      int    // start of the current segment, -1 if none

	errh func(line, col uint32, msg string)
}

// newSource reads all of src. errh receives lexical errors; nil
// discards them.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{filename: filename, line: 1, ch: -1, b: -1, errh: errh}
	buf, err := io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		return s
	}
	s.buf = buf
	s.nextch()
	return s
}

// nextch advances to the next character. Identifiers, numbers and
// operators are ASCII; other characters are decoded only so comments
// can hold them.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOffs = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}
	if c := s.buf[s.offs]; c < utf8.RuneSelf {
		s.ch = rune(c)
		s.offs++
		return
	}
	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
	}
	s.ch = r
	s.offs += w
}

// start begins a segment at the current character.
func (s *source) start() { s.b = s.chOffs }

// segment returns the text from start up to, not including, the
// current character.
func (s *source) segment() []byte { return s.buf[s.b:s.chOffs] }

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// Character classification helpers

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

func isOctalDigit(r rune) bool {
	return '0' <= r && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

// lower returns the lowercase version of r if r is an ASCII letter.
// ('a' - 'A') is 0x20; OR-ing it in folds uppercase ASCII to lowercase.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports whether r is a whitespace character.
// Newlines are ordinary whitespace: P4 statements end with explicit semicolons.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isOperatorStart reports whether r can start an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '&', '|', '^', '~', '<', '>', '=', '!', '?', ':',
		'(', ')', '[', ']', '{', '}', ',', ';', '.':
		return true
	}
	return false
}
