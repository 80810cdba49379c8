package expr

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokQuestion
	tokColon
)

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokNumber, tokIdent:
		return fmt.Sprintf("%q", t.text)
	}
	return fmt.Sprintf("'%s'", t.text)
}

// Two and one character operators.  Longer operators are listed first so
// the lexer matches greedily.
var operators = []string{
	"<=", ">=", "==", "!=", "<>", "&&", "||",
	"+", "-", "*", "/", "%", "^", "<", ">", "=", "!",
}

// wordOps are the operators spelled as words.  They are recognized only
// as whole identifiers.
var wordOps = map[string]string{
	"and": "&&",
	"or":  "||",
	"not": "!",
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) errorf(pos int, format string, args ...interface{}) error {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) tokens() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case isEscapeStart(l.src[l.pos:]):
		return l.ident(), nil
	case isDigit(c) || c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.number()
	case isIdentStart(c):
		tok := l.ident()
		if op, ok := wordOps[tok.text]; ok {
			return token{kind: tokOp, pos: start, text: op}, nil
		}
		return tok, nil
	}
	l.pos++
	switch c {
	case '(':
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	case ',':
		return token{kind: tokComma, pos: start, text: ","}, nil
	case '?':
		return token{kind: tokQuestion, pos: start, text: "?"}, nil
	case ':':
		return token{kind: tokColon, pos: start, text: ":"}, nil
	}
	l.pos = start
	for _, op := range operators {
		if len(l.src)-start >= len(op) && l.src[start:start+len(op)] == op {
			l.pos = start + len(op)
			if op == "=" {
				op = "=="
			}
			if op == "<>" {
				op = "!="
			}
			return token{kind: tokOp, pos: start, text: op}, nil
		}
	}
	return token{}, l.errorf(start, "unexpected character %q", c)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) ident() token {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, pos: start, text: l.src[start:l.pos]}
}

func (l *lexer) number() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			// Not an exponent, e.g., "2e" is a number followed by
			// an identifier, which the parser rejects.
			l.pos = mark
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, l.errorf(start, "bad number %q", text)
	}
	return token{kind: tokNumber, pos: start, text: text, num: f}, nil
}

// isEscapeStart returns true if s begins with a sanitizer escape sequence,
// i.e., "0X" followed by two hex digits, which starts an identifier rather
// than a number.
func isEscapeStart(s string) bool {
	return len(s) >= 4 && s[0] == '0' && s[1] == 'X' && isHex(s[2]) && isHex(s[3])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}
