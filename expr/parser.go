package expr

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// parser is a precedence climbing parser over the token stream of one
// expression.  Binding of identifiers happens while parsing.
type parser struct {
	toks     []token
	pos      int
	depth    int
	resolver Resolver
	bound    map[string]*variable
	vars     []string
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &CompileError{Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.advance()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", what, tok)
	}
	return tok, nil
}

func (p *parser) parse() (node, error) {
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok)
	}
	return n, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorf(p.peek(), "expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseTernary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.advance()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &conditional{cond, then, els}, nil
}

// Binary operator precedence levels, lowest first.
var levels = []map[string]bool{
	{"||": true},
	{"&&": true},
	{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true},
	{"+": true, "-": true},
	{"*": true, "/": true, "%": true},
}

func (p *parser) parseBinary(level int) (node, error) {
	if level == len(levels) {
		return p.parseUnary()
	}
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	// Each operand of a chain deepens the left leaning tree by one.
	var chain int
	defer func() { p.depth -= chain }()
	for {
		tok := p.peek()
		if tok.kind != tokOp || !levels[level][tok.text] {
			return lhs, nil
		}
		chain++
		if err := p.enter(); err != nil {
			return nil, err
		}
		p.advance()
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		lhs = &binary{tok.text, lhs, rhs}
	}
}

func (p *parser) parseUnary() (node, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+" || tok.text == "!") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(literal); ok && tok.text == "-" {
			return -lit, nil
		}
		return &unary{tok.text, operand}, nil
	}
	return p.parsePower()
}

// parsePower handles the right associative '^' operator, which binds more
// tightly than unary minus on its left, so -2^2 is -4.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokOp || tok.text != "^" {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binary{"^", base, exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		return literal(tok.num), nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		n, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok)
		}
		return p.bind(tok)
	}
	return nil, p.errorf(tok, "unexpected %s", tok)
}

func (p *parser) bind(tok token) (node, error) {
	if v, ok := p.bound[tok.text]; ok {
		return v, nil
	}
	if p.resolver != nil {
		if ptr, ok := p.resolver.Resolve(tok.text); ok {
			v := &variable{name: tok.text, ptr: ptr}
			p.bound[tok.text] = v
			p.vars = append(p.vars, tok.text)
			return v, nil
		}
	}
	if c, ok := constants[tok.text]; ok {
		return literal(c), nil
	}
	return nil, p.errorf(tok, "undefined symbol %s", tok)
}

func (p *parser) parseCall(name token) (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.advance() // '('
	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if name.text == "if" {
		if len(args) != 3 {
			return nil, p.errorf(name, "if: expected 3 arguments, found %d", len(args))
		}
		return &conditional{args[0], args[1], args[2]}, nil
	}
	fn, ok := functions[name.text]
	if !ok {
		if guess := nearestFunction(name.text); guess != "" {
			return nil, p.errorf(name, "unknown function %s (did you mean %q?)", name, guess)
		}
		return nil, p.errorf(name, "unknown function %s", name)
	}
	if len(args) < fn.minArgs || fn.maxArgs >= 0 && len(args) > fn.maxArgs {
		return nil, p.errorf(name, "%s: wrong number of arguments (%d)", fn.name, len(args))
	}
	return &call{fn: fn, args: args, vals: make([]float64, 0, len(args))}, nil
}

// nearestFunction returns the builtin whose name is one edit away from
// name, or "" if there is none.
func nearestFunction(name string) string {
	names := make([]string, 0, len(functions)+1)
	for fn := range functions {
		names = append(names, fn)
	}
	names = append(names, "if")
	sort.Strings(names)
	for _, fn := range names {
		if levenshtein.ComputeDistance(name, fn) == 1 {
			return fn
		}
	}
	return ""
}
