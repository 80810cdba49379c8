// Package expr compiles and evaluates algebraic expressions over numeric
// variables.  Variables are bound at compile time to storage supplied by a
// Resolver, so an Expression always evaluates against the current values
// held in that storage.
package expr

import (
	"fmt"
	"strings"
)

// MaxDepth bounds the nesting of an expression.  Each operand after the
// first in a chain of binary operators counts as one level.
const MaxDepth = 256

// A Resolver maps an identifier to the storage bound to it.
type Resolver interface {
	Resolve(name string) (*float64, bool)
}

// CompileError reports an expression that cannot be compiled.
type CompileError struct {
	Pos int
	Msg string
}

func (c *CompileError) Error() string {
	return fmt.Sprintf("position %d: %s", c.Pos, c.Msg)
}

// EvalError reports a fault raised while evaluating an expression.
type EvalError struct {
	Func string
	Msg  string
}

func (e *EvalError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%s: %s", e.Func, e.Msg)
	}
	return e.Msg
}

// Expression is a compiled expression.
type Expression struct {
	source string
	root   node
	vars   []string
}

// Compile parses source and binds each variable it references using
// resolver.  Identifiers not known to resolver are looked up among the
// builtin constants.
func Compile(source string, resolver Resolver) (*Expression, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &CompileError{Msg: "empty expression"}
	}
	l := &lexer{src: source}
	toks, err := l.tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:     toks,
		resolver: resolver,
		bound:    make(map[string]*variable),
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Expression{
		source: source,
		root:   root,
		vars:   p.vars,
	}, nil
}

// Eval evaluates e against the current values of its variables.  A fault
// raised by a builtin function is returned as an *EvalError.
func (e *Expression) Eval() (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			evalErr, ok := r.(*EvalError)
			if !ok {
				panic(r)
			}
			err = evalErr
		}
	}()
	return e.root.eval(), nil
}

// Source returns the text e was compiled from.
func (e *Expression) Source() string {
	return e.source
}

// Variables returns the bound identifiers referenced by e in order of
// first appearance.
func (e *Expression) Variables() []string {
	return e.vars
}
