package expr

import (
	"math"
)

// node is one vertex of a compiled expression tree.
type node interface {
	eval() float64
}

type literal float64

func (l literal) eval() float64 {
	return float64(l)
}

// variable reads the live value of a bound slot.
type variable struct {
	name string
	ptr  *float64
}

func (v *variable) eval() float64 {
	return *v.ptr
}

type unary struct {
	op      string
	operand node
}

func (u *unary) eval() float64 {
	x := u.operand.eval()
	switch u.op {
	case "-":
		return -x
	case "!":
		return boolean(!truth(x))
	}
	return x
}

type binary struct {
	op  string
	lhs node
	rhs node
}

func (b *binary) eval() float64 {
	switch b.op {
	case "&&":
		return boolean(truth(b.lhs.eval()) && truth(b.rhs.eval()))
	case "||":
		return boolean(truth(b.lhs.eval()) || truth(b.rhs.eval()))
	}
	x, y := b.lhs.eval(), b.rhs.eval()
	switch b.op {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case "%":
		return math.Mod(x, y)
	case "^":
		return math.Pow(x, y)
	case "<":
		return boolean(x < y)
	case "<=":
		return boolean(x <= y)
	case ">":
		return boolean(x > y)
	case ">=":
		return boolean(x >= y)
	case "==":
		return boolean(x == y)
	case "!=":
		return boolean(x != y)
	}
	panic("expr: unknown binary operator " + b.op)
}

// conditional evaluates only the selected branch.
type conditional struct {
	cond node
	then node
	els  node
}

func (c *conditional) eval() float64 {
	if truth(c.cond.eval()) {
		return c.then.eval()
	}
	return c.els.eval()
}

type call struct {
	fn   *function
	args []node
	vals []float64
}

func (c *call) eval() float64 {
	vals := c.vals[:0]
	for _, arg := range c.args {
		vals = append(vals, arg.eval())
	}
	return c.fn.impl(vals)
}

// truth is the boolean interpretation of a number: non-zero and not NaN.
func truth(x float64) bool {
	return x != 0 && !math.IsNaN(x)
}

func boolean(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
