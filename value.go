package zexpr

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a datapoint value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	// KindJSON holds a nested JSON object or array that is carried
	// through untouched.
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindJSON:
		return "json"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is an immutable datapoint value.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

var Null = Value{}

func NewInt(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func NewFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

func NewBool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// NewJSON returns a value wrapping the raw JSON text b.
func NewJSON(b []byte) Value {
	return Value{kind: KindJSON, s: string(b)}
}

func (v Value) Kind() Kind {
	return v.kind
}

// IsNumeric returns true for integer and float values, i.e., the values
// that may be bound to expression variables.
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// AsFloat returns v as a float64 and true if v is numeric.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return math.NaN(), false
}

func (v Value) Int() int64 {
	return v.i
}

func (v Value) Float() float64 {
	return v.f
}

func (v Value) Bool() bool {
	return v.kind == KindBool && v.i != 0
}

// Text returns the string payload of a string value or the raw text of
// a JSON value.
func (v Value) Text() string {
	return v.s
}

// String implements fmt.Stringer.String.  It should only be used for logs,
// debugging, etc.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return strconv.Quote(v.s)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindJSON:
		return v.s
	}
	return "null"
}

// FormatFloat formats f so that it always reads back as a float, i.e., it
// carries a decimal point or an exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	return s + ".0"
}
