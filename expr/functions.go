package expr

import (
	"math"
)

type function struct {
	name    string
	minArgs int
	maxArgs int // -1 for variadic
	impl    func([]float64) float64
}

func fn1(name string, f func(float64) float64) *function {
	return &function{name, 1, 1, func(a []float64) float64 { return f(a[0]) }}
}

func fn2(name string, f func(float64, float64) float64) *function {
	return &function{name, 2, 2, func(a []float64) float64 { return f(a[0], a[1]) }}
}

func variadic(name string, f func([]float64) float64) *function {
	return &function{name, 1, -1, f}
}

var functions = map[string]*function{}

func init() {
	for _, f := range []*function{
		fn1("abs", math.Abs),
		fn1("acos", math.Acos),
		fn1("asin", math.Asin),
		fn1("atan", math.Atan),
		fn2("atan2", math.Atan2),
		variadic("avg", func(a []float64) float64 { return sum(a) / float64(len(a)) }),
		fn1("ceil", math.Ceil),
		{"clamp", 3, 3, func(a []float64) float64 { return clamp(a[0], a[1], a[2]) }},
		fn1("cos", math.Cos),
		fn1("cosh", math.Cosh),
		fn1("deg2rad", func(x float64) float64 { return x * math.Pi / 180 }),
		fn1("erf", math.Erf),
		fn1("exp", math.Exp),
		fn1("fact", factorial),
		fn1("floor", math.Floor),
		fn1("frac", func(x float64) float64 { _, f := math.Modf(x); return f }),
		variadic("hypot", func(a []float64) float64 {
			var h float64
			for _, x := range a {
				h = math.Hypot(h, x)
			}
			return h
		}),
		fn1("log", math.Log),
		fn1("log10", math.Log10),
		fn1("log1p", math.Log1p),
		fn1("log2", math.Log2),
		fn2("logn", func(x, n float64) float64 { return math.Log(x) / math.Log(n) }),
		variadic("max", func(a []float64) float64 { return reduce(a, math.Max) }),
		variadic("min", func(a []float64) float64 { return reduce(a, math.Min) }),
		fn2("ncr", ncr),
		fn2("npr", npr),
		fn2("pow", math.Pow),
		fn1("rad2deg", func(x float64) float64 { return x * 180 / math.Pi }),
		fn2("root", func(x, n float64) float64 { return math.Pow(x, 1/n) }),
		fn1("round", math.Round),
		fn2("roundn", func(x, n float64) float64 {
			p := math.Pow(10, math.Trunc(n))
			return math.Round(x*p) / p
		}),
		fn1("sgn", sgn),
		fn1("sin", math.Sin),
		fn1("sinh", math.Sinh),
		fn1("sqrt", math.Sqrt),
		variadic("sum", sum),
		fn1("tan", math.Tan),
		fn1("tanh", math.Tanh),
		fn1("trunc", math.Trunc),
	} {
		functions[f.name] = f
	}
}

var constants = map[string]float64{
	"pi":      math.Pi,
	"epsilon": 1e-10,
	"inf":     math.Inf(1),
}

func sum(a []float64) float64 {
	var s float64
	for _, x := range a {
		s += x
	}
	return s
}

func reduce(a []float64, f func(float64, float64) float64) float64 {
	r := a[0]
	for _, x := range a[1:] {
		r = f(r, x)
	}
	return r
}

func clamp(lo, x, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

// whole returns x as a non-negative integer or raises an evaluation error.
// NaN passes through so that undefined inputs yield an undefined result
// rather than a fault.
func whole(fn string, x float64) (float64, bool) {
	if math.IsNaN(x) {
		return x, false
	}
	if x < 0 || x != math.Trunc(x) || math.IsInf(x, 0) {
		panic(&EvalError{Func: fn, Msg: "argument must be a non-negative integer"})
	}
	return x, true
}

func factorial(x float64) float64 {
	n, ok := whole("fact", x)
	if !ok {
		return math.NaN()
	}
	r := 1.0
	for i := 2.0; i <= n && !math.IsInf(r, 1); i++ {
		r *= i
	}
	return r
}

func npr(x, y float64) float64 {
	n, ok1 := whole("npr", x)
	r, ok2 := whole("npr", y)
	if !ok1 || !ok2 {
		return math.NaN()
	}
	if r > n {
		return 0
	}
	p := 1.0
	for i := n - r + 1; i <= n && !math.IsInf(p, 1); i++ {
		p *= i
	}
	return p
}

func ncr(x, y float64) float64 {
	n, ok1 := whole("ncr", x)
	r, ok2 := whole("ncr", y)
	if !ok1 || !ok2 {
		return math.NaN()
	}
	if r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	c := 1.0
	for i := 1.0; i <= r && !math.IsInf(c, 1); i++ {
		c = c * (n - r + i) / i
	}
	return math.Round(c)
}
