package binding

import (
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

// Sanitize maps a datapoint name to an expression identifier.  ASCII
// letters, digits and '.' are kept; every other byte is replaced by "0X"
// followed by its value as two lowercase hex digits.  A leading digit is
// escaped as well so that the identifier never lexes as a number.
func Sanitize(raw string) string {
	if isPlain(raw) {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw) * 2)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isPlainByte(c) && !(i == 0 && isDigit(c)) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("0X")
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xf])
	}
	return b.String()
}

func isPlain(s string) bool {
	if s != "" && isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isPlainByte(s[i]) {
			return false
		}
	}
	return true
}

func isPlainByte(c byte) bool {
	return c == '.' || isDigit(c) || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Qualify returns the raw qualified name of a datapoint.
func Qualify(asset, name string) string {
	return asset + "." + name
}

// A Rewriter owns the source text of an expression and sanitizes datapoint
// names into identifiers.  Each raw name is sanitized once.  The first time
// a name is seen whose identifier differs from it, every occurrence of the
// raw name in the source is replaced with the identifier so that an
// expression written with natural datapoint names still compiles.
type Rewriter struct {
	source string
	gen    uint64
	idents map[string]string
}

func NewRewriter(source string) *Rewriter {
	return &Rewriter{
		source: source,
		idents: make(map[string]string),
	}
}

// Identifier returns the identifier for raw.
func (r *Rewriter) Identifier(raw string) string {
	if id, ok := r.idents[raw]; ok {
		return id
	}
	id := Sanitize(raw)
	r.idents[raw] = id
	r.replace(raw, id)
	return id
}

// Qualified returns the identifier for name qualified by asset.  Besides
// the raw qualified name, the source is searched for the asset followed by
// the sanitized name, which is what an earlier rewrite of the short name
// leaves behind.
func (r *Rewriter) Qualified(asset, name string) string {
	raw := Qualify(asset, name)
	if id, ok := r.idents[raw]; ok {
		return id
	}
	id := Qualify(Sanitize(asset), Sanitize(name))
	r.idents[raw] = id
	r.replace(raw, id)
	if partial := Qualify(asset, Sanitize(name)); partial != raw {
		r.replace(partial, id)
	}
	return id
}

// replace substitutes id for every occurrence of raw in the source.  A raw
// name that reads as a number is left alone since it cannot be told apart
// from a numeric literal.  A raw name that starts with a digit is replaced
// only where it does not continue another identifier or number.
func (r *Rewriter) replace(raw, id string) {
	if raw == id || !strings.Contains(r.source, raw) {
		return
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return
	}
	if !isDigit(raw[0]) {
		r.source = strings.ReplaceAll(r.source, raw, id)
		r.gen++
		return
	}
	src := r.source
	var b strings.Builder
	var last, i int
	for {
		j := strings.Index(src[i:], raw)
		if j < 0 {
			break
		}
		j += i
		if j > 0 && isWordByte(src[j-1]) {
			i = j + 1
			continue
		}
		b.WriteString(src[last:j])
		b.WriteString(id)
		last = j + len(raw)
		i = last
	}
	if last == 0 {
		return
	}
	b.WriteString(src[last:])
	r.source = b.String()
	r.gen++
}

func isWordByte(c byte) bool {
	return c == '_' || isPlainByte(c)
}

// Source returns the current, possibly rewritten, expression source.
func (r *Rewriter) Source() string {
	return r.source
}

// Generation is incremented each time the source is rewritten.
func (r *Rewriter) Generation() uint64 {
	return r.gen
}
