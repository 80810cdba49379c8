package binding

import (
	"errors"
	"math"
)

// DefaultMaxVars is the default capacity of a Table.
const DefaultMaxVars = 1024

var ErrCapacityExceeded = errors.New("too many variables")

// Slot is the storage bound to one identifier.  A compiled expression
// reads a slot's value through the pointer returned by Table.Resolve, so
// a slot never moves once declared.
type Slot struct {
	name  string
	value float64
}

func (s *Slot) Name() string {
	return s.name
}

func (s *Slot) Value() float64 {
	return s.value
}

func (s *Slot) Set(v float64) {
	s.value = v
}

// Table is an append-only, ordered set of identifier bindings with a
// maximum size.  Slots are kept in declaration order.
type Table struct {
	max   int
	slots []*Slot
	index map[string]*Slot
	gen   uint64
}

func NewTable(max int) *Table {
	if max <= 0 {
		max = DefaultMaxVars
	}
	return &Table{
		max:   max,
		index: make(map[string]*Slot),
	}
}

// Declare binds name to a new slot holding NaN and returns it.  If name is
// already bound, its existing slot is returned.  Declare returns
// ErrCapacityExceeded when the table is full.
func (t *Table) Declare(name string) (*Slot, error) {
	if slot, ok := t.index[name]; ok {
		return slot, nil
	}
	if len(t.slots) >= t.max {
		return nil, ErrCapacityExceeded
	}
	slot := &Slot{name: name, value: math.NaN()}
	t.slots = append(t.slots, slot)
	t.index[name] = slot
	t.gen++
	return slot, nil
}

func (t *Table) Lookup(name string) (*Slot, bool) {
	slot, ok := t.index[name]
	return slot, ok
}

// Resolve returns the storage bound to name.  It allows a Table to serve
// as the symbol resolver of a compiled expression.
func (t *Table) Resolve(name string) (*float64, bool) {
	slot, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &slot.value, true
}

// Undefine sets every slot to NaN.
func (t *Table) Undefine() {
	for _, slot := range t.slots {
		slot.value = math.NaN()
	}
}

// Reset removes all bindings.  Expressions compiled against the table
// before a Reset must not be evaluated afterward.
func (t *Table) Reset() {
	t.slots = nil
	t.index = make(map[string]*Slot)
	t.gen++
}

// Names returns the bound identifiers in declaration order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.slots))
	for _, slot := range t.slots {
		names = append(names, slot.name)
	}
	return names
}

func (t *Table) Len() int {
	return len(t.slots)
}

func (t *Table) Max() int {
	return t.max
}

// Room returns the number of identifiers that may still be declared.
func (t *Table) Room() int {
	return t.max - len(t.slots)
}

// Generation changes whenever the set of bindings changes.
func (t *Table) Generation() uint64 {
	return t.gen
}
