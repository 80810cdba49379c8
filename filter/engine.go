package filter

import (
	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/binding"
	"github.com/brimdata/zexpr/expr"
	"go.uber.org/zap"
)

// engine holds the state derived from one filter configuration: the
// expression source, the binding table, and the compiled expression.
// An engine is replaced, never mutated, when the configuration changes.
type engine struct {
	logger   *zap.Logger
	metrics  *metrics
	name     string
	rewriter *binding.Rewriter
	table    *binding.Table

	compiled *expr.Expression
	key      cacheKey
	fresh    bool
	// report is cleared after a compile failure is logged so that a bad
	// expression is reported once per configuration.
	report bool
	// capacityWarned is set once the capacity warning has been logged
	// for the current batch.
	capacityWarned bool
}

// cacheKey identifies the inputs of a compilation.
type cacheKey struct {
	source uint64
	table  uint64
}

func newEngine(conf Config, logger *zap.Logger, m *metrics) *engine {
	return &engine{
		logger:   logger,
		metrics:  m,
		name:     conf.Name,
		rewriter: binding.NewRewriter(conf.Expression),
		table:    binding.NewTable(conf.maxVars()),
		report:   true,
	}
}

func (e *engine) process(batch []*zexpr.Reading) {
	if len(batch) == 0 {
		return
	}
	e.capacityWarned = false
	e.seed(batch[0])
	e.refresh()
	for _, r := range batch {
		e.bind(r)
		e.refresh()
		e.evaluate(r)
	}
	e.metrics.readings.Add(float64(len(batch)))
	e.metrics.bound.Set(float64(e.table.Len()))
}

// identifiers returns the short and qualified identifiers of datapoint
// name in reading r.  The qualified name is sanitized first so that its
// occurrences in the source are rewritten before those of the short name,
// which is a substring of it.
func (e *engine) identifiers(r *zexpr.Reading, name string) (string, string) {
	qualified := e.rewriter.Qualified(r.Asset, name)
	short := e.rewriter.Identifier(name)
	return short, qualified
}

// seed declares the identifiers of every numeric datapoint in r.
func (e *engine) seed(r *zexpr.Reading) {
	for _, dp := range r.Datapoints {
		if !dp.Value.IsNumeric() {
			continue
		}
		short, qualified := e.identifiers(r, dp.Name)
		missing := e.missing(short, qualified)
		if len(missing) == 0 {
			continue
		}
		if len(missing) > e.table.Room() {
			e.warnCapacity(r)
			return
		}
		for _, id := range missing {
			e.declare(id)
		}
	}
}

// bind loads the values of r's numeric datapoints into their slots,
// declaring identifiers for datapoints not seen before.
func (e *engine) bind(r *zexpr.Reading) {
	e.table.Undefine()
	for _, dp := range r.Datapoints {
		val, ok := dp.Value.AsFloat()
		if !ok {
			continue
		}
		short, qualified := e.identifiers(r, dp.Name)
		if slot, ok := e.table.Lookup(short); ok {
			slot.Set(val)
		}
		if slot, ok := e.table.Lookup(qualified); ok {
			slot.Set(val)
		}
		missing := e.missing(short, qualified)
		if len(missing) == 0 {
			continue
		}
		if len(missing) > e.table.Room() {
			e.warnCapacity(r)
			continue
		}
		for _, id := range missing {
			if slot := e.declare(id); slot != nil {
				slot.Set(val)
			}
		}
	}
}

func (e *engine) missing(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := e.table.Lookup(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

func (e *engine) declare(id string) *binding.Slot {
	slot, err := e.table.Declare(id)
	if err != nil {
		e.logger.Error("Failed to add variable", zap.String("variable", id), zap.Error(err))
		return nil
	}
	return slot
}

func (e *engine) warnCapacity(r *zexpr.Reading) {
	if e.capacityWarned {
		return
	}
	e.capacityWarned = true
	e.metrics.capacity.Inc()
	e.logger.Warn("Too many datapoints; new datapoints are not bound to variables",
		zap.String("asset", r.Asset),
		zap.Int("maxvars", e.table.Max()),
	)
}

// refresh recompiles the expression if the source or the bindings changed
// since the last compilation.  A failed compilation is remembered in the
// same way as a successful one, so it is not retried until its inputs
// change.
func (e *engine) refresh() {
	key := cacheKey{e.rewriter.Generation(), e.table.Generation()}
	if e.fresh && e.key == key {
		return
	}
	e.key = key
	e.fresh = true
	e.metrics.compiles.Inc()
	compiled, err := expr.Compile(e.rewriter.Source(), e.table)
	if err != nil {
		e.compiled = nil
		e.metrics.compileFails.Inc()
		if e.report {
			e.report = false
			e.logger.Error("Expression compilation failed",
				zap.String("expression", e.rewriter.Source()),
				zap.Error(err),
			)
		}
		return
	}
	e.compiled = compiled
}
