// Package filter implements the expression filter: it evaluates an
// expression against the numeric datapoints of each reading in a batch and
// appends the result to the reading as a new datapoint.
//
// The variables available to the expression are discovered from the
// readings themselves.  Each numeric datapoint is bound under its own name
// and under its name qualified by the asset, e.g., "a" and "pump.a".
// Names are sanitized into identifiers (see binding.Sanitize) and the
// expression source is rewritten to match.  Datapoints that appear for the
// first time mid-stream are bound as they are seen and the expression is
// recompiled before the reading that introduced them is evaluated.
package filter

import (
	"sync"

	"github.com/brimdata/zexpr"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Filter is safe for concurrent use.  Batches are processed one at a time
// and a reconfiguration waits for the batch in flight to finish.
type Filter struct {
	logger  *zap.Logger
	metrics *metrics

	mu     sync.Mutex
	conf   Config
	engine *engine
}

// New returns a filter configured with conf.  Metrics are registered with
// registerer when it is not nil.
func New(conf Config, logger *zap.Logger, registerer prometheus.Registerer) (*Filter, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Filter{
		logger:  logger.Named("filter"),
		metrics: newMetrics(registerer),
		conf:    conf,
	}
	f.engine = newEngine(conf, f.logger, f.metrics)
	return f, nil
}

// Process evaluates the expression for each reading of batch, appending
// the result datapoint to the readings for which the result is finite.
// Readings are otherwise left as they are.
func (f *Filter) Process(batch []*zexpr.Reading) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.conf.Enable {
		return
	}
	f.engine.process(batch)
}

// Reconfigure applies conf.  Changing the expression, the datapoint name or
// the variable limit discards all bindings; the next batch starts afresh.
func (f *Filter) Reconfigure(conf Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conf.resets(conf) {
		prev := f.engine
		f.engine = newEngine(conf, f.logger, f.metrics)
		if conf.Expression == f.conf.Expression {
			// A compile failure already reported for this expression
			// stays latched.
			f.engine.report = prev.report
		}
		f.metrics.resets.Inc()
		f.metrics.bound.Set(0)
	}
	f.conf = conf
	f.logger.Info("Reconfigured",
		zap.Bool("enable", conf.Enable),
		zap.String("expression", conf.Expression),
		zap.String("name", conf.Name),
	)
	return nil
}

func (f *Filter) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conf
}

// Status describes the live state of a filter.
type Status struct {
	Config    Config   `json:"config"`
	Source    string   `json:"source"`
	Variables []string `json:"variables"`
	Compiled  bool     `json:"compiled"`
}

func (f *Filter) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{
		Config:    f.conf,
		Source:    f.engine.rewriter.Source(),
		Variables: f.engine.table.Names(),
		Compiled:  f.engine.compiled != nil,
	}
}
