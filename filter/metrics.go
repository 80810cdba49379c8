package filter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	readings     prometheus.Counter
	results      prometheus.Counter
	suppressed   prometheus.Counter
	faults       prometheus.Counter
	compiles     prometheus.Counter
	compileFails prometheus.Counter
	capacity     prometheus.Counter
	resets       prometheus.Counter
	bound        prometheus.Gauge
}

// newMetrics creates the filter's metrics and registers them with
// registerer if it is not nil.
func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		readings: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_readings_total",
			Help: "Number of readings processed by the expression filter.",
		}),
		results: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_results_total",
			Help: "Number of result datapoints appended to readings.",
		}),
		suppressed: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_results_suppressed_total",
			Help: "Number of evaluations discarded for yielding NaN or infinity.",
		}),
		faults: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_eval_faults_total",
			Help: "Number of evaluations that raised a fault.",
		}),
		compiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_compiles_total",
			Help: "Number of times the expression was compiled.",
		}),
		compileFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_compile_failures_total",
			Help: "Number of compilations that failed.",
		}),
		capacity: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_capacity_exceeded_total",
			Help: "Number of batches in which the variable limit was reached.",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "zexpr_resets_total",
			Help: "Number of reconfigurations that discarded the bindings.",
		}),
		bound: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zexpr_bound_variables",
			Help: "Number of identifiers currently bound.",
		}),
	}
}
