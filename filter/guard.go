package filter

import (
	"math"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/expr"
	"github.com/brimdata/zexpr/zqe"
	"go.uber.org/zap"
)

// evaluate computes the expression for r and appends the result as a new
// datapoint when it is a finite number.
func (e *engine) evaluate(r *zexpr.Reading) {
	if e.compiled == nil {
		return
	}
	result, err := safeEval(e.compiled)
	if err != nil {
		e.metrics.faults.Inc()
		e.logger.Warn("Exception processing expression",
			zap.String("expression", e.compiled.Source()),
			zap.String("asset", r.Asset),
			zap.Error(err),
		)
		return
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		e.metrics.suppressed.Inc()
		return
	}
	r.Append(e.name, zexpr.NewFloat(result))
	e.metrics.results.Inc()
}

func safeEval(e *expr.Expression) (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zqe.RecoverError(r)
		}
	}()
	return e.Eval()
}
