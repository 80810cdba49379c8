package filter

import (
	"github.com/brimdata/zexpr/binding"
	"github.com/brimdata/zexpr/zqe"
)

// Config holds the options of an expression filter.
type Config struct {
	// Enable turns the filter on.  A disabled filter passes readings
	// through untouched.
	Enable bool `yaml:"enable" json:"enable"`
	// Expression is evaluated against the numeric datapoints of each
	// reading.
	Expression string `yaml:"expression" json:"expression"`
	// Name is the name of the datapoint holding the result.
	Name string `yaml:"name" json:"name"`
	// MaxVars bounds the number of identifiers bound by the filter.
	MaxVars int `yaml:"maxvars,omitempty" json:"maxvars,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Expression: "log(x)",
		Name:       "calculated",
		MaxVars:    binding.DefaultMaxVars,
	}
}

func (c Config) Validate() error {
	if c.Name == "" {
		return zqe.E(zqe.Invalid, "filter: datapoint name must not be empty")
	}
	if c.MaxVars < 0 || c.MaxVars == 1 {
		return zqe.E(zqe.Invalid, "filter: maxvars must be at least 2 (got %d)", c.MaxVars)
	}
	return nil
}

func (c Config) maxVars() int {
	if c.MaxVars == 0 {
		return binding.DefaultMaxVars
	}
	return c.MaxVars
}

// resets returns true if moving from c to next requires discarding the
// bindings and compiled expression.
func (c Config) resets(next Config) bool {
	return c.Expression != next.Expression || c.Name != next.Name || c.maxVars() != next.maxVars()
}
