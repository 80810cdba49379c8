package zexpr

import (
	"time"

	"golang.org/x/exp/slices"
)

// Datapoint is a named value within a Reading.
type Datapoint struct {
	Name  string
	Value Value
}

// Reading is one unit of streamed telemetry: the asset that produced it,
// an optional timestamp, and its datapoints in the order they were
// received.
type Reading struct {
	Asset      string
	Timestamp  time.Time
	Datapoints []Datapoint
}

func NewReading(asset string, points ...Datapoint) *Reading {
	return &Reading{Asset: asset, Datapoints: points}
}

// Append adds a datapoint to the end of r.
func (r *Reading) Append(name string, val Value) {
	r.Datapoints = append(r.Datapoints, Datapoint{Name: name, Value: val})
}

// Lookup returns the value of the first datapoint called name.
func (r *Reading) Lookup(name string) (Value, bool) {
	for _, dp := range r.Datapoints {
		if dp.Name == name {
			return dp.Value, true
		}
	}
	return Null, false
}

func (r *Reading) Len() int {
	return len(r.Datapoints)
}

// Copy returns a copy of r that shares no datapoint storage with r.
func (r *Reading) Copy() *Reading {
	return &Reading{
		Asset:      r.Asset,
		Timestamp:  r.Timestamp,
		Datapoints: slices.Clone(r.Datapoints),
	}
}
