package anyio

import (
	"io"

	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/influxio"
	"github.com/brimdata/zexpr/zio/ndjsonio"
	"github.com/brimdata/zexpr/zqe"
)

// Formats lists the names accepted by NewWriter.
var Formats = []string{"ndjson", "json", "influx"}

func NewWriter(format string, w io.WriteCloser) (zio.WriteCloser, error) {
	switch format {
	case "", "ndjson", "json":
		return ndjsonio.NewWriter(w), nil
	case "influx":
		return influxio.NewWriter(w), nil
	}
	return nil, zqe.E(zqe.Invalid, "unknown output format %q", format)
}
