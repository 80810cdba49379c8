package outputflags

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brimdata/zexpr/pkg/s3io"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/anyio"
	"github.com/brimdata/zexpr/zio/influxio"
	"github.com/brimdata/zexpr/zqe"
)

type Flags struct {
	Format     string
	Influx     influxio.SinkConfig
	outputFile string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "f", "ndjson", fmt.Sprintf("format for output data [%s]", strings.Join(anyio.Formats, ",")))
	fs.StringVar(&f.outputFile, "o", "", "write data to output file or s3:// URL")
	fs.StringVar(&f.Influx.URL, "influx.url", "", "send readings to the InfluxDB server at this URL instead of writing them")
	fs.StringVar(&f.Influx.Token, "influx.token", os.Getenv("INFLUX_TOKEN"), "InfluxDB API token (default $INFLUX_TOKEN)")
	fs.StringVar(&f.Influx.Org, "influx.org", "", "InfluxDB organization")
	fs.StringVar(&f.Influx.Bucket, "influx.bucket", "", "InfluxDB bucket")
}

func (f *Flags) Init() error {
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.Influx.URL != "" {
		if f.outputFile != "" {
			return zqe.E(zqe.Invalid, "cannot use -o with -influx.url")
		}
		if f.Influx.Bucket == "" {
			return zqe.E(zqe.Invalid, "-influx.bucket is required with -influx.url")
		}
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// SetInflux sets the InfluxDB destination unless one was given on the
// command line.
func (f *Flags) SetInflux(conf *influxio.SinkConfig) {
	if conf != nil && f.Influx.URL == "" {
		f.Influx = *conf
	}
}

// Open returns the writer selected by the flags: an InfluxDB sink, the
// output file, or standard output.
func (f *Flags) Open(ctx context.Context) (zio.WriteCloser, error) {
	if f.Influx.URL != "" {
		return influxio.NewSink(ctx, f.Influx), nil
	}
	if f.outputFile == "" {
		return anyio.NewWriter(f.Format, zio.NopCloser(os.Stdout))
	}
	var file io.WriteCloser
	var err error
	if s3io.IsS3Path(f.outputFile) {
		file, err = s3io.NewWriter(ctx, f.outputFile, nil)
	} else {
		file, err = os.Create(f.outputFile)
	}
	if err != nil {
		return nil, err
	}
	w, err := anyio.NewWriter(f.Format, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}
