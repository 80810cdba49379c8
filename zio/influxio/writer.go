// Package influxio writes readings as InfluxDB points.  Each reading
// becomes one point whose measurement is the asset and whose fields are
// the datapoints.
package influxio

import (
	"context"
	"io"
	"time"

	"github.com/brimdata/zexpr"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// NewPoint converts r to a point.  Null datapoints are dropped and nested
// JSON is written as a string field.  It returns nil if r has no fields.
func NewPoint(r *zexpr.Reading) *write.Point {
	fields := make(map[string]interface{}, len(r.Datapoints))
	for _, dp := range r.Datapoints {
		switch v := dp.Value; v.Kind() {
		case zexpr.KindInt:
			fields[dp.Name] = v.Int()
		case zexpr.KindFloat:
			fields[dp.Name] = v.Float()
		case zexpr.KindString, zexpr.KindJSON:
			fields[dp.Name] = v.Text()
		case zexpr.KindBool:
			fields[dp.Name] = v.Bool()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return influxdb2.NewPoint(r.Asset, nil, fields, r.Timestamp)
}

// Writer writes readings in line protocol.
type Writer struct {
	writer    io.WriteCloser
	precision time.Duration
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{writer: w, precision: time.Nanosecond}
}

func (w *Writer) Write(r *zexpr.Reading) error {
	p := NewPoint(r)
	if p == nil {
		return nil
	}
	_, err := io.WriteString(w.writer, write.PointToLineProtocol(p, w.precision))
	return err
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// SinkConfig locates an InfluxDB bucket.
type SinkConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// Sink writes readings to an InfluxDB server.  Each Write is a blocking
// request.
type Sink struct {
	ctx    context.Context
	client influxdb2.Client
	api    api.WriteAPIBlocking
}

func NewSink(ctx context.Context, conf SinkConfig) *Sink {
	client := influxdb2.NewClient(conf.URL, conf.Token)
	return &Sink{
		ctx:    ctx,
		client: client,
		api:    client.WriteAPIBlocking(conf.Org, conf.Bucket),
	}
}

func (s *Sink) Write(r *zexpr.Reading) error {
	p := NewPoint(r)
	if p == nil {
		return nil
	}
	return s.api.WritePoint(s.ctx, p)
}

func (s *Sink) Close() error {
	s.client.Close()
	return nil
}
