package ndjsonio

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/brimdata/zexpr"
)

// Writer writes readings in the format read by Reader.  Float datapoints
// always carry a decimal point or exponent so that they read back as
// floats; NaN and infinities, which JSON cannot represent, are written as
// null.
type Writer struct {
	writer io.WriteCloser
	buf    bytes.Buffer
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{writer: w}
}

func (w *Writer) Write(r *zexpr.Reading) error {
	w.buf.Reset()
	w.buf.WriteString(`{"asset":`)
	writeString(&w.buf, r.Asset)
	if !r.Timestamp.IsZero() {
		w.buf.WriteString(`,"timestamp":`)
		writeString(&w.buf, r.Timestamp.UTC().Format(time.RFC3339Nano))
	}
	w.buf.WriteString(`,"readings":{`)
	for i, dp := range r.Datapoints {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		writeString(&w.buf, dp.Name)
		w.buf.WriteByte(':')
		writeValue(&w.buf, dp.Value)
	}
	w.buf.WriteString("}}\n")
	_, err := w.writer.Write(w.buf.Bytes())
	return err
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func writeString(b *bytes.Buffer, s string) {
	// json.Marshal of a string cannot fail.
	out, _ := json.Marshal(s)
	b.Write(out)
}

func writeValue(b *bytes.Buffer, v zexpr.Value) {
	switch v.Kind() {
	case zexpr.KindInt:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case zexpr.KindFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b.WriteString("null")
			return
		}
		b.WriteString(zexpr.FormatFloat(f))
	case zexpr.KindString:
		writeString(b, v.Text())
	case zexpr.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case zexpr.KindJSON:
		b.WriteString(v.Text())
	default:
		b.WriteString("null")
	}
}
