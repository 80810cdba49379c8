// Package ndjsonio reads and writes readings as newline delimited JSON.
// Each line holds one object of the form
//
//	{"asset":"pump","timestamp":"2024-05-01T12:00:00Z","readings":{"a":1,"b":2.5}}
//
// The datapoints of "readings" keep their order.  "asset_code", "user_ts"
// and "reading" are accepted as aliases for "asset", "timestamp" and
// "readings".
package ndjsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/pkg/skim"
)

const (
	ReadSize    = 64 * 1024
	MaxLineSize = 50 * 1024 * 1024
)

type Reader struct {
	scanner *skim.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: skim.NewScanner(r, make([]byte, ReadSize), MaxLineSize),
	}
}

func (r *Reader) Read() (*zexpr.Reading, error) {
again:
	line, err := r.scanner.ScanLine()
	if line == nil {
		return nil, err
	}
	line = bytes.TrimSpace(line)
	// skip empty lines
	if len(line) == 0 {
		goto again
	}
	reading, err := Parse(line)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.scanner.Stats.Lines, err)
	}
	return reading, nil
}

// Parse decodes one reading from a JSON object.
func Parse(b []byte) (*zexpr.Reading, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	reading := &zexpr.Reading{}
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "asset", "asset_code":
			if err := dec.Decode(&reading.Asset); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		case "timestamp", "user_ts":
			var s string
			if err := dec.Decode(&s); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			ts, err := parseTime(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			reading.Timestamp = ts
		case "readings", "reading":
			points, err := datapoints(dec)
			if err != nil {
				return nil, err
			}
			reading.Datapoints = points
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("extra data after reading object")
	}
	return reading, nil
}

func datapoints(dec *json.Decoder) ([]zexpr.Datapoint, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("readings: %w", err)
	}
	var points []zexpr.Datapoint
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("datapoint %q: %w", name, err)
		}
		val, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("datapoint %q: %w", name, err)
		}
		points = append(points, zexpr.Datapoint{Name: name, Value: val})
	}
	return points, expectDelim(dec, '}')
}

func parseValue(raw json.RawMessage) (zexpr.Value, error) {
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return zexpr.Null, err
		}
		return zexpr.NewString(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return zexpr.Null, err
		}
		return zexpr.NewBool(b), nil
	case 'n':
		return zexpr.Null, nil
	case '{', '[':
		return zexpr.NewJSON(raw), nil
	}
	s := string(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return zexpr.NewInt(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return zexpr.Null, err
	}
	return zexpr.NewFloat(f), nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, found %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("expected %q, found end of input", delim)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return fmt.Errorf("expected %q, found %v", delim, tok)
	}
	return nil
}

// parseTime parses RFC 3339 timestamps and falls back to dateparse for the
// other common layouts, e.g., "2019-01-01 10:00:00.123456+00:00".  Times
// without a zone are taken to be UTC.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}
