package ndjsonio_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/ndjsonio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	r, err := ndjsonio.Parse([]byte(`{"asset_code":"pump","user_ts":"2024-05-01T12:00:00.5Z","extra":[1,2],"readings":{"b":50,"a":1.5,"s":"on","ok":true,"n":null,"nested":{"x":1},"big":1e3}}`))
	require.NoError(t, err)
	assert.Equal(t, "pump", r.Asset)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 500000000, time.UTC), r.Timestamp)
	require.Equal(t, 7, r.Len())
	expected := []zexpr.Datapoint{
		{Name: "b", Value: zexpr.NewInt(50)},
		{Name: "a", Value: zexpr.NewFloat(1.5)},
		{Name: "s", Value: zexpr.NewString("on")},
		{Name: "ok", Value: zexpr.NewBool(true)},
		{Name: "n", Value: zexpr.Null},
		{Name: "nested", Value: zexpr.NewJSON([]byte(`{"x":1}`))},
		{Name: "big", Value: zexpr.NewFloat(1000)},
	}
	assert.Equal(t, expected, r.Datapoints)
}

func TestParseTimestampLayouts(t *testing.T) {
	expected := time.Date(2019, 1, 1, 10, 0, 0, 123456000, time.UTC)
	for _, ts := range []string{
		"2019-01-01T10:00:00.123456Z",
		"2019-01-01 10:00:00.123456+00:00",
		"2019-01-01 10:00:00.123456",
	} {
		r, err := ndjsonio.Parse([]byte(`{"asset":"a","timestamp":"` + ts + `"}`))
		require.NoError(t, err, ts)
		assert.True(t, expected.Equal(r.Timestamp), ts)
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		`[1,2]`,
		`{"asset":1}`,
		`{"readings":[1]}`,
		`{"timestamp":"yesterday"}`,
		`{"asset":"a"`,
	} {
		_, err := ndjsonio.Parse([]byte(s))
		assert.Error(t, err, s)
	}
}

func TestReaderSkipsBlankLines(t *testing.T) {
	input := `{"asset":"a","readings":{"x":1}}

  {"asset":"b","readings":{"x":2}}
`
	r := ndjsonio.NewReader(strings.NewReader(input))
	var assets []string
	for {
		reading, err := r.Read()
		require.NoError(t, err)
		if reading == nil {
			break
		}
		assets = append(assets, reading.Asset)
	}
	assert.Equal(t, []string{"a", "b"}, assets)
}

func TestReaderLineNumber(t *testing.T) {
	r := ndjsonio.NewReader(strings.NewReader("{\"asset\":\"a\"}\n{oops}\n"))
	_, err := r.Read()
	require.NoError(t, err)
	_, err = r.Read()
	assert.ErrorContains(t, err, "line 2:")
}

func TestRoundTrip(t *testing.T) {
	input := `{"asset":"test","timestamp":"2024-05-01T12:00:00Z","readings":{"a":1000,"b":50,"result":1050.0,"s":"x\"y","j":[1,{"k":2}],"t":false,"n":null}}
{"asset":"empty","readings":{}}
`
	var out bytes.Buffer
	w := ndjsonio.NewWriter(zio.NopCloser(&out))
	r := ndjsonio.NewReader(strings.NewReader(input))
	for {
		reading, err := r.Read()
		require.NoError(t, err)
		if reading == nil {
			break
		}
		require.NoError(t, w.Write(reading))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, input, out.String())
}

func TestWriteFloats(t *testing.T) {
	var out bytes.Buffer
	w := ndjsonio.NewWriter(zio.NopCloser(&out))
	r := zexpr.NewReading("f",
		zexpr.Datapoint{Name: "whole", Value: zexpr.NewFloat(2)},
		zexpr.Datapoint{Name: "frac", Value: zexpr.NewFloat(0.125)},
	)
	require.NoError(t, w.Write(r))
	assert.Equal(t, `{"asset":"f","readings":{"whole":2.0,"frac":0.125}}`+"\n", out.String())
}
