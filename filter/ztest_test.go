package filter

import (
	"context"
	"strings"
	"testing"

	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/ndjsonio"
	"github.com/brimdata/zexpr/ztest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZTest(t *testing.T) {
	ztest.Run(t, "ztests", runZTest)
}

func runZTest(zt *ztest.ZTest) (ztest.Result, error) {
	core, logs := observer.New(zap.WarnLevel)
	conf := DefaultConfig()
	conf.Enable = !zt.Disabled
	conf.Expression = zt.Expression
	if zt.Name != "" {
		conf.Name = zt.Name
	}
	if zt.MaxVars != 0 {
		conf.MaxVars = zt.MaxVars
	}
	f, err := New(conf, zap.New(core), nil)
	if err != nil {
		return ztest.Result{}, err
	}
	var out strings.Builder
	w := ndjsonio.NewWriter(zio.NopCloser(&out))
	for _, input := range zt.Batches() {
		var a zio.Array
		if err := zio.Copy(context.Background(), &a, ndjsonio.NewReader(strings.NewReader(input))); err != nil {
			return ztest.Result{}, err
		}
		batch := a.Readings()
		f.Process(batch)
		for _, r := range batch {
			if err := w.Write(r); err != nil {
				return ztest.Result{}, err
			}
		}
	}
	var warnings []string
	for _, entry := range logs.All() {
		warnings = append(warnings, entry.Message)
	}
	return ztest.Result{Output: out.String(), Warnings: warnings}, nil
}
