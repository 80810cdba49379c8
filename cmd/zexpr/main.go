package main

import (
	"fmt"
	"os"

	"github.com/brimdata/zexpr/cmd/zexpr/eval"
	"github.com/brimdata/zexpr/cmd/zexpr/root"
	"github.com/brimdata/zexpr/cmd/zexpr/run"
	"github.com/brimdata/zexpr/cmd/zexpr/serve"
	"github.com/brimdata/zexpr/pkg/charm"
)

func main() {
	zexpr := root.Zexpr
	zexpr.Add(run.Cmd)
	zexpr.Add(serve.Cmd)
	zexpr.Add(eval.Cmd)
	zexpr.Add(charm.Help)
	if err := zexpr.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
