// Package cli holds the flags and helpers shared by the zexpr commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"syscall"

	"go.uber.org/multierr"
)

// version can be set with -ldflags "-X github.com/brimdata/zexpr/cli.version=...".
var version string

// Version returns the linker-supplied version, the module version recorded
// in the binary, or "unknown".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "unknown"
}

type Flags struct {
	showVersion bool
	cpuprofile  string
	memprofile  string
	cpuFile     *os.File
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	fs.StringVar(&f.cpuprofile, "cpuprofile", "", "write cpu profile to given file name")
	fs.StringVar(&f.memprofile, "memprofile", "", "write memory profile to given file name")
}

type Initializer interface {
	Init() error
}

// Init initializes each of all and returns a context that is canceled on
// SIGINT, SIGPIPE or SIGTERM along with a cleanup function the caller must
// invoke on exit.
func (f *Flags) Init(all ...Initializer) (context.Context, func(), error) {
	return f.InitWithSignals(all, syscall.SIGINT, syscall.SIGPIPE, syscall.SIGTERM)
}

// InitWithSignals is like Init but cancels the context on the given
// signals.
func (f *Flags) InitWithSignals(all []Initializer, signals ...os.Signal) (context.Context, func(), error) {
	if f.showVersion {
		fmt.Printf("Version: %s\n", Version())
		os.Exit(0)
	}
	var err error
	for _, i := range all {
		err = multierr.Append(err, i.Init())
	}
	if err != nil {
		return nil, nil, err
	}
	if err := f.startCPUProfile(); err != nil {
		return nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), signals...)
	return interrupted{ctx}, func() {
		cancel()
		f.stopProfiles()
	}, nil
}

// interrupted reports cancellation by a signal as "interrupted".
type interrupted struct{ context.Context }

func (i interrupted) Err() error {
	if err := i.Context.Err(); !errors.Is(err, context.Canceled) {
		return err
	}
	return errors.New("interrupted")
}

func (f *Flags) startCPUProfile() error {
	if f.cpuprofile == "" {
		return nil
	}
	file, err := os.Create(f.cpuprofile)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return err
	}
	f.cpuFile = file
	return nil
}

func (f *Flags) stopProfiles() {
	if f.cpuFile != nil {
		pprof.StopCPUProfile()
		f.cpuFile.Close()
		f.cpuFile = nil
	}
	if f.memprofile == "" {
		return
	}
	file, err := os.Create(f.memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer file.Close()
	runtime.GC()
	pprof.Lookup("allocs").WriteTo(file, 0)
}
