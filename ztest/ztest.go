// Package ztest runs tests of the expression filter described by YAML files.
//
// A test file is a YAML document of the form
//
//	expression: a + b
//	name: sum
//	input: |
//	  {"asset":"tank","readings":{"a":1,"b":2}}
//	output: |
//	  {"asset":"tank","readings":{"a":1,"b":2,"sum":3.0}}
//	warnings:
//	  - Exception processing expression
//
// Input and output are newline delimited JSON readings.  Each of input's
// lines is a separate batch unless batch is set, in which case every line
// goes into a single batch.  outputre may be used in place of output to
// match the output against a regular expression.  warnings lists, in
// order, the messages logged at warning level or above.
//
// Tests are run by the package that owns the behavior under test, which
// supplies a Func that turns a ZTest into actual output.
package ztest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

type ZTest struct {
	Skip string `yaml:"skip,omitempty"`
	Tag  string `yaml:"tag,omitempty"`

	Expression string `yaml:"expression"`
	Name       string `yaml:"name,omitempty"`
	MaxVars    int    `yaml:"maxvars,omitempty"`
	Disabled   bool   `yaml:"disabled,omitempty"`
	Batch      bool   `yaml:"batch,omitempty"`

	Input    string   `yaml:"input"`
	Output   *string  `yaml:"output,omitempty"`
	OutputRE string   `yaml:"outputre,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
}

// Result is what running a ZTest produced.
type Result struct {
	Output   string
	Warnings []string
}

// Func runs zt and returns its result.
type Func func(zt *ZTest) (Result, error)

// FromYAMLFile loads a ZTest from filename.
func FromYAMLFile(filename string) (*ZTest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*ZTest, error) {
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	var z ZTest
	if err := d.Decode(&z); err != nil {
		return nil, err
	}
	if z.Output != nil && z.OutputRE != "" {
		return nil, errors.New("output and outputre are mutually exclusive")
	}
	if z.Output == nil && z.OutputRE == "" {
		return nil, errors.New("one of output or outputre is required")
	}
	return &z, nil
}

// ShouldSkip returns a reason to skip z or the empty string if z should
// run.  tag is the value of the ZTEST_TAG environment variable.
func (z *ZTest) ShouldSkip(tag string) string {
	switch {
	case z.Skip != "":
		return z.Skip
	case z.Tag != tag:
		return fmt.Sprintf("tag %q does not match ZTEST_TAG=%q", z.Tag, tag)
	}
	return ""
}

// Batches splits Input into one batch per line or, if Batch is set, a
// single batch.
func (z *ZTest) Batches() []string {
	if z.Batch {
		return []string{z.Input}
	}
	var batches []string
	for _, line := range strings.SplitAfter(z.Input, "\n") {
		if strings.TrimSpace(line) != "" {
			batches = append(batches, line)
		}
	}
	return batches
}

// Check compares res with the expectations of z.
func (z *ZTest) Check(res Result) error {
	if z.Output != nil {
		if res.Output != *z.Output {
			return fmt.Errorf("expected output\n%s\ngot\n%s", *z.Output, res.Output)
		}
	} else {
		re, err := regexp.Compile(z.OutputRE)
		if err != nil {
			return err
		}
		if !re.MatchString(res.Output) {
			return fmt.Errorf("output does not match %q\n%s", z.OutputRE, res.Output)
		}
	}
	if len(z.Warnings) != len(res.Warnings) {
		return fmt.Errorf("expected warnings %q, got %q", z.Warnings, res.Warnings)
	}
	for i := range z.Warnings {
		if z.Warnings[i] != res.Warnings[i] {
			return fmt.Errorf("expected warnings %q, got %q", z.Warnings, res.Warnings)
		}
	}
	return nil
}

// Run runs each *.yaml file in dirname as a subtest of t.
func Run(t *testing.T, dirname string, fn Func) {
	files, err := filepath.Glob(filepath.Join(dirname, "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatalf("no ztests in %s", dirname)
	}
	tag := os.Getenv("ZTEST_TAG")
	for _, filename := range files {
		filename := filename
		name := strings.TrimSuffix(filepath.Base(filename), ".yaml")
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			zt, err := FromYAMLFile(filename)
			if err != nil {
				t.Fatalf("%s: %s", filename, err)
			}
			if msg := zt.ShouldSkip(tag); msg != "" {
				t.Skip(msg)
			}
			res, err := fn(zt)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, zt.Check(res), filename)
		})
	}
}
