// Package config loads the YAML configuration shared by the zexpr commands
// and service, and watches the file for changes.
//
// A configuration file looks like
//
//	filter:
//	  enable: true
//	  expression: log(x)
//	  name: calculated
//	  maxvars: 1024
//	batchsize: 100
//	log:
//	  path: stderr
//	  level: info
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/brimdata/zexpr/driver"
	"github.com/brimdata/zexpr/filter"
	"github.com/brimdata/zexpr/service/logger"
	"github.com/brimdata/zexpr/zio/influxio"
	"github.com/brimdata/zexpr/zqe"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Filter    filter.Config `yaml:"filter"`
	BatchSize int           `yaml:"batchsize"`
	Log       logger.Config `yaml:"log"`
	// Influx, if set, sends results to an InfluxDB server.
	Influx *influxio.SinkConfig `yaml:"influx,omitempty"`
}

func Default() Config {
	return Config{
		Filter:    filter.DefaultConfig(),
		BatchSize: driver.DefaultBatchSize,
		Log:       logger.DefaultConfig(),
	}
}

// Load reads and validates the configuration in path.  Settings absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a configuration.  Unknown keys are an error.
func Parse(b []byte) (Config, error) {
	c := Default()
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, zqe.E(zqe.Invalid, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	err := c.Filter.Validate()
	if c.BatchSize <= 0 {
		err = multierr.Append(err, zqe.E(zqe.Invalid, "batchsize must be positive (got %d)", c.BatchSize))
	}
	if i := c.Influx; i != nil {
		if i.URL == "" {
			err = multierr.Append(err, zqe.E(zqe.Invalid, "influx: url is required"))
		}
		if i.Bucket == "" {
			err = multierr.Append(err, zqe.E(zqe.Invalid, "influx: bucket is required"))
		}
	}
	return err
}
