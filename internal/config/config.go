package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/collate/internal/collate"
	"github.com/born-ml/collate/internal/parallel"
	"github.com/born-ml/collate/internal/tensor"
)

// DefaultFilename is read when Load is given an empty filename.
const DefaultFilename = "collate.yaml"

// LogLevelEnv overrides log.level when set.
const LogLevelEnv = "COLLATE_LOG_LEVEL"

type Config struct {
	Log     Log     `yaml:"log"`
	Collate Collate `yaml:"collate"`
	IO      IO      `yaml:"io"`
}

func (c *Config) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Dict("log", c.Log.ToDict()).
		Dict("collate", c.Collate.ToDict()).
		Dict("io", c.IO.ToDict())
}

func (c *Config) setDefaults() {
	c.Log.setDefaults()
	c.Collate.setDefaults()
	c.IO.setDefaults()
}

func (c *Config) validate() error {
	if err := c.Log.validate(); nil != err {
		return fmt.Errorf("log config validation failed: %v", err)
	}

	if err := c.Collate.validate(); nil != err {
		return fmt.Errorf("collate config validation failed: %v", err)
	}

	if err := c.IO.validate(); nil != err {
		return fmt.Errorf("io config validation failed: %v", err)
	}

	return nil
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Log) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("level", c.Level).
		Str("format", c.Format)
}

func (c *Log) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "pretty"
	}
}

func (c *Log) validate() error {
	if !slices.Contains([]string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}, c.Level) {
		return fmt.Errorf(
			"level must be one of: trace, debug, info, warn, error, fatal, panic, got: %s",
			c.Level,
		)
	}

	if !slices.Contains([]string{"json", "pretty"}, c.Format) {
		return fmt.Errorf("format must be 'json' or 'pretty', got: %s", c.Format)
	}

	return nil
}

type Collate struct {
	Layout          string   `yaml:"layout"`
	CenterSequences bool     `yaml:"center_sequences"`
	Parallel        Parallel `yaml:"parallel"`
}

func (c *Collate) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("layout", c.Layout).
		Bool("center_sequences", c.CenterSequences).
		Dict("parallel", c.Parallel.ToDict())
}

func (c *Collate) setDefaults() {
	if c.Layout == "" {
		c.Layout = "NHWC"
	}

	c.Parallel.setDefaults()
}

func (c *Collate) validate() error {
	if _, err := tensor.ParseLayout(c.Layout); nil != err {
		return fmt.Errorf("layout: %v", err)
	}

	if err := c.Parallel.validate(); nil != err {
		return fmt.Errorf("parallel config validation failed: %v", err)
	}

	return nil
}

// ParsedLayout returns the configured layout. It is only valid after Load.
func (c *Collate) ParsedLayout() tensor.Layout {
	l, err := tensor.ParseLayout(c.Layout)
	if nil != err {
		panic("unvalidated layout: " + c.Layout)
	}
	return l
}

// ToCollator builds the collator configuration, logging through logger.
func (c *Collate) ToCollator(logger zerolog.Logger) collate.Config {
	return collate.Config{
		CenterSequences: c.CenterSequences,
		Parallel:        c.Parallel.ToParallel(),
		Logger:          logger,
	}
}

type Parallel struct {
	Enabled      bool `yaml:"enabled"`
	Workers      int  `yaml:"workers"`
	MinChunkSize int  `yaml:"min_chunk_size"`
}

func (c *Parallel) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Bool("enabled", c.Enabled).
		Int("workers", c.Workers).
		Int("min_chunk_size", c.MinChunkSize)
}

func (c *Parallel) setDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.MinChunkSize == 0 {
		c.MinChunkSize = 1
	}
}

func (c *Parallel) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got: %d", c.Workers)
	}

	if c.MinChunkSize < 1 {
		return fmt.Errorf("min_chunk_size must be positive, got: %d", c.MinChunkSize)
	}

	return nil
}

func (c *Parallel) ToParallel() parallel.Config {
	return parallel.Config{
		Enabled:      c.Enabled,
		NumWorkers:   c.Workers,
		MinChunkSize: c.MinChunkSize,
	}
}

type IO struct {
	InputsKey   string `yaml:"inputs_key"`
	TargetsKey  string `yaml:"targets_key"`
	Concurrency int    `yaml:"concurrency"`
}

func (c *IO) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("inputs_key", c.InputsKey).
		Str("targets_key", c.TargetsKey).
		Int("concurrency", c.Concurrency)
}

func (c *IO) setDefaults() {
	if c.InputsKey == "" {
		c.InputsKey = "inputs"
	}

	if c.TargetsKey == "" {
		c.TargetsKey = "targets"
	}

	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *IO) validate() error {
	if c.InputsKey == c.TargetsKey {
		return errors.New("inputs_key and targets_key must differ")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got: %d", c.Concurrency)
	}

	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var conf Config
	conf.setDefaults()
	return &conf
}

// Load reads the YAML config at filename. An empty filename reads
// DefaultFilename and falls back to defaults when that file does not exist.
func Load(filename string) (*Config, error) {
	path := lo.Ternary(len(filename) > 0, filename, DefaultFilename)

	var conf Config
	data, err := os.ReadFile(path)
	switch {
	case nil == err:
		if err := yaml.Unmarshal(data, &conf); nil != err {
			return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
		}
	case len(filename) == 0 && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if level := os.Getenv(LogLevelEnv); level != "" {
		conf.Log.Level = level
	}
	conf.setDefaults()

	if err := conf.validate(); nil != err {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return &conf, nil
}
