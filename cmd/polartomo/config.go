// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/katalvlaran/polartomo/maxlik"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("polartomo: invalid config")

// Config holds the settings shared by all subcommands. Values come from
// DefaultConfig, then the --config file, then explicitly set flags.
type Config struct {
	// Convergence threshold passed to maxlik.WithEpsilon.
	Epsilon float64 `yaml:"epsilon"`

	// Iteration cap passed to maxlik.WithMaxIterations.
	MaxIterations int `yaml:"max_iterations"`

	// Concurrent reconstructions in batch mode; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// One of text, yaml, json.
	Output string `yaml:"output"`

	// slog level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Epsilon:       maxlik.DefaultEpsilon,
		MaxIterations: maxlik.DefaultMaxIterations,
		Workers:       0,
		Output:        formatText,
		LogLevel:      "warn",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("polartomo: read config: %w", err)
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("polartomo: parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if math.IsNaN(c.Epsilon) || math.IsInf(c.Epsilon, 0) || c.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be finite and > 0, got %g", ErrInvalidConfig, c.Epsilon)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be > 0, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	switch c.Output {
	case formatText, formatYAML, formatJSON:
	default:
		return fmt.Errorf("%w: output %q (want text, yaml or json)", ErrInvalidConfig, c.Output)
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q: %w", ErrInvalidConfig, c.LogLevel, err)
	}

	return lvl, nil
}

// reconstructOptions maps the config onto maxlik options.
func (c Config) reconstructOptions(logger *slog.Logger) []maxlik.Option {
	return []maxlik.Option{
		maxlik.WithEpsilon(c.Epsilon),
		maxlik.WithMaxIterations(c.MaxIterations),
		maxlik.WithLogger(logger),
	}
}
