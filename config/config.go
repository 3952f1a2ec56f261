// Package config holds the settings shared by the translator and the
// simulator.
package config

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the content of a configuration file.
type Config struct {
	// Annotate echoes every VM command as a comment before its translation.
	Annotate bool `yaml:"annotate"`

	// StaticSymbols emits @File.i for static entries instead of fixed slots.
	StaticSymbols bool `yaml:"static_symbols"`

	LogLevel string `yaml:"log_level"`

	Simulator Simulator `yaml:"simulator"`
}

// Simulator configures the Hack computer that runs translated programs.
type Simulator struct {
	StackBase int     `yaml:"stack_base"`
	MaxSteps  int     `yaml:"max_steps"`
	RAMSize   int     `yaml:"ram_size"`
	FreqMHz   float64 `yaml:"freq_mhz"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Simulator: Simulator{
			StackBase: 256,
			MaxSteps:  100000,
			RAMSize:   32768,
			FreqMHz:   1000,
		},
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, path)
	}

	return cfg, nil
}

// Validate checks that the simulator can be built from the configuration.
func (c Config) Validate() error {
	s := c.Simulator

	switch {
	case s.RAMSize <= 4:
		return errors.Wrapf(ErrInvalid, "ram_size %d", s.RAMSize)
	case s.StackBase < 5 || s.StackBase >= s.RAMSize:
		return errors.Wrapf(ErrInvalid, "stack_base %d", s.StackBase)
	case s.MaxSteps < 0:
		return errors.Wrapf(ErrInvalid, "max_steps %d", s.MaxSteps)
	case s.FreqMHz <= 0:
		return errors.Wrapf(ErrInvalid, "freq_mhz %g", s.FreqMHz)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// WithAnnotations returns a copy with Annotate set.
func (c Config) WithAnnotations(annotate bool) Config {
	c.Annotate = annotate
	return c
}

// WithStaticSymbols returns a copy with StaticSymbols set.
func (c Config) WithStaticSymbols(staticSymbols bool) Config {
	c.StaticSymbols = staticSymbols
	return c
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// LevelTrace is the level of per-instruction and per-command records.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// ParseLevel accepts trace, debug, info, warn and error, case-insensitive.
// The empty string means warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, errors.Wrapf(ErrInvalid, "log_level %q", name)
}
