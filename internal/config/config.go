// Package config loads steploom settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joshharrison/steploom/internal/parse"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/step"
)

// ErrInvalidConfig is returned for configuration that fails validation or
// carries unknown keys.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full steploom configuration.
type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Input     InputConfig     `toml:"input"`
	Log       LogConfig       `toml:"log"`
}

// SchedulerConfig controls the simulation.
type SchedulerConfig struct {
	Workers    int          `toml:"workers"`
	BaseOffset int          `toml:"base_offset"`
	Rank       step.Rank    `toml:"rank"`
	Resolver   resolve.Kind `toml:"resolver"`
}

// InputConfig controls how prerequisite statements are read.
type InputConfig struct {
	Format parse.Format `toml:"format"`
	Strict bool         `toml:"strict"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Workers:    5,
			BaseOffset: 60,
			Rank:       step.RankAlphabet,
			Resolver:   resolve.KindFrontier,
		},
		Input: InputConfig{
			Format: parse.FormatAuto,
		},
		Log: LogConfig{
			Level:  "off",
			Format: "console",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	metaData, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := checkUndecodedItems(metaData); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// Parse is Load for an in-memory document.
func Parse(data string) (*Config, error) {
	c := Default()
	metaData, err := toml.Decode(data, c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := checkUndecodedItems(metaData); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("%w: scheduler.workers must be at least 1, got %d", ErrInvalidConfig, c.Scheduler.Workers)
	}
	if c.Scheduler.BaseOffset < 0 {
		return fmt.Errorf("%w: scheduler.base_offset must not be negative, got %d", ErrInvalidConfig, c.Scheduler.BaseOffset)
	}
	switch c.Scheduler.Rank {
	case step.RankAlphabet, step.RankOrdinal:
	default:
		return fmt.Errorf("%w: unknown scheduler.rank %q", ErrInvalidConfig, c.Scheduler.Rank)
	}
	switch c.Scheduler.Resolver {
	case resolve.KindFrontier, resolve.KindScan:
	default:
		return fmt.Errorf("%w: unknown scheduler.resolver %q", ErrInvalidConfig, c.Scheduler.Resolver)
	}
	switch c.Input.Format {
	case parse.FormatAuto, parse.FormatText, parse.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown input.format %q", ErrInvalidConfig, c.Input.Format)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func checkUndecodedItems(metaData toml.MetaData) error {
	undecoded := metaData.Undecoded()
	if len(undecoded) > 0 {
		var undecodedItems []string
		for _, item := range undecoded {
			undecodedItems = append(undecodedItems, item.String())
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(undecodedItems, ","))
	}
	return nil
}
