// Package config loads qmlcheck.toml (SPEC_FULL §B.3), the way the teacher
// repo's onchain package loads keys.toml with github.com/pelletier/go-toml.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

type SolverConfig struct {
	TimeoutMS int64 `toml:"timeout_ms"`
	MaxItems  int   `toml:"max_items"`
}

type DomainConfig struct {
	DefaultMin int64 `toml:"default_min"`
	DefaultMax int64 `toml:"default_max"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// Config is the process-wide configuration read from qmlcheck.toml.
type Config struct {
	Solver  SolverConfig  `toml:"solver"`
	Domain  DomainConfig  `toml:"domain"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns the configuration used when no qmlcheck.toml is found.
func Default() *Config {
	return &Config{
		Solver:  SolverConfig{TimeoutMS: 2000, MaxItems: 5000},
		Domain:  DomainConfig{DefaultMin: -2147483648, DefaultMax: 2147483647},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path, falling back to Default() when path is empty or the file
// does not exist — a missing config file is not an error, and unlike
// ApiKeys in the teacher's onchain package no warning is printed or logged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SolverTimeout converts the configured millisecond value to a time.Duration
// for smt.NewSolver.
func (c *Config) SolverTimeout() time.Duration {
	if c.Solver.TimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Solver.TimeoutMS) * time.Millisecond
}
