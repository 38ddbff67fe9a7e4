// Package config loads Tessera's ambient configuration: a YAML file
// overlaid with TESSERA_-prefixed environment variables, with an optional
// file-watcher for hot-reload during long-lived host processes.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/goccy/go-yaml"
)

// Config is the top-level ambient configuration for a Tessera host
// process. It carries no domain entities (those live in internal/store);
// this is strictly the solver/CLI/logging knobs.
type Config struct {
	// LogLevel and LogFormat mirror internal/logging's own env fallbacks,
	// duplicated here so a single config file can set them alongside
	// everything else.
	LogLevel  string `env:"TESSERA_LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"TESSERA_LOG_FORMAT" yaml:"log_format"`

	DefaultCalendarName string `env:"TESSERA_DEFAULT_CALENDAR" yaml:"default_calendar_name"`

	MonteCarlo MonteCarloDefaults `yaml:"monte_carlo"`

	// OutputDir names a directory for result dumps; the cmd/tessera CLI
	// does not read it and writes only to its own output stream.
	OutputDir string `env:"TESSERA_OUTPUT_DIR" yaml:"output_dir"`
}

// MonteCarloDefaults holds default Monte Carlo sample count and confidence
// level. The cmd/tessera CLI does not load Config; its stackup command
// takes these values from its own flag defaults.
type MonteCarloDefaults struct {
	Samples         uint32  `yaml:"samples" env:"TESSERA_MC_SAMPLES"`
	ConfidenceLevel float64 `yaml:"confidence_level" env:"TESSERA_MC_CONFIDENCE_LEVEL"`
}

// Load reads zero or more YAML files in order (later files override
// earlier ones), then overlays TESSERA_-prefixed environment variables,
// matching the teacher's caarlos0/env + goccy/go-yaml layering
// (internal/core/config_manager.go's NewConfig).
func Load(paths ...string) (Config, error) {
	cfg := Config{
		LogLevel:  "info",
		LogFormat: "text",
		MonteCarlo: MonteCarloDefaults{
			Samples:         10000,
			ConfidenceLevel: 0.95,
		},
		OutputDir: "build",
	}

	for _, path := range paths {
		bts, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, fmt.Errorf("read config file %q: %w", path, err)
		}
		if strings.TrimSpace(string(bts)) == "" {
			continue
		}
		if err := yaml.Unmarshal(bts, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment overrides: %w", err)
	}

	return cfg, nil
}
