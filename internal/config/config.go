// Package config loads the routeplanner CLI configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/routeplanner"
)

var validate = validator.New()

// Config is the file layout of a routeplanner config.
type Config struct {
	Map           string        `yaml:"map" validate:"required"`
	Relaxation    string        `yaml:"relaxation" validate:"omitempty,oneof=overwrite improving"`
	MaxExpansions int           `yaml:"max_expansions" validate:"min=0"`
	Workers       int           `yaml:"workers" validate:"min=1"`
	Log           LogConfig     `yaml:"log"`
	Metrics       MetricsConfig `yaml:"metrics"`
	Queries       []QueryConfig `yaml:"queries" validate:"dive"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// QueryConfig is one batch query; each axis is a percentage of the map extent.
type QueryConfig struct {
	Start [2]float64 `yaml:"start" validate:"dive,min=0,max=100"`
	End   [2]float64 `yaml:"end" validate:"dive,min=0,max=100"`
}

// Default returns a config with every optional field set.
func Default() Config {
	return Config{
		Relaxation: routeplanner.RelaxOverwrite.String(),
		Workers:    runtime.NumCPU(),
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and validates the result. A relative map
// path is resolved against the directory of the config file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Map != "" && !filepath.IsAbs(cfg.Map) {
		cfg.Map = filepath.Join(filepath.Dir(path), cfg.Map)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the struct constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			if e.Param() != "" {
				return fmt.Errorf("%s: failed %s=%s", e.Namespace(), e.Tag(), e.Param())
			}
			return fmt.Errorf("%s: failed %s", e.Namespace(), e.Tag())
		}
		return err
	}
	return nil
}

// PlannerOptions converts the search settings to routeplanner options.
func (c Config) PlannerOptions() ([]routeplanner.Option, error) {
	relaxation, err := routeplanner.ParseRelaxation(c.Relaxation)
	if err != nil {
		return nil, err
	}
	return []routeplanner.Option{
		routeplanner.WithRelaxation(relaxation),
		routeplanner.WithMaxExpansions(c.MaxExpansions),
		routeplanner.WithWorkers(c.Workers),
	}, nil
}

// BatchQueries converts the configured queries.
func (c Config) BatchQueries() []routeplanner.Query {
	queries := make([]routeplanner.Query, 0, len(c.Queries))
	for _, q := range c.Queries {
		queries = append(queries, routeplanner.Query{
			StartX: q.Start[0], StartY: q.Start[1],
			EndX: q.End[0], EndY: q.End[1],
		})
	}
	return queries
}
