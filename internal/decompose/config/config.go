package config

import (
	"errors"
	"math"

	"github.com/caarlos0/env/v6"
)

// AnalyzerConfig holds configuration for the boundary analyzer.
type AnalyzerConfig struct {
	// CoChangeThreshold is the normalized co-change score two boundaries
	// must exceed to be merged. Accepts "+inf" to forbid all merges.
	CoChangeThreshold float64 `env:"COCHANGE_THRESHOLD" envDefault:"0.5" json:"cochange_threshold"`

	// MaxBoundaryEntities caps how many entities a merged boundary may
	// hold. Zero means unlimited.
	MaxBoundaryEntities int `env:"MAX_BOUNDARY_ENTITIES" envDefault:"0" json:"max_boundary_entities"`
}

// DecomposeConfig holds all configuration for the decomposition module.
type DecomposeConfig struct {
	// SchemaPath is the schema description file read at the start of a run.
	SchemaPath string `env:"SCHEMA_PATH" envDefault:"schema.yaml" json:"schema_path"`

	// PlanPath is where the generated migration plan is written.
	PlanPath string `env:"PLAN_PATH" envDefault:"plan.yaml" json:"plan_path"`

	// LinkSuffix is appended to a field name when an embedded payload is
	// converted to a lightweight link ("customer" becomes "customer_id").
	LinkSuffix string `env:"LINK_SUFFIX" envDefault:"_id" json:"link_suffix"`

	Analyzer AnalyzerConfig `json:"analyzer"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*DecomposeConfig, error) {
	cfg := &DecomposeConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load decompose configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Analyzer); err != nil {
		return nil, errors.New("failed to load analyzer configuration from environment: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *DecomposeConfig) Validate() error {
	if c.SchemaPath == "" {
		return errors.New("SCHEMA_PATH must not be empty")
	}
	if c.PlanPath == "" {
		return errors.New("PLAN_PATH must not be empty")
	}
	if c.LinkSuffix == "" {
		return errors.New("LINK_SUFFIX must not be empty")
	}
	if math.IsNaN(c.Analyzer.CoChangeThreshold) || c.Analyzer.CoChangeThreshold < 0 {
		return errors.New("COCHANGE_THRESHOLD must be a non-negative number or +inf")
	}
	if c.Analyzer.MaxBoundaryEntities < 0 {
		return errors.New("MAX_BOUNDARY_ENTITIES must not be negative")
	}
	return nil
}

// DefaultDecomposeConfig returns a DecomposeConfig with default values.
func DefaultDecomposeConfig() *DecomposeConfig {
	return &DecomposeConfig{
		SchemaPath: "schema.yaml",
		PlanPath:   "plan.yaml",
		LinkSuffix: "_id",
		Analyzer: AnalyzerConfig{
			CoChangeThreshold:   0.5,
			MaxBoundaryEntities: 0,
		},
	}
}
