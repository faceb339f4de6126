// Package config provides configuration loading for forge.
package config

import (
	"errors"
	"time"
)

// DefaultModel is the generation model used when nothing else is configured.
const DefaultModel = "gemini-2.5-flash"

// Config is the full forge configuration.
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Models   ModelsConfig   `koanf:"models"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig configures the generation backend.
type BackendConfig struct {
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`

	// ModelOverride is the CLI --model flag. It outranks every per-stage
	// model. Never read from file or environment.
	ModelOverride string `koanf:"-"`
}

// ModelsConfig carries optional per-stage model overrides.
type ModelsConfig struct {
	Planning     string `koanf:"planning"`
	Architecture string `koanf:"architecture"`
	Coding       string `koanf:"coding"`
}

// PipelineConfig tunes orchestrator behavior.
type PipelineConfig struct {
	MaxRetries   int    `koanf:"max_retries"`
	BranchPrefix string `koanf:"branch_prefix"`
}

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	Debug bool   `koanf:"debug"`
	Dir   string `koanf:"dir"`
}

// ErrMissingAPIKey reports that no backend API key was configured.
var ErrMissingAPIKey = errors.New("config: backend api key is required (set GEMINI_API_KEY or backend.api_key)")

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Backend.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// StageModel returns the configured override for a pipeline stage, if any.
func (m ModelsConfig) StageModel(stage string) string {
	switch stage {
	case "planning":
		return m.Planning
	case "architecture":
		return m.Architecture
	case "coding", "development":
		return m.Coding
	}
	return ""
}

// ResolveModel picks the model for a backend call. Precedence, highest first:
// an explicit per-call model, the stage's configured model, the environment
// override, then the built-in default.
func ResolveModel(explicit, stageModel, envOverride, builtin string) string {
	switch {
	case explicit != "":
		return explicit
	case stageModel != "":
		return stageModel
	case envOverride != "":
		return envOverride
	case builtin != "":
		return builtin
	}
	return DefaultModel
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = DefaultModel
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 2 * time.Minute
	}
	if cfg.Pipeline.MaxRetries <= 0 {
		cfg.Pipeline.MaxRetries = 1
	}
	if cfg.Pipeline.BranchPrefix == "" {
		cfg.Pipeline.BranchPrefix = "forge"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = ".forge/logs"
	}
}
