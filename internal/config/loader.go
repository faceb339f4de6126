package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1 << 20

// ConfigFile is the per-repository config location, relative to the repo root.
const ConfigFile = ".forge/config.yaml"

// Load reads configuration for a run.
//
// Precedence, highest to lowest:
//  1. FORGE_* environment variables (FORGE_BACKEND_MODEL -> backend.model)
//  2. The YAML config file (explicit path, else <repoRoot>/.forge/config.yaml)
//  3. Built-in defaults
//
// GEMINI_API_KEY fills backend.api_key when nothing else set it.
func Load(repoRoot, configPath string) (*Config, error) {
	k := koanf.New(".")

	explicit := configPath != ""
	if configPath == "" {
		configPath = filepath.Join(repoRoot, filepath.FromSlash(ConfigFile))
	}

	info, err := os.Stat(configPath)
	switch {
	case err == nil:
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config: %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: open %s: %w", configPath, err)
	}

	// FORGE_BACKEND_API_KEY -> backend.api_key: first underscore after the
	// prefix separates the section from the field name.
	if err := k.Load(env.Provider("FORGE_", ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, "FORGE_"))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Backend.APIKey == "" {
		cfg.Backend.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
