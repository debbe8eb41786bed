package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config.yaml"

// Load resolves the config file from CONFIG_PATH (fallback ./config.yaml)
// and reads it with LoadFile. ENV overrides YAML, YAML overrides env-default.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return LoadFile(path, true)
	}
	return LoadFile(defaultPath, false)
}

// LoadFile reads path and the environment. A missing file is an error only
// when required is set; otherwise ENV and defaults are used alone.
func LoadFile(path string, required bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
