package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the default scenario path. It first checks the
// GOAPSIM_CONFIG environment variable, then falls back to
// ~/.goapsim/config.toml.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv("GOAPSIM_CONFIG"); configPath != "" {
		return configPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".goapsim", "config.toml"), nil
}

// Load loads the scenario at the default path.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}
