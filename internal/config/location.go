package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the configuration file path using kubectl-style behavior.
// It first checks the DPROBOT_CONFIG environment variable, then falls back
// to the default location (~/.dprobot/config).
func GetConfigPath() (string, error) {
	// Check for environment variable override
	if configPath := os.Getenv("DPROBOT_CONFIG"); configPath != "" {
		return configPath, nil
	}

	// Get user home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Default config location: ~/.dprobot/config
	configDir := filepath.Join(homeDir, ".dprobot")
	configPath := filepath.Join(configDir, "config")

	return configPath, nil
}

// EnsureConfigDir ensures that the configuration directory exists.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}
