package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Extensions lists the file extensions considered during a scan.
	Extensions []string `yaml:"extensions"`
	// IgnoreDirs lists directory names skipped entirely during a scan.
	IgnoreDirs []string `yaml:"ignore_dirs"`
	Markers    Markers  `yaml:"markers"`
	// DefaultPriority is the priority assigned to blocks that omit the
	// field and to template blocks inserted by init.
	DefaultPriority string `yaml:"default_priority"`
	// Workers is the size of the scan worker pool. 1 means sequential.
	Workers int `yaml:"workers"`
}

// Markers holds the comment text that opens and closes a TODO block.
// The leading comment character is not part of the marker.
type Markers struct {
	Begin string `yaml:"begin"`
	End   string `yaml:"end"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extensions:      []string{".py"},
		IgnoreDirs:      []string{".git", ".venv", "venv", "__pycache__", "node_modules", ".tox"},
		Markers:         Markers{Begin: "<todo>", End: "</todo>"},
		DefaultPriority: "MEDIUM",
		Workers:         4,
	}
}

// Load loads config from the user's config directory.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return Default(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadFile loads config from an explicit path, for the --config flag.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o644)
}

// applyDefaults fills in any zero values with defaults so a partial config
// file stays valid.
func (c *Config) applyDefaults() {
	defaults := Default()
	if len(c.Extensions) == 0 {
		c.Extensions = defaults.Extensions
	}
	if len(c.IgnoreDirs) == 0 {
		c.IgnoreDirs = defaults.IgnoreDirs
	}
	if c.Markers.Begin == "" {
		c.Markers.Begin = defaults.Markers.Begin
	}
	if c.Markers.End == "" {
		c.Markers.End = defaults.Markers.End
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = defaults.DefaultPriority
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
}

// getConfigPath returns the path to the config file, honoring
// XDG_CONFIG_HOME before falling back to the platform config dir.
func getConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todoscan", "config.yaml"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "todoscan", "config.yaml"), nil
}
