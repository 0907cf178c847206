package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the search and tracer cannot honour.
func (c *Config) Validate() error {
	if c.Search.HeuristicWeight < 0 {
		return fmt.Errorf("search.heuristic_weight must be >= 0, got %v", c.Search.HeuristicWeight)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("search.max_expansions must be >= 0, got %d", c.Search.MaxExpansions)
	}
	if c.Cache.MaxProfiles < 1 {
		return fmt.Errorf("cache.max_profiles must be >= 1, got %d", c.Cache.MaxProfiles)
	}
	if len(c.Profiles) == 0 {
		return errors.New("at least one movement profile is required")
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return errors.New("movement profile without a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate movement profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Tilenav")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Tilenav")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tilenav")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tilenav")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
