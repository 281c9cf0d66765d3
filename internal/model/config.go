package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the top-level application configuration, loaded from a
// YAML file. It is distinct from Settings, which lives in the database
// and round-trips through export/import.
type AppConfig struct {
	// DatabasePath is the sqlite file location.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// RetentionHours is the window after which completed todos are
	// auto-archived and bin entries are purged.
	RetentionHours int `mapstructure:"retention_hours" yaml:"retention_hours"`

	// Theme overrides the persisted settings theme for this device.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// DefaultConfigPath returns the default configuration file path,
// located at ~/.config/checkmate/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "checkmate", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "checkmate")
	}
	return &AppConfig{
		DatabasePath:   filepath.Join(dataDir, "checkmate.db"),
		RetentionHours: 24,
		Theme:          "",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("retention_hours", defaults.RetentionHours)
	v.SetDefault("theme", defaults.Theme)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.RetentionHours <= 0 {
		cfg.RetentionHours = defaults.RetentionHours
	}
	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database_path", cfg.DatabasePath)
	v.Set("retention_hours", cfg.RetentionHours)
	v.Set("theme", cfg.Theme)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
