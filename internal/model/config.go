package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection settings for the Chronicle service.
type ServerConfig struct {
	// BaseURL is the root URL of the service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds each HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DeadlineConfig is the default-deadline policy applied when the new-task
// form opens: now plus OffsetDays, at Hour:Minute local time.
type DeadlineConfig struct {
	OffsetDays int `mapstructure:"offset_days" yaml:"offset_days"`
	Hour       int `mapstructure:"hour" yaml:"hour"`
	Minute     int `mapstructure:"minute" yaml:"minute"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// ToastSec is how long a status toast stays visible.
	ToastSec int `mapstructure:"toast_sec" yaml:"toast_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Deadline DeadlineConfig `mapstructure:"deadline" yaml:"deadline"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`

	// CachePath is the SQLite file holding the last board snapshot.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/chronicle/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "chronicle", "config.yaml")
}

// defaultCachePath returns the default snapshot cache location next to
// the config file.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".config", "chronicle", "cache.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8080",
			TimeoutSec: 15,
		},
		Deadline: DeadlineConfig{
			OffsetDays: 7,
			Hour:       20,
			Minute:     30,
		},
		Display: DisplayConfig{
			ToastSec: 3,
		},
		CachePath: defaultCachePath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.timeout_sec", 15)
	v.SetDefault("deadline.offset_days", 7)
	v.SetDefault("deadline.hour", 20)
	v.SetDefault("deadline.minute", 30)
	v.SetDefault("display.toast_sec", 3)
	v.SetDefault("cache_path", defaultCachePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
