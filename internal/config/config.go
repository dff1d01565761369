// Package config handles configuration loading and management for strray.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for strray.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Delegation DelegationConfig `mapstructure:"delegation"`
	Session    SessionConfig    `mapstructure:"session"`
	Workers    WorkersConfig    `mapstructure:"workers"`
	TUI        TUIConfig        `mapstructure:"tui"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// DelegationConfig holds delegation execution settings.
type DelegationConfig struct {
	// CallTimeout bounds each worker call.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// MaxRetries is the retry count for failed worker calls.
	MaxRetries int `mapstructure:"max_retries"`
	// RetryBackoff is the base backoff between retry attempts.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	// Async switches delegation to the fire-and-monitor return variant.
	Async bool `mapstructure:"async"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxSessions  int           `mapstructure:"max_sessions"`
	ReapInterval time.Duration `mapstructure:"reap_interval"`
}

// WorkersConfig holds worker catalog settings.
type WorkersConfig struct {
	// CatalogPath points at a YAML worker catalog; empty uses the
	// built-in defaults.
	CatalogPath string `mapstructure:"catalog_path"`
	// Simulated forces simulated workers regardless of API settings.
	Simulated bool `mapstructure:"simulated"`
}

// TUIConfig holds monitor display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	// LogPath enables the file-backed debug log when non-empty.
	LogPath string `mapstructure:"log_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.strray.yaml in current directory or parent)
// 3. User config (~/.config/strray/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Project config takes precedence over user config.
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("delegation.call_timeout", cfg.Delegation.CallTimeout.String())
	v.Set("delegation.max_retries", cfg.Delegation.MaxRetries)
	v.Set("delegation.retry_backoff", cfg.Delegation.RetryBackoff.String())
	v.Set("delegation.async", cfg.Delegation.Async)
	v.Set("session.ttl", cfg.Session.TTL.String())
	v.Set("session.idle_timeout", cfg.Session.IdleTimeout.String())
	v.Set("session.max_sessions", cfg.Session.MaxSessions)
	v.Set("session.reap_interval", cfg.Session.ReapInterval.String())
	v.Set("workers.catalog_path", cfg.Workers.CatalogPath)
	v.Set("workers.simulated", cfg.Workers.Simulated)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("debug.log_path", cfg.Debug.LogPath)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("delegation.call_timeout", "2m")
	v.SetDefault("delegation.max_retries", 2)
	v.SetDefault("delegation.retry_backoff", "500ms")
	v.SetDefault("delegation.async", false)

	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.idle_timeout", "10m")
	v.SetDefault("session.max_sessions", 100)
	v.SetDefault("session.reap_interval", "30s")

	v.SetDefault("workers.catalog_path", "")
	v.SetDefault("workers.simulated", false)

	v.SetDefault("tui.refresh_rate", "100ms")

	v.SetDefault("debug.log_path", "")
}

// getUserConfigDir returns the XDG config directory for strray.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "strray")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "strray")
	}
	return filepath.Join(home, ".config", "strray")
}

// findProjectConfig searches for .strray.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".strray.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Delegation: DelegationConfig{
			CallTimeout:  2 * time.Minute,
			MaxRetries:   2,
			RetryBackoff: 500 * time.Millisecond,
		},
		Session: SessionConfig{
			TTL:          30 * time.Minute,
			IdleTimeout:  10 * time.Minute,
			MaxSessions:  100,
			ReapInterval: 30 * time.Second,
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
		},
	}
}
