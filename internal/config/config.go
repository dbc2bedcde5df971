package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StreamConfig tunes the live notification stream's reconnect behavior.
type StreamConfig struct {
	// ReconnectBaseSec is the delay before the first reconnect attempt.
	ReconnectBaseSec int `mapstructure:"reconnect_base_sec" yaml:"reconnect_base_sec"`

	// ReconnectMaxSec caps the backoff between attempts.
	ReconnectMaxSec int `mapstructure:"reconnect_max_sec" yaml:"reconnect_max_sec"`

	// DegradedAfter is the number of consecutive failures before the
	// connection is reported as degraded in the UI.
	DegradedAfter int `mapstructure:"degraded_after" yaml:"degraded_after"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// ServerURL is the root URL of the CEMS backend.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// CachePath is the SQLite file holding the offline snapshot.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`

	// LogPath is the log file; the terminal belongs to the UI.
	LogPath string `mapstructure:"log_path" yaml:"log_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Stream  StreamConfig  `mapstructure:"stream" yaml:"stream"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// configDir returns the application configuration directory,
// ~/.config/cems.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cems")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/cems/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		ServerURL: "http://localhost:8000",
		CachePath: filepath.Join(configDir(), "cache.db"),
		LogPath:   filepath.Join(configDir(), "cems.log"),
		LogLevel:  "info",
		Stream: StreamConfig{
			ReconnectBaseSec: 5,
			ReconnectMaxSec:  60,
			DegradedAfter:    5,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	defaults := defaultAppConfig()
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("cache_path", defaults.CachePath)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("stream.reconnect_base_sec", defaults.Stream.ReconnectBaseSec)
	v.SetDefault("stream.reconnect_max_sec", defaults.Stream.ReconnectMaxSec)
	v.SetDefault("stream.degraded_after", defaults.Stream.DegradedAfter)
	v.SetDefault("display.theme", defaults.Display.Theme)

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

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server_url", cfg.ServerURL)
	v.Set("cache_path", cfg.CachePath)
	v.Set("log_path", cfg.LogPath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("stream", cfg.Stream)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
