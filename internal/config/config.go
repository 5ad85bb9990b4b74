// Package config loads slide2script settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Script  ScriptConfig  `yaml:"script"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
	Server  ServerConfig  `yaml:"server"`
}

// GeminiConfig selects the model used for narration.
type GeminiConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
}

// APIKey reads the key from the configured environment variable, then from
// GOOGLE_API_KEY.
func (g GeminiConfig) APIKey() string {
	if key := os.Getenv(g.APIKeyEnv); g.APIKeyEnv != "" && key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// ScriptConfig controls generation pacing and context.
type ScriptConfig struct {
	Pace           time.Duration `yaml:"pace"`
	DetectLanguage bool          `yaml:"detect_language"`
}

// StorageConfig selects where run artifacts go.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	Dir          string `yaml:"dir"`
	Format       string `yaml:"format"`
	DatabasePath string `yaml:"database_path"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Extensions []string      `yaml:"extensions"`
	Settle     time.Duration `yaml:"settle"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Load reads and parses the config file at path, applies defaults and
// validates the result. Relative storage paths resolve against the config
// file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.Dir = expandPath(cfg.Storage.Dir, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "sqlite":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Storage.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: unknown storage format %q", c.Storage.Format)
	}
	if c.Script.Pace < 0 {
		return errors.New("config: script.pace must not be negative")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("config: gemini.temperature %v out of range [0, 2]", c.Gemini.Temperature)
	}
	if c.Watch.Settle < 0 {
		return errors.New("config: watch.settle must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("config: watch extension %q must start with a dot", ext)
		}
	}
	return nil
}

func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
