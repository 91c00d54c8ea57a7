// Package config loads the storefront client configuration from a YAML file
// with environment variable overrides. All fields have workable defaults so
// a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig configures the backend HTTP client.
type APIConfig struct {
	// BaseURL is the root of the storefront API.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each request.
	Timeout time.Duration `yaml:"timeout"`
	// RequestsPerSecond enables client-side rate limiting when positive.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Burst is the limiter burst size.
	Burst int `yaml:"burst"`
	// Metrics wires the prometheus-instrumented transport.
	Metrics bool `yaml:"metrics"`
}

// SessionConfig configures durable session storage.
type SessionConfig struct {
	// File is where the session blob is persisted. Defaults to
	// ~/.architect-storefront/session.json.
	File string `yaml:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			File: filepath.Join(home, ".architect-storefront", "session.json"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads config.yaml from the working directory when present, then
// applies environment overrides. A .env file in the working directory is
// loaded first so local development does not need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFromPath("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = Default()
	}
	cfg.ApplyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from a specific YAML file. Fields absent
// from the file keep their defaults. The caller decides whether a missing
// file is an error; Load treats it as "use defaults".
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variable overrides onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("STOREFRONT_API_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.API.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("STOREFRONT_SESSION_FILE"); v != "" {
		c.Session.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive")
	}
	if c.Session.File == "" {
		return fmt.Errorf("config: session.file is required")
	}
	return nil
}
