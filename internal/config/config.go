// Package config loads the agrilens CLI configuration from YAML, a .env file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FrenchMajesty/agrilens/clients/backend"
	"github.com/FrenchMajesty/agrilens/internal/retry"
	"github.com/FrenchMajesty/agrilens/utils/format"
)

// DefaultSessionPath is where the CLI keeps its session between runs
const DefaultSessionPath = "./agrilens_session.json"

// Environment variables that override file settings
const (
	EnvAPIURL          = "AGRILENS_API_URL"
	EnvPublicAPIURL    = "NEXT_PUBLIC_API_URL"
	EnvSessionPath     = "AGRILENS_SESSION_PATH"
	EnvLogLevel        = "AGRILENS_LOG_LEVEL"
	EnvCurrency        = "AGRILENS_CURRENCY"
	EnvAPITimeout      = "AGRILENS_API_TIMEOUT"
	EnvPercentDecimals = "AGRILENS_PERCENTAGE_DECIMALS"
)

// Config is the full CLI configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
}

// APIConfig configures the backend client
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   retry.Config  `yaml:"retry"`
}

// SessionConfig configures session persistence
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DisplayConfig configures how figures are rendered
type DisplayConfig struct {
	Currency           string  `yaml:"currency"`
	PercentageDecimals int     `yaml:"percentage_decimals"`
	PricePerKg         float64 `yaml:"price_per_kg"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: backend.DefaultBaseURL,
			Timeout: backend.DefaultTimeout,
			Retry:   retry.DefaultConfig(),
		},
		Session: SessionConfig{
			Path: DefaultSessionPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			Currency:           format.DefaultCurrency,
			PercentageDecimals: format.DefaultPercentageDecimals,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file or an empty path yields the defaults.
// Variables from a .env file in the working directory are loaded first
// without replacing ones already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	// The web frontend's variable is honoured as a fallback
	if url := os.Getenv(EnvPublicAPIURL); url != "" {
		c.API.BaseURL = url
	}
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.API.BaseURL = url
	}

	if raw := os.Getenv(EnvAPITimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAPITimeout, raw, err)
		}
		c.API.Timeout = d
	}

	if path := os.Getenv(EnvSessionPath); path != "" {
		c.Session.Path = path
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}

	if code := os.Getenv(EnvCurrency); code != "" {
		c.Display.Currency = code
	}

	if raw := os.Getenv(EnvPercentDecimals); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPercentDecimals, raw, err)
		}
		c.Display.PercentageDecimals = n
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required (set %s)", EnvAPIURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.API.Retry.MaxRetries < 0 {
		return fmt.Errorf("api.retry.max_retries must not be negative, got %d", c.API.Retry.MaxRetries)
	}
	if c.Display.PercentageDecimals < 0 || c.Display.PercentageDecimals > 20 {
		return fmt.Errorf("display.percentage_decimals must be between 0 and 20, got %d", c.Display.PercentageDecimals)
	}
	return nil
}
