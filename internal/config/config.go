// Package config loads tool configuration from an optional YAML file,
// a .env file and process environment variables. Environment beats the
// file, the file beats defaults.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the tool.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// APIConfig configures the PowerTrack client. The credential fields are
// usually not written into a file: they bind to the BASE_URL, COOKIE,
// AE_S and AE_V environment variables, which is how a browser session
// is handed to the tool.
type APIConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Cookie            string  `mapstructure:"cookie"`
	SessionToken      string  `mapstructure:"session_token"`
	VerificationToken string  `mapstructure:"verification_token"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	MaxRetries        int     `mapstructure:"max_retries"`
	BackoffFactor     float64 `mapstructure:"backoff_factor"`
	RateLimit         float64 `mapstructure:"rate_limit"`
	RateBurst         int     `mapstructure:"rate_burst"`
	CacheSize         int     `mapstructure:"cache_size"`
}

// PortfolioConfig locates the local JSON store.
type PortfolioConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the optional Prometheus listener. An empty
// Addr leaves it off.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration. A .env file in the working directory is
// folded into the environment first, when present. path names an
// optional YAML file; environment variables are expanded in its raw
// bytes before parsing, so values like "$COOKIE" work.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.backoff_factor", 0.5)
	v.SetDefault("api.rate_limit", 5)
	v.SetDefault("api.rate_burst", 10)
	v.SetDefault("api.cache_size", 128)

	v.SetDefault("portfolio.dir", "portfolio")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("api.base_url", "BASE_URL")
	v.BindEnv("api.cookie", "COOKIE")
	v.BindEnv("api.session_token", "AE_S")
	v.BindEnv("api.verification_token", "AE_V")
}

// Validate checks the configuration. Session credentials are only
// required when the tool will talk to the live platform; mock mode
// runs without them.
func (c *Config) Validate(mock bool) error {
	if !mock {
		if c.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is required (set BASE_URL or use --mock)")
		}
		if c.API.Cookie == "" {
			return fmt.Errorf("api.cookie is required (set COOKIE or use --mock)")
		}
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	if c.API.BackoffFactor < 0 {
		return fmt.Errorf("api.backoff_factor must not be negative, got %g", c.API.BackoffFactor)
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %g", c.API.RateLimit)
	}
	if c.API.RateBurst < 1 {
		return fmt.Errorf("api.rate_burst must be at least 1, got %d", c.API.RateBurst)
	}
	if c.API.CacheSize < 0 {
		return fmt.Errorf("api.cache_size must not be negative, got %d", c.API.CacheSize)
	}
	if c.Portfolio.Dir == "" {
		return fmt.Errorf("portfolio.dir must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}
