package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the ads console.
type Config struct {
	Server    ServerConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Console   ConsoleConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// ConsoleConfig configures the console core.
type ConsoleConfig struct {
	// SeedPath points at a YAML seed document. Empty uses the built-in seed.
	SeedPath string
	// SeriesDays is the report window; the series holds SeriesDays+1 points.
	SeriesDays int
	// SeriesSeed seeds the report generator. 0 seeds from the clock.
	SeriesSeed int64
	// ChartMetrics is the initial chart selection of a report.
	ChartMetrics []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADS_CONSOLE_HTTP_ADDR", ":8080"),
			Env:             getEnv("ADS_CONSOLE_ENV", "development"),
			ShutdownTimeout: getDurationEnv("ADS_CONSOLE_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("ADS_CONSOLE_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("ADS_CONSOLE_RATE_LIMIT_RPS", 50),
			Burst:   getIntEnv("ADS_CONSOLE_RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("ADS_CONSOLE_LOG_LEVEL", "info"),
			Format: getEnv("ADS_CONSOLE_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("ADS_CONSOLE_METRICS_ENABLED", true),
			Path:    getEnv("ADS_CONSOLE_METRICS_PATH", "/metrics"),
		},
		Console: ConsoleConfig{
			SeedPath:     getEnv("ADS_CONSOLE_SEED_PATH", ""),
			SeriesDays:   getIntEnv("ADS_CONSOLE_SERIES_DAYS", 30),
			SeriesSeed:   getInt64Env("ADS_CONSOLE_SERIES_SEED", 0),
			ChartMetrics: getSliceEnv("ADS_CONSOLE_CHART_METRICS", []string{"sales", "orders", "impressions"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Console.SeriesDays <= 0 {
		return fmt.Errorf("ADS_CONSOLE_SERIES_DAYS must be positive, got %d", c.Console.SeriesDays)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("ADS_CONSOLE_LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("ADS_CONSOLE_METRICS_PATH must start with /")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getInt64Env(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
