package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Fatalf("server: %+v", cfg.Server)
	}
	if cfg.Console.SeriesDays != 30 || cfg.Console.SeedPath != "" || cfg.Console.SeriesSeed != 0 {
		t.Fatalf("console: %+v", cfg.Console)
	}
	if len(cfg.Console.ChartMetrics) != 3 || cfg.Console.ChartMetrics[0] != "sales" {
		t.Fatalf("chart metrics: %v", cfg.Console.ChartMetrics)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatal("default env should be development")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADS_CONSOLE_HTTP_ADDR", ":9999")
	t.Setenv("ADS_CONSOLE_SERIES_DAYS", "14")
	t.Setenv("ADS_CONSOLE_SERIES_SEED", "42")
	t.Setenv("ADS_CONSOLE_CHART_METRICS", "spend, roas")
	t.Setenv("ADS_CONSOLE_RATE_LIMIT_ENABLED", "false")
	t.Setenv("ADS_CONSOLE_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Console.SeriesDays != 14 || cfg.Console.SeriesSeed != 42 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Console.ChartMetrics) != 2 || cfg.Console.ChartMetrics[1] != "roas" {
		t.Fatalf("chart metrics: %v", cfg.Console.ChartMetrics)
	}
	if cfg.RateLimit.Enabled || !cfg.IsProduction() {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("ADS_CONSOLE_SERIES_DAYS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative series days")
	}

	cfg := &Config{
		Log:     LogConfig{Format: "xml"},
		Console: ConsoleConfig{SeriesDays: 30},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
	cfg.Log.Format = "json"
	cfg.RateLimit = RateLimitConfig{Enabled: true, RPS: 0, Burst: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rps")
	}
	cfg.RateLimit.RPS = 1
	cfg.Metrics = MetricsConfig{Enabled: true, Path: "metrics"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative metrics path")
	}
}
