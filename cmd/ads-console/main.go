package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radiusdt/ads-console/internal/config"
	"github.com/radiusdt/ads-console/internal/console"
	"github.com/radiusdt/ads-console/internal/httpserver"
	"github.com/radiusdt/ads-console/internal/metrics"
	"github.com/radiusdt/ads-console/internal/middleware"
	"github.com/radiusdt/ads-console/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting ads console",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
	)

	// Load seed data
	seed, err := storage.LoadSeed(cfg.Console.SeedPath)
	if err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}
	repo, err := storage.NewRepoFromSeed(seed)
	if err != nil {
		logger.Fatal("failed to build product repo", zap.Error(err))
	}
	logger.Info("seed loaded",
		zap.Int("products", repo.Len()),
		zap.Int("columns", len(seed.Columns)),
	)

	m := metrics.NewMetrics("ads_console", nil)

	chartMetrics := make([]console.ChartMetric, 0, len(cfg.Console.ChartMetrics))
	for _, s := range cfg.Console.ChartMetrics {
		cm, err := console.ParseChartMetric(s)
		if err != nil {
			logger.Fatal("invalid chart metric", zap.Error(err))
		}
		chartMetrics = append(chartMetrics, cm)
	}

	var rng *rand.Rand
	if cfg.Console.SeriesSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.Console.SeriesSeed))
	}

	surface := console.NewMemorySurface()
	c, err := console.New(console.Options{
		Repo:         repo,
		Columns:      seed.Columns,
		Generator:    console.NewSeriesGenerator(rng, cfg.Console.SeriesDays),
		Surface:      surface,
		ChartMetrics: chartMetrics,
		Logger:       logger.Named("console"),
		Metrics:      m,
	})
	if err != nil {
		logger.Fatal("failed to create console", zap.Error(err))
	}

	var limiter *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimitMiddleware(cfg.RateLimit, logger, m)
	}

	// Create HTTP server
	deps := &httpserver.Dependencies{
		Console:     c,
		Surface:     surface,
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		RateLimiter: limiter,
	}

	handler := httpserver.NewServer(deps)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if limiter != nil {
		go cleanupLimiters(ctx, limiter)
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	c.CloseReport()
	logger.Info("server stopped")
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimitMiddleware) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupIPLimiters()
		}
	}
}
