package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/salsa-ratings-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/salsa-ratings-service/internal/adapter/kafka"
	"github.com/couchcryptid/salsa-ratings-service/internal/adapter/mapbox"
	"github.com/couchcryptid/salsa-ratings-service/internal/adapter/redisstore"
	"github.com/couchcryptid/salsa-ratings-service/internal/adapter/sheet"
	"github.com/couchcryptid/salsa-ratings-service/internal/config"
	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/observability"
	"github.com/couchcryptid/salsa-ratings-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	coords := domain.DefaultCoordinates()
	if cfg.CoordinatesFile != "" {
		overrides, err := domain.LoadCoordinates(cfg.CoordinatesFile)
		if err != nil {
			logger.Error("failed to load coordinates file", "path", cfg.CoordinatesFile, "error", err)
			os.Exit(1)
		}
		coords = coords.Merge(overrides)
		logger.Info("coordinate overrides loaded", "path", cfg.CoordinatesFile, "entries", len(overrides))
	}

	opts := pipeline.Options{
		Coordinates: coords,
		Interval:    cfg.RefreshInterval,
		Clock:       clock,
	}

	// Geocoding of restaurants missing from the coordinate table (MAPBOX_ENABLED / MAPBOX_TOKEN).
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxRateLimit, metrics, logger)
		opts.Geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled",
			"cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "rate_limit", cfg.MapboxRateLimit)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var closers []func() error

	if cfg.RedisEnabled() {
		store, client := redisstore.Dial(cfg.RedisAddr, cfg.RedisKey)
		opts.Store = store
		closers = append(closers, client.Close)
		logger.Info("last-known-good cache enabled", "addr", cfg.RedisAddr, "key", cfg.RedisKey)
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		opts.Publisher = writer
		closers = append(closers, writer.Close)
		logger.Info("rating events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	fetcher := sheet.NewClient(cfg.SheetURL, cfg.SheetTimeout, clock, logger)
	refresher := pipeline.New(fetcher, opts, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the refresh loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("refresher did not stop before shutdown timeout")
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
