package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/thywillbedone/movies2u/internal/aggregate"
	"github.com/thywillbedone/movies2u/internal/auth"
	"github.com/thywillbedone/movies2u/internal/config"
	"github.com/thywillbedone/movies2u/internal/geocode"
	httpserver "github.com/thywillbedone/movies2u/internal/http"
	"github.com/thywillbedone/movies2u/internal/metrics"
	"github.com/thywillbedone/movies2u/internal/repository"
	"github.com/thywillbedone/movies2u/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "movies2u").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime: time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	if err := store.RunMigrations(cfg.DBURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	geocoder, err := geocode.NewHTTPClient(cfg.GeocoderURL, cfg.GeocoderAPIKey, time.Duration(cfg.GeocoderTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init geocoder client")
	}

	repo := repository.New(st)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	aggregator := aggregate.New(repo.Movies, collector, logger, cfg.AggregateQueueSize)
	aggregator.Start(ctx)

	server := httpserver.New(cfg, st, repo, geocoder, tokens, aggregator, collector, registry, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	if err := aggregator.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("aggregation queue not fully drained")
	}
}
