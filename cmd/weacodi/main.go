package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/weacodi-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weacodi-service/internal/adapter/kafka"
	"github.com/couchcryptid/weacodi-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weacodi-service/internal/config"
	"github.com/couchcryptid/weacodi-service/internal/observability"
	"github.com/couchcryptid/weacodi-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(openmeteo.Options{
		BaseURL:   cfg.OpenMeteoURL,
		Timeout:   cfg.OpenMeteoTimeout,
		RateLimit: cfg.OpenMeteoRateLimit,
		Burst:     cfg.OpenMeteoBurst,
	}, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Series publishing is feature-flagged via KAFKA_ENABLED.
	var (
		writer    *kafkaadapter.Writer
		pub       pipeline.SeriesPublisher
		published = make(chan struct{})
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher := pipeline.NewPublisher(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval)
		pub = publisher
		logger.Info("series publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)

		go func() {
			defer close(published)
			if err := publisher.Run(ctx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	} else {
		close(published)
		logger.Info("series publishing disabled")
	}

	svc := pipeline.NewService(client, pub, logger)
	cached := pipeline.NewCachedService(svc, cfg.CacheTTL, clockwork.NewRealClock(), metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cached, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
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
	case <-published:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown deadline")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
