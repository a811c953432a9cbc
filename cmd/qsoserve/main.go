package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/qsolog/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/qsolog/internal/adapter/kafka"
	"github.com/couchcryptid/qsolog/internal/config"
	"github.com/couchcryptid/qsolog/internal/observability"
	"github.com/couchcryptid/qsolog/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	p := pipeline.New(logger, metrics, pipeline.Options{
		KnownCallsOnly: cfg.KnownCallsOnly,
		FuzzWindow:     cfg.FuzzWindow,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load and merge the logs, then publish the merged set when enabled.
	var writer *kafkaadapter.Writer
	if cfg.KafkaPublish {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
	}
	go func() {
		res, err := p.Run(ctx, cfg.Files)
		if err != nil {
			logger.Error("pipeline error", "error", err)
			return
		}
		if writer == nil {
			return
		}
		if err := writer.Publish(ctx, res.QSOs); err != nil {
			logger.Error("kafka publish error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
