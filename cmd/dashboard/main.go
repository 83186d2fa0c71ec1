package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/fathomscience/fischcast-qc/internal/adapter/http"
	kafkaadapter "github.com/fathomscience/fischcast-qc/internal/adapter/kafka"
	"github.com/fathomscience/fischcast-qc/internal/config"
	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/observability"
	"github.com/fathomscience/fischcast-qc/internal/report"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := dataset.NewStore(logger, metrics)
	reports := report.NewCache(cfg.ReportCacheSize, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, reports, metrics, logger,
		httpadapter.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. Readiness stays failing until a snapshot loads.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var reader *kafkaadapter.SnapshotReader
	switch cfg.DatasetSource {
	case config.SourceKafka:
		reader = kafkaadapter.NewSnapshotReader(cfg, store, logger)
		go func() {
			if err := reader.Run(ctx); err != nil {
				logger.Error("dataset reader error", "error", err)
			}
		}()
	default:
		if _, err := dataset.LoadFile(store, cfg.DatasetPath); err != nil {
			logger.Error("initial dataset load failed", "path", cfg.DatasetPath, "error", err)
		}
		if cfg.DatasetReloadInterval > 0 {
			w := dataset.NewWatcher(store, cfg.DatasetPath, cfg.DatasetReloadInterval, logger)
			go func() {
				if err := w.Run(ctx); err != nil {
					logger.Error("dataset watcher error", "error", err)
				}
			}()
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
