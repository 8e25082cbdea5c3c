// Command ingest performs a single ingestion run and exits. Exit code 0 means
// the run finished (including skipped runs); a non-zero exit means the run
// failed and is worth retrying.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atgilet/ffcv-ingest/internal/app"
	"github.com/atgilet/ffcv-ingest/internal/config"
	"github.com/atgilet/ffcv-ingest/internal/observability"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		if err := shutdownUptrace(context.Background()); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() { _ = application.Close() }()

	ingested, err := application.IngestService.Run(ctx)
	if err != nil {
		logger.Error("ingestion run failed",
			"run_id", ingested.ID,
			"status", ingested.Status,
			"error", err,
		)
		return 1
	}

	logger.Info("ingestion run finished",
		"run_id", ingested.ID,
		"status", ingested.Status,
		"parsed_matches", ingested.ParsedMatches,
		"updated_matches", ingested.UpdatedMatches,
	)
	return 0
}
