// Command report serves the Buenos Aires draft calculator: a one-button web
// page that fetches the latest SHN tide chart, rewrites its tide ticks as
// drafts with gangway, and returns the chart as a PNG or SVG download.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/tide-draft-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/tide-draft-report/internal/adapter/kafka"
	"github.com/couchcryptid/tide-draft-report/internal/adapter/render"
	"github.com/couchcryptid/tide-draft-report/internal/adapter/shn"
	"github.com/couchcryptid/tide-draft-report/internal/config"
	"github.com/couchcryptid/tide-draft-report/internal/domain"
	"github.com/couchcryptid/tide-draft-report/internal/observability"
	"github.com/couchcryptid/tide-draft-report/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	table := domain.DefaultDraftTable()
	if cfg.DraftTableFile != "" {
		table, err = domain.LoadDraftTable(cfg.DraftTableFile)
		if err != nil {
			logger.Error("failed to load draft table", "path", cfg.DraftTableFile, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("draft table loaded", "keys", table.Len(), "file", cfg.DraftTableFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PNG output needs a browser; start it up front so /readyz reflects it.
	var renderer report.Renderer = render.SVG{}
	var chromium *render.Chromium
	if cfg.OutputFormat == config.FormatPNG {
		chromium = render.NewChromium(render.ChromiumConfig{
			Bin:    cfg.BrowserBin,
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		}, logger)
		if err := chromium.Start(ctx); err != nil {
			logger.Warn("browser start failed, will retry on first report", "error", err)
		}
		renderer = chromium
	}

	// Report events are optional (KAFKA_BROKERS).
	var publisher report.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report events disabled")
	}

	fetcher := shn.NewClient(cfg.SourceURL, cfg.FetchTimeout, metrics, logger)
	gen := report.New(fetcher, table, renderer, publisher, cfg.OutputBasename, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, gen, gen, logger)

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
	if chromium != nil {
		if err := chromium.Close(); err != nil {
			logger.Error("browser close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
