// Command render generates one draft report and writes it to disk, without
// starting the web UI.
//
// Usage:
//
//	go run ./cmd/render -format png -out Punta_Indio.png
//	go run ./cmd/render -format svg -url https://api.shn.gob.ar/.../Alturatotal_Palermo.svg
//
// Settings not given as flags come from the same environment variables as
// the server (FETCH_TIMEOUT, BROWSER_BIN, VIEWPORT_WIDTH, DRAFT_TABLE_FILE, ...).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/tide-draft-report/internal/adapter/render"
	"github.com/couchcryptid/tide-draft-report/internal/adapter/shn"
	"github.com/couchcryptid/tide-draft-report/internal/config"
	"github.com/couchcryptid/tide-draft-report/internal/domain"
	"github.com/couchcryptid/tide-draft-report/internal/observability"
	"github.com/couchcryptid/tide-draft-report/internal/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	format := flag.String("format", cfg.OutputFormat, "output format: png or svg")
	sourceURL := flag.String("url", cfg.SourceURL, "SHN chart URL")
	out := flag.String("out", "", "output file (default <OUTPUT_BASENAME>.<format>)")
	flag.Parse()

	if *format != config.FormatPNG && *format != config.FormatSVG {
		return fmt.Errorf("invalid -format %q: must be png or svg", *format)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewUnregisteredMetrics()

	table := domain.DefaultDraftTable()
	if cfg.DraftTableFile != "" {
		if table, err = domain.LoadDraftTable(cfg.DraftTableFile); err != nil {
			return err
		}
	}

	var renderer report.Renderer = render.SVG{}
	if *format == config.FormatPNG {
		chromium := render.NewChromium(render.ChromiumConfig{
			Bin:    cfg.BrowserBin,
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		}, logger)
		defer chromium.Close() //nolint:errcheck // process is exiting
		renderer = chromium
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := shn.NewClient(*sourceURL, cfg.FetchTimeout, metrics, logger)
	gen := report.New(fetcher, table, renderer, nil, cfg.OutputBasename, logger, metrics)

	r, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = r.Filename
	}
	if err := os.WriteFile(path, r.Body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("wrote %s (%d bytes, %d/%d tide labels rewritten)\n", path, len(r.Body), r.Stats.Rewritten, r.Stats.Labels)
	return nil
}
