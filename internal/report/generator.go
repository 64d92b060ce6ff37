// Package report generates draft charts: fetch the SHN chart, rewrite its
// tide labels, and render the result.
package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/tide-draft-report/internal/domain"
	"github.com/couchcryptid/tide-draft-report/internal/observability"
)

// ChartFetcher downloads the source chart markup.
type ChartFetcher interface {
	FetchChart(ctx context.Context) (string, error)
	SourceURL() string
}

// Renderer converts rewritten chart markup into report bytes.
type Renderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, svg string) ([]byte, error)
}

// EventPublisher records generated reports. Publishing is best effort.
type EventPublisher interface {
	PublishReport(ctx context.Context, event Event) error
}

type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Generator runs one isolated fetch-rewrite-render cycle per call.
type Generator struct {
	fetcher   ChartFetcher
	table     *domain.DraftTable
	renderer  Renderer
	publisher EventPublisher
	basename  string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Generator. publisher may be nil to disable report events.
func New(f ChartFetcher, table *domain.DraftTable, r Renderer, p EventPublisher, basename string, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{
		fetcher:   f,
		table:     table,
		renderer:  r,
		publisher: p,
		basename:  basename,
		logger:    logger,
		metrics:   metrics,
	}
}

// Filename is the download name of reports produced by this generator.
func (g *Generator) Filename() string {
	return g.basename + "." + g.renderer.Format()
}

// CheckReadiness delegates to the renderer when it has a readiness probe.
func (g *Generator) CheckReadiness(ctx context.Context) error {
	if rc, ok := g.renderer.(readinessChecker); ok {
		err := rc.CheckReadiness(ctx)
		if err != nil {
			g.metrics.RendererReady.Set(0)
		} else {
			g.metrics.RendererReady.Set(1)
		}
		return err
	}
	return nil
}

// Generate produces a report. Every failure is returned as *Error.
func (g *Generator) Generate(ctx context.Context) (Report, error) {
	start := time.Now()
	id := uuid.NewString()
	logger := g.logger.With("report_id", id)

	svg, err := g.fetcher.FetchChart(ctx)
	if err != nil {
		return Report{}, g.fail(logger, StageFetch, err)
	}
	if !strings.Contains(svg, "<svg") {
		return Report{}, g.fail(logger, StageTransform, ErrNotSVG)
	}

	rewritten, stats := g.table.RewriteChart(svg)
	g.metrics.LabelsRewritten.Observe(float64(stats.Rewritten))
	logger.Debug("chart rewritten",
		"labels", stats.Labels,
		"rewritten", stats.Rewritten,
		"skipped", stats.Skipped,
		"title_replaced", stats.TitleReplaced,
	)

	renderStart := time.Now()
	body, err := g.renderer.Render(ctx, rewritten)
	g.metrics.RenderDuration.WithLabelValues(g.renderer.Format()).Observe(time.Since(renderStart).Seconds())
	if err != nil {
		return Report{}, g.fail(logger, StageRender, err)
	}

	r := Report{
		ID:          id,
		Format:      g.renderer.Format(),
		Filename:    g.Filename(),
		ContentType: g.renderer.ContentType(),
		Body:        body,
		SourceURL:   g.fetcher.SourceURL(),
		GeneratedAt: domain.Now(),
		Stats:       stats,
	}

	g.metrics.ReportsGenerated.WithLabelValues(r.Format).Inc()
	g.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	logger.Info("report generated",
		"format", r.Format,
		"bytes", len(body),
		"labels_rewritten", stats.Rewritten,
		"duration", time.Since(start),
	)

	g.publish(ctx, logger, r)
	return r, nil
}

func (g *Generator) fail(logger *slog.Logger, stage Stage, err error) error {
	g.metrics.ReportFailures.WithLabelValues(string(stage)).Inc()
	logger.Error("report generation failed", "stage", stage, "error", err)
	return &Error{Stage: stage, Err: err}
}

func (g *Generator) publish(ctx context.Context, logger *slog.Logger, r Report) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.PublishReport(ctx, r.Event()); err != nil {
		g.metrics.EventsPublished.WithLabelValues("error").Inc()
		logger.Warn("publish report event failed", "error", err)
		return
	}
	g.metrics.EventsPublished.WithLabelValues("success").Inc()
}
