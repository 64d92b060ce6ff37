package http_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/tide-draft-report/internal/adapter/http"
	"github.com/couchcryptid/tide-draft-report/internal/report"
)

var testPNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockGenerator struct {
	report report.Report
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context) (report.Report, error) {
	m.calls++
	return m.report, m.err
}

func pngReport() report.Report {
	return report.Report{
		ID:          "rpt-1",
		Format:      "png",
		Filename:    "Punta_Indio.png",
		ContentType: "image/png",
		Body:        testPNG,
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func newTestServer(gen *mockGenerator, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", gen, &mockReadiness{err: readyErr}, slog.Default())
}

func TestIndexShowsGenerateButton(t *testing.T) {
	gen := &mockGenerator{}
	srv := newTestServer(gen, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Buenos Aires Draft Calculator")
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/report">`)
	assert.Contains(t, rec.Body.String(), "Generate Report")
	assert.NotContains(t, rec.Body.String(), "Error:")
	assert.Equal(t, 0, gen.calls, "index must not generate a report")
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := newTestServer(&mockGenerator{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateShowsReport(t *testing.T) {
	gen := &mockGenerator{report: pngReport()}
	srv := newTestServer(gen, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG)
	assert.Contains(t, body, `<img src="`+dataURI+`"`)
	assert.Contains(t, body, `download="Punta_Indio.png"`)
	assert.Contains(t, body, "Download Report (PNG)")
	assert.Contains(t, body, "Updated Oyarbide Forecast")
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateShowsSingleErrorMessage(t *testing.T) {
	gen := &mockGenerator{err: &report.Error{Stage: report.StageFetch, Err: errors.New("status 503")}}
	srv := newTestServer(gen, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: report generation failed (fetch): status 503")
	assert.NotContains(t, rec.Body.String(), "<img")
}

func TestDownloadReturnsAttachment(t *testing.T) {
	srv := newTestServer(&mockGenerator{report: pngReport()}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/download", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Punta_Indio.png`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, testPNG, rec.Body.Bytes())
}

func TestDownloadEscapesFilename(t *testing.T) {
	rpt := pngReport()
	rpt.Filename = `Punta "Indio".png`
	srv := newTestServer(&mockGenerator{report: rpt}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `Punta "Indio".png`, params["filename"])
}

func TestDownloadError(t *testing.T) {
	srv := newTestServer(&mockGenerator{err: &report.Error{Stage: report.StageRender, Err: errors.New("browser crashed")}}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/download", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: report generation failed (render): browser crashed")
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockGenerator{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockGenerator{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockGenerator{}, fmt.Errorf("browser not started"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "browser not started", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockGenerator{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
