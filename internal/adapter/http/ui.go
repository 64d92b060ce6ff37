package http

import (
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/tide-draft-report/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// reportCaption labels the rendered chart on the result page.
const reportCaption = "Updated Oyarbide Forecast"

type pageData struct {
	Error  string
	Report *reportView
}

type reportView struct {
	DataURI     template.URL
	Filename    string
	Caption     string
	FormatLabel string
	GeneratedAt string
}

func newReportView(r report.Report) *reportView {
	uri := "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.Body)
	return &reportView{
		DataURI:     template.URL(uri), //nolint:gosec // body is produced by this service
		Filename:    r.Filename,
		Caption:     reportCaption,
		FormatLabel: strings.ToUpper(r.Format),
		GeneratedAt: r.GeneratedAt.Format(time.RFC1123),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writePage(w, http.StatusOK, pageData{})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	rpt, err := s.generator.Generate(r.Context())
	if err != nil {
		s.writePage(w, errorStatus(err), pageData{Error: err.Error()})
		return
	}
	s.writePage(w, http.StatusOK, pageData{Report: newReportView(rpt)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rpt, err := s.generator.Generate(r.Context())
	if err != nil {
		http.Error(w, "Error: "+err.Error(), errorStatus(err))
		return
	}
	w.Header().Set("Content-Type", rpt.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rpt.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rpt.Body); err != nil {
		s.logger.Warn("write report download failed", "report_id", rpt.ID, "error", err)
	}
}

func (s *Server) writePage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.ExecuteTemplate(w, "page", data); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// errorStatus maps generation failures to 502; anything else is a 500.
func errorStatus(err error) int {
	var rerr *report.Error
	if errors.As(err, &rerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
