package report

import (
	"time"

	"github.com/couchcryptid/tide-draft-report/internal/domain"
)

// Report is one generated draft chart, ready to display or download.
type Report struct {
	ID          string
	Format      string
	Filename    string
	ContentType string
	Body        []byte
	SourceURL   string
	GeneratedAt time.Time
	Stats       domain.RewriteStats
}

// Event is the record published for every generated report.
type Event struct {
	ID          string              `json:"id"`
	Format      string              `json:"format"`
	Filename    string              `json:"filename"`
	SourceURL   string              `json:"source_url"`
	SizeBytes   int                 `json:"size_bytes"`
	GeneratedAt time.Time           `json:"generated_at"`
	Stats       domain.RewriteStats `json:"stats"`
}

// Event summarizes r without its body.
func (r Report) Event() Event {
	return Event{
		ID:          r.ID,
		Format:      r.Format,
		Filename:    r.Filename,
		SourceURL:   r.SourceURL,
		SizeBytes:   len(r.Body),
		GeneratedAt: r.GeneratedAt,
		Stats:       r.Stats,
	}
}
