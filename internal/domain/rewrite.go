package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ChartTitle replaces the SHN chart title.
const ChartTitle = "BUENOS AIRES Wind Corrected Tides with Drafts"

var (
	// tickLabelRe matches a y-axis tick label anchored at x="-5", capturing the
	// opening tag, the y coordinate, and the label text.
	tickLabelRe = regexp.MustCompile(`(<text[^>]*x=["']-5["'][^>]*y=["']([\d.]+)[^>]*>)(.*?)(</text>)`)

	// chartTitleRe spans from the title prefix to the first closing parenthesis,
	// across line breaks.
	chartTitleRe = regexp.MustCompile(`(?is)Altura del nivel del agua.*?\)`)
)

// LabelMatch is one tick label found in the chart markup.
type LabelMatch struct {
	OpenTag string // e.g. <text x="-5" y="412.5" text-anchor="end">
	Y       string
	Text    string
}

// Markup returns the exact original element text.
func (m LabelMatch) Markup() string {
	return m.OpenTag + m.Text + "</text>"
}

// RewriteStats summarizes one RewriteChart pass.
type RewriteStats struct {
	Labels        int  `json:"labels"`
	Rewritten     int  `json:"rewritten"`
	Skipped       int  `json:"skipped"`
	TitleReplaced bool `json:"title_replaced"`
}

// FindTickLabels returns the tick labels of svg in document order.
func FindTickLabels(svg string) []LabelMatch {
	found := tickLabelRe.FindAllStringSubmatch(svg, -1)
	matches := make([]LabelMatch, 0, len(found))
	for _, m := range found {
		matches = append(matches, LabelMatch{OpenTag: m[1], Y: m[2], Text: m[3]})
	}
	return matches
}

// DraftLabel renders the replacement element for a snapped tick.
func DraftLabel(y string, key, draft float64) string {
	return fmt.Sprintf(`<text x="115" y="%s" text-anchor="end" font-size="20" fill="blue">Tide %.1f = Draft with Gangway %.2f m</text>`,
		y, key, draft)
}

// RewriteChart returns a copy of svg with every snappable tick label replaced
// by its draft label and the chart title swapped for ChartTitle.
//
// Replacement is textual: each match substitutes all occurrences of its exact
// original markup. Labels that do not parse or snap are left untouched.
func (t *DraftTable) RewriteChart(svg string) (string, RewriteStats) {
	var stats RewriteStats
	out := svg

	for _, m := range FindTickLabels(svg) {
		stats.Labels++

		tide, ok := ParseTick(m.Text)
		if !ok {
			stats.Skipped++
			continue
		}
		key, draft, ok := t.Snap(tide)
		if !ok {
			stats.Skipped++
			continue
		}

		out = strings.ReplaceAll(out, m.Markup(), DraftLabel(m.Y, key, draft))
		stats.Rewritten++
	}

	if chartTitleRe.MatchString(out) {
		out = chartTitleRe.ReplaceAllLiteralString(out, ChartTitle)
		stats.TitleReplaced = true
	}
	return out, stats
}
