// Package render turns a rewritten chart into report bytes: the SVG markup
// itself, or a PNG screenshot taken by a headless Chromium.
package render

// PageHTML embeds svg in a margin-free HTML page for rasterization.
func PageHTML(svg string) string {
	return "<html><body style='margin:0'>" + svg + "</body></html>"
}
