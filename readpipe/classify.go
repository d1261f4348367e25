package readpipe

import (
	"net/url"
	"strings"
)

// pdfSignals are provider-specific substrings indicating a PDF delivery
// endpoint even without a .pdf suffix. "export=download" is the query
// parameter cloud-drive preview links use for direct downloads.
var pdfSignals = []string{
	"/pdf/",
	"/download/pdf",
	"arxiv.org/pdf",
	"export=download",
}

// Classify decides which extraction path a URL takes. Pure, no network
// access: a PDF served without any recognizable signal classifies as HTML,
// which is an accepted limitation.
func Classify(rawURL string) ContentType {
	if u, err := url.Parse(rawURL); err == nil {
		if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
			return ContentPDF
		}
	}

	lower := strings.ToLower(rawURL)
	for _, sig := range pdfSignals {
		if strings.Contains(lower, sig) {
			return ContentPDF
		}
	}
	return ContentHTML
}
