package readpipe

// ContentType identifies which extraction path produced a result.
type ContentType string

const (
	ContentHTML ContentType = "html"
	ContentPDF  ContentType = "pdf"
)

// ReadResult is the single output shape of the pipeline, for success and
// failure alike. Exactly one of Error / non-empty Content is populated:
// a failure short-circuits before content assembly, and partial metadata
// gathered before the failure is dropped.
type ReadResult struct {
	Content     string      `json:"content"`
	Title       string      `json:"title,omitempty"`
	Author      string      `json:"author,omitempty"`
	PublishDate string      `json:"publish_date,omitempty"`
	URL         string      `json:"url"`
	ContentType ContentType `json:"content_type"`
	References  []string    `json:"references,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Failed reports whether the read ended in the error state.
func (r *ReadResult) Failed() bool {
	return r.Error != ""
}

// metadata carries the optional document fields shared by both extractors.
type metadata struct {
	title       string
	author      string
	publishDate string
}

// extraction is the outcome of a format-specific extraction pass.
type extraction struct {
	text string
	meta metadata
}
