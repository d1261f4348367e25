package readpipe

import "strings"

// Markdown renders a ReadResult as a human-readable report. Pure function:
// identical inputs produce identical output.
//
// A failed result renders as a short failure report. A successful one
// renders title, a metadata block, a separator, the body, and a trailing
// reference list when references were mined.
func Markdown(res *ReadResult) string {
	if res.Failed() {
		return strings.Join([]string{
			"# Read Failed",
			"**Error**: " + res.Error + "\n**URL**: " + res.URL,
		}, "\n\n")
	}

	var parts []string

	title := res.Title
	if title == "" {
		title = "Unknown Title"
	}
	parts = append(parts, "# "+title)

	var meta []string
	if res.Author != "" {
		meta = append(meta, "**Author**: "+res.Author)
	}
	if res.PublishDate != "" {
		meta = append(meta, "**Published**: "+res.PublishDate)
	}
	meta = append(meta,
		"**Source**: ["+res.URL+"]("+res.URL+")",
		"**Type**: "+strings.ToUpper(string(res.ContentType)))
	parts = append(parts, strings.Join(meta, "\n"))

	parts = append(parts, "---", res.Content)

	if len(res.References) > 0 {
		parts = append(parts, "\n---\n## References\n")
		for _, ref := range res.References {
			parts = append(parts, "- "+ref)
		}
	}

	return strings.Join(parts, "\n\n")
}
