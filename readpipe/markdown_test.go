package readpipe

import (
	"strings"
	"testing"
)

func TestMarkdownSuccess(t *testing.T) {
	res := &ReadResult{
		Content:     "Body",
		Title:       "T",
		Author:      "A",
		URL:         "https://example.com/a",
		ContentType: ContentHTML,
	}

	out := Markdown(res)

	for _, want := range []string{"# T", "**Author**: A", "Body", "**Type**: HTML", "https://example.com/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "References") {
		t.Error("unexpected References section for empty reference list")
	}
}

func TestMarkdownUnknownTitle(t *testing.T) {
	res := &ReadResult{Content: "x", URL: "u", ContentType: ContentPDF}
	out := Markdown(res)
	if !strings.Contains(out, "# Unknown Title") {
		t.Errorf("expected title placeholder:\n%s", out)
	}
	if !strings.Contains(out, "**Type**: PDF") {
		t.Errorf("expected upper-case content type:\n%s", out)
	}
}

func TestMarkdownReferences(t *testing.T) {
	res := &ReadResult{
		Content:     "x",
		URL:         "u",
		ContentType: ContentHTML,
		References:  []string{"DOI: 10.1/a", "arXiv:2301.00001"},
	}
	out := Markdown(res)
	if !strings.Contains(out, "## References") {
		t.Errorf("missing References section:\n%s", out)
	}
	if !strings.Contains(out, "- DOI: 10.1/a") || !strings.Contains(out, "- arXiv:2301.00001") {
		t.Errorf("missing reference bullets:\n%s", out)
	}
}

func TestMarkdownFailure(t *testing.T) {
	res := &ReadResult{URL: "https://example.com/x", Error: "HTML read failed: boom"}
	out := Markdown(res)
	if !strings.Contains(out, "# Read Failed") {
		t.Errorf("missing failure heading:\n%s", out)
	}
	if !strings.Contains(out, "HTML read failed: boom") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "https://example.com/x") {
		t.Errorf("missing URL line:\n%s", out)
	}
}

func TestMarkdownIdempotent(t *testing.T) {
	res := &ReadResult{
		Content: "Body", Title: "T", URL: "u", ContentType: ContentHTML,
		References: []string{"[1] Something long enough"},
	}
	if Markdown(res) != Markdown(res) {
		t.Error("Markdown is not idempotent for identical input")
	}
}
