package readpipe

import (
	"strings"
	"sync"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="A Study of Things">
<meta name="author" content="Jane Smith">
<meta property="article:published_time" content="2023-06-15T12:00:00Z">
</head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>A Study of Things</h1>
<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua.</p>
<ul><li>first point</li><li>second point</li></ul>
</article>
<footer>Copyright 2023</footer>
<div class="advertisement">Buy now!</div>
</body>
</html>`

func TestExtractHTML(t *testing.T) {
	p := New(Config{})

	ext, err := p.extractHTML(articleHTML)
	if err != nil {
		t.Fatal(err)
	}

	if ext.meta.title != "A Study of Things" {
		t.Errorf("title = %q", ext.meta.title)
	}
	if ext.meta.author != "Jane Smith" {
		t.Errorf("author = %q", ext.meta.author)
	}
	if ext.meta.publishDate != "2023-06-15" {
		t.Errorf("publishDate = %q", ext.meta.publishDate)
	}

	if !strings.Contains(ext.text, "Lorem ipsum") {
		t.Errorf("body text missing:\n%s", ext.text)
	}
	if strings.Contains(ext.text, "Copyright 2023") {
		t.Errorf("footer boilerplate survived:\n%s", ext.text)
	}
	if strings.Contains(ext.text, "Buy now") {
		t.Errorf("ad block survived:\n%s", ext.text)
	}
}

func TestExtractHTMLPassesShareNoState(t *testing.T) {
	// The content pass unlinks noise nodes while the metadata pass
	// traverses; each pass must work on its own tree. Repeated parallel
	// extraction keeps the race detector on both passes and checks the
	// metadata is unaffected by the content pass's node removal.
	p := New(Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				ext, err := p.extractHTML(articleHTML)
				if err != nil {
					t.Errorf("extractHTML: %v", err)
					return
				}
				if ext.meta.title != "A Study of Things" {
					t.Errorf("title = %q", ext.meta.title)
					return
				}
				if strings.Contains(ext.text, "Buy now") {
					t.Errorf("ad block survived:\n%s", ext.text)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestExtractHTMLBodyTitleFallbackSurvivesContentPass(t *testing.T) {
	// With no head-level title, the title probe falls back to the body's
	// h1 — which must still be reachable regardless of what the content
	// pass removes from its own tree.
	html := `<html><body>
<nav>menu chrome to strip</nav>
<article><h1>Body Only Heading</h1>
<p>Enough paragraph text for the content pass to produce markdown output.</p></article>
</body></html>`

	p := New(Config{})
	ext, err := p.extractHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	if ext.meta.title != "Body Only Heading" {
		t.Errorf("title = %q", ext.meta.title)
	}
}

func TestExtractHTMLMetadataFallbacks(t *testing.T) {
	p := New(Config{})

	html := `<html><head><title>Plain Title</title></head>
<body><article><p>Enough body text to survive extraction and conversion to markdown.</p></article></body></html>`

	ext, err := p.extractHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	if ext.meta.title != "Plain Title" {
		t.Errorf("title fallback = %q", ext.meta.title)
	}
	if ext.meta.author != "" {
		t.Errorf("unexpected author %q", ext.meta.author)
	}
	if ext.meta.publishDate != "" {
		t.Errorf("unexpected date %q", ext.meta.publishDate)
	}
}

func TestExtractHTMLEmptyContent(t *testing.T) {
	p := New(Config{})

	html := `<html><body><nav>menu</nav><script>var x = 1;</script></body></html>`
	if _, err := p.extractHTML(html); err == nil {
		t.Fatal("expected error for page without extractable content")
	}
}

func TestExtractHTMLWhitespaceOnly(t *testing.T) {
	p := New(Config{})

	html := `<html><body><article>

	</article></body></html>`
	if _, err := p.extractHTML(html); err == nil {
		t.Fatal("expected error for whitespace-only content")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2023-06-15T12:00:00Z", "2023-06-15"},
		{"2023-06-15", "2023-06-15"},
		{"January 2, 2006", "2006-01-02"},
		{"unparseable thing", "unparseable thing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDate(tt.in); got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
