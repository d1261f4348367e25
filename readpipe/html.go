package readpipe

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// errNoContent is the HTML path's empty-extraction failure. An empty
// content pass is an error, never a successful empty result.
var errNoContent = errors.New("no extractable main content: likely an image-only or heavily protected page")

const (
	mainContentSelectors = "article, main, div[role='main'], #main-content, #content, .post-content, .article-body, .entry-content, .markdown-body"

	noiseSelectors = "script, style, noscript, nav, header, footer, aside, form, iframe, " +
		".sidebar, .comments, .comment, .advertisement, .ad, .ads, .ad-banner, .social-share, .related-posts, .newsletter, .cookie-banner"
)

// extractHTML reduces raw HTML to markdown plus page metadata. The metadata
// pass and the content pass run concurrently over separate document trees:
// the content pass unlinks noise nodes, so the passes must never share one.
func (p *Pipeline) extractHTML(rawHTML string) (*extraction, error) {
	decoded := decodeHTML(rawHTML)

	var (
		wg       sync.WaitGroup
		meta     metadata
		content  string
		parseErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		// Metadata is best effort; a parse failure here surfaces
		// through the content pass on the same input.
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded)); err == nil {
			meta = extractPageMetadata(doc)
		}
	}()
	go func() {
		defer wg.Done()
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
		if err != nil {
			parseErr = err
			return
		}
		content = p.extractMainContent(doc)
	}()
	wg.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	if strings.TrimSpace(content) == "" {
		return nil, errNoContent
	}

	return &extraction{text: content, meta: meta}, nil
}

// decodeHTML transcodes raw HTML to UTF-8. Pages still ship legacy
// encodings; the charset is sniffed from BOM or meta tags.
func decodeHTML(rawHTML string) string {
	r, err := charset.NewReader(strings.NewReader(rawHTML), "text/html")
	if err != nil {
		return rawHTML
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return rawHTML
	}
	return string(decoded)
}

// extractMainContent strips boilerplate, selects the main content subtree,
// sanitizes it, and converts the remainder to markdown.
func (p *Pipeline) extractMainContent(doc *goquery.Document) string {
	doc.Find(noiseSelectors).Remove()

	sel := doc.Find(mainContentSelectors).First()
	if sel.Length() == 0 {
		sel = doc.Find("body").First()
	}
	if sel.Length() == 0 {
		return ""
	}

	rawHTML, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}

	markdown, err := p.md.ConvertString(p.sanitizer.Sanitize(rawHTML))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(markdown)
}

// metaSelectors lists (selector, attribute) probes in priority order;
// an empty attribute means element text.
type metaProbe struct {
	selector string
	attr     string
}

var (
	titleProbes = []metaProbe{
		{`meta[property="og:title"]`, "content"},
		{`meta[name="twitter:title"]`, "content"},
		{"title", ""},
		{"h1", ""},
	}
	authorProbes = []metaProbe{
		{`meta[name="author"]`, "content"},
		{`meta[property="article:author"]`, "content"},
		{`meta[name="twitter:creator"]`, "content"},
		{`[rel="author"]`, ""},
		{`.author-name`, ""},
	}
	dateProbes = []metaProbe{
		{`meta[property="article:published_time"]`, "content"},
		{`meta[name="date"]`, "content"},
		{`meta[name="publish-date"]`, "content"},
		{`meta[name="dcterms.date"]`, "content"},
		{"time[datetime]", "datetime"},
	}
)

// extractPageMetadata probes document structure for title, author and
// publication date. All fields are best-effort and may stay empty.
func extractPageMetadata(doc *goquery.Document) metadata {
	return metadata{
		title:       probe(doc, titleProbes),
		author:      probe(doc, authorProbes),
		publishDate: normalizeDate(probe(doc, dateProbes)),
	}
}

func probe(doc *goquery.Document, probes []metaProbe) string {
	for _, pr := range probes {
		sel := doc.Find(pr.selector).First()
		if sel.Length() == 0 {
			continue
		}
		var v string
		if pr.attr == "" {
			v = sel.Text()
		} else {
			v, _ = sel.Attr(pr.attr)
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// dateLayouts covers the formats pages actually emit in meta tags.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006",
}

// normalizeDate reduces a raw date string to YYYY-MM-DD when one of the
// known layouts matches; otherwise the raw value passes through untouched.
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
