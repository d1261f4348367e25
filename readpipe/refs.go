package readpipe

import (
	"regexp"
	"strings"
)

// maxReferences caps the mined reference list.
const maxReferences = 50

var (
	// [12] Author, Title, Year — the text between brackets pairs must be
	// 10-200 chars and bracket-free, which filters out inline math and
	// nested citation runs.
	bracketRefRe = regexp.MustCompile(`\[(\d+)\]\s*([^\[\]]{10,200})`)

	doiRe = regexp.MustCompile(`10\.\d{4,}/\S+`)

	arxivRe = regexp.MustCompile(`(?i)arXiv:\d{4}\.\d{4,5}(?:v\d+)?`)
)

// MineReferences scans extracted text for citation-like strings: bracketed
// numeric citations, DOIs, and arXiv identifiers, in that order. Best-effort
// pattern mining, not a bibliographic parser: it may miss references and
// admit noise. Entries are deduplicated exactly and capped at 50.
func MineReferences(text string) []string {
	var refs []string
	seen := make(map[string]struct{})

	add := func(ref string) {
		if len(refs) >= maxReferences {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	for _, m := range bracketRefRe.FindAllStringSubmatch(text, -1) {
		add("[" + m[1] + "] " + strings.TrimSpace(m[2]))
	}
	for _, doi := range doiRe.FindAllString(text, -1) {
		add("DOI: " + doi)
	}
	for _, id := range arxivRe.FindAllString(text, -1) {
		add(id)
	}

	return refs
}
