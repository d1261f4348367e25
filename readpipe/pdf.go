package readpipe

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractPDF opens raw PDF bytes and returns per-page text joined with page
// markers, plus document metadata from the Info dictionary. A scanned PDF
// with no text layer legitimately yields empty text: the PDF path does not
// treat that as a failure.
func extractPDF(data []byte) (*extraction, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	meta := pdfMetadata(ctx)

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		text := pageText(ctx, pageNr)
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, "## Page "+strconv.Itoa(pageNr)+"\n\n"+text)
	}

	content := collapseBlankLines(strings.Join(pages, "\n\n"))
	return &extraction{text: content, meta: meta}, nil
}

// pdfMetadata reads Title, Author and CreationDate from the Info dict.
// Absent or malformed entries leave fields empty, never error.
func pdfMetadata(ctx *model.Context) metadata {
	var m metadata
	if ctx.Info == nil {
		return m
	}
	dict, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || dict == nil {
		return m
	}
	m.title = infoString(ctx, dict, "Title")
	m.author = infoString(ctx, dict, "Author")
	m.publishDate = parsePDFDate(infoString(ctx, dict, "CreationDate"))
	return m
}

func infoString(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return strings.TrimSpace(s)
		}
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// pdfDateRe matches the date-stamp prefix of a PDF date string (D:YYYYMMDD...).
var pdfDateRe = regexp.MustCompile(`^D:(\d{4})(\d{2})(\d{2})`)

// parsePDFDate converts a PDF creation stamp to YYYY-MM-DD. Stamps not
// matching the D:YYYYMMDD prefix yield an empty string.
func parsePDFDate(stamp string) string {
	m := pdfDateRe.FindStringSubmatch(stamp)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

// pageText extracts the text shown by one page's content stream.
func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return scanContentStream(data)
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// scanContentStream walks a page content stream and collects the text
// shown by the Tj/TJ/' operators, using the positioning operators
// (Td, TD, T*) to approximate line structure.
func scanContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			// ' shows text on the next line.
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}

		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidyPageText(sb.String())
}

// decodePDFString resolves the escape sequences of a PDF string literal,
// including octal escapes like \040.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidyPageText drops non-printable runes and collapses space runs while
// preserving line structure.
func tidyPageText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
	for i, line := range lines {
		var sb strings.Builder
		prevSpace := false
		for _, r := range line {
			if unicode.IsSpace(r) {
				if !prevSpace && sb.Len() > 0 {
					sb.WriteByte(' ')
					prevSpace = true
				}
				continue
			}
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
				prevSpace = false
			}
		}
		lines[i] = strings.TrimSpace(sb.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines reduces runs of 3+ newlines to a single blank line.
func collapseBlankLines(text string) string {
	return blankRunRe.ReplaceAllString(text, "\n\n")
}
