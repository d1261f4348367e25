// Package docgen converts markdown reports into PDF files, so a saved
// document can be exported as a shareable artifact. It renders headings,
// lists, quotes, code blocks, and horizontal rules; images and tables are
// flattened to their text.
package docgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var (
	orderedItemRe = regexp.MustCompile(`^\d+\.\s`)
	italicRe      = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRe  = regexp.MustCompile("`([^`]+)`")
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// Convert renders markdown content as PDF bytes.
func Convert(markdown string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	lines := strings.Split(markdown, "\n")
	inCode := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			pdf.Ln(2)
			continue
		}
		if inCode {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, line, "", "L", true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)

		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			writeHeading(pdf, strings.TrimSpace(strings.TrimLeft(trimmed, "# ")), level)

		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, "• "+stripInline(trimmed[2:]), "", "L", false)

		case orderedItemRe.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, stripInline(trimmed), "", "L", false)

		case strings.HasPrefix(trimmed, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(90, 90, 90)
			pdf.SetLeftMargin(20)
			pdf.MultiCell(0, 5, stripInline(strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))), "", "L", false)
			pdf.SetLeftMargin(10)
			pdf.SetTextColor(0, 0, 0)

		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			pdf.Ln(2)
			x, y := pdf.GetXY()
			w, _ := pdf.GetPageSize()
			pdf.Line(x, y, w-15, y)
			pdf.Ln(3)

		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, stripInline(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("docgen: render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders markdown and writes the PDF to outputPath, appending a
// .pdf suffix when missing and creating parent directories. Returns the
// final path.
func WriteFile(markdown, outputPath string) (string, error) {
	if !strings.HasSuffix(outputPath, ".pdf") {
		outputPath += ".pdf"
	}
	data, err := Convert(markdown)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("docgen: mkdir: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("docgen: write: %w", err)
	}
	return outputPath, nil
}

func writeHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := []float64{18, 15, 13, 12, 11, 10}
	size := 10.0
	if level >= 1 && level <= len(sizes) {
		size = sizes[level-1]
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, stripInline(text), "", "L", false)
	pdf.Ln(2)
}

// stripInline removes inline markdown markers, keeping the visible text.
func stripInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRe.ReplaceAllString(text, " $1 ")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
