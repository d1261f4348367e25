package readpipe

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildOnePagePDF assembles a minimal valid single-page PDF with an Info
// dictionary and one text-showing content stream. Object offsets are
// recorded while writing so the xref table is correct by construction.
func buildOnePagePDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 7)

	buf.WriteString("%PDF-1.4\n")
	add := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	stream := "BT\n/F1 12 Tf\n(Hello PDF page one) Tj\nET"
	add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>")
	add(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	add(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	add(6, "<< /Title (Minimal Fixture) /Author (Test Author) /CreationDate (D:20240102030405Z) >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 7\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 7 /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractPDFOnePage(t *testing.T) {
	ext, err := extractPDF(buildOnePagePDF())
	if err != nil {
		t.Fatal(err)
	}

	if ext.meta.title != "Minimal Fixture" {
		t.Errorf("title = %q", ext.meta.title)
	}
	if ext.meta.author != "Test Author" {
		t.Errorf("author = %q", ext.meta.author)
	}
	if ext.meta.publishDate != "2024-01-02" {
		t.Errorf("publishDate = %q", ext.meta.publishDate)
	}

	if !strings.Contains(ext.text, "## Page 1") {
		t.Errorf("missing page marker:\n%s", ext.text)
	}
	if !strings.Contains(ext.text, "Hello PDF page one") {
		t.Errorf("missing page text:\n%s", ext.text)
	}
}

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		stamp string
		want  string
	}{
		{"D:20230615120000", "2023-06-15"},
		{"D:20230615120000+02'00'", "2023-06-15"},
		{"D:20230615", "2023-06-15"},
		{"20230615120000", ""},
		{"D:2023", ""},
		{"", ""},
		{"garbage", ""},
	}
	for _, tt := range tests {
		if got := parsePDFDate(tt.stamp); got != tt.want {
			t.Errorf("parsePDFDate(%q) = %q, want %q", tt.stamp, got, tt.want)
		}
	}
}

func TestScanContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Hello ) Tj\n(world) Tj\nT*\n(next line) Tj\nET\n")
	got := scanContentStream(stream)
	if !strings.Contains(got, "Hello world") {
		t.Errorf("missing shown text: %q", got)
	}
	if !strings.Contains(got, "next line") {
		t.Errorf("missing T* line: %q", got)
	}
}

func TestScanContentStreamTJArray(t *testing.T) {
	stream := []byte("[(Frag) -250 (mented)] TJ\n")
	got := scanContentStream(stream)
	if !strings.Contains(got, "Frag") || !strings.Contains(got, "mented") {
		t.Errorf("TJ fragments missing: %q", got)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\(b\)c`, "a(b)c"},
		{`tab\there`, "tab\there"},
		{`oct\040al`, "oct al"},
		{`back\\slash`, `back\slash`},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "a\n\n\n\n\nb\n\nc"
	want := "a\n\nb\n\nc"
	if got := collapseBlankLines(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTidyPageText(t *testing.T) {
	in := "  double  spaces\nand\x00control\x01chars  "
	got := tidyPageText(in)
	if strings.Contains(got, "  ") {
		t.Errorf("space runs survived: %q", got)
	}
	if strings.ContainsAny(got, "\x00\x01") {
		t.Errorf("control chars survived: %q", got)
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	if _, err := extractPDF([]byte("not a pdf at all")); err == nil {
		t.Error("expected error for non-PDF bytes")
	}
}
