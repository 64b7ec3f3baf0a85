package pdf

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// testStream is one page's content stream for buildPDF. The data is
// written verbatim so tests can supply pre-compressed bytes with a
// matching filter name.
type testStream struct {
	data   []byte
	filter string
}

// buildPDF assembles a minimal PDF with a catalog, a page tree and one
// content stream per page.
func buildPDF(streams []testStream, trailerExtra string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	writeObj := func(num int, body string) {
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(streams))
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(streams)))

	for i, s := range streams {
		page := 3 + 2*i
		writeObj(page, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R >>",
			page+1))
		filter := ""
		if s.filter != "" {
			filter = " /Filter /" + s.filter
		}
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d%s >>\nstream\n", page+1, len(s.data), filter)
		buf.Write(s.data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\n%%%%EOF\n",
		3+2*len(streams), trailerExtra)
	return buf.Bytes()
}

// pdfPage builds an uncompressed content stream showing one string.
func pdfPage(text string) testStream {
	return testStream{
		data: []byte(fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET", text)),
	}
}

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.IsType(t, &Parser{}, parser)
}

func TestFormat(t *testing.T) {
	parser := New()
	assert.Equal(t, domain.FormatPDF, parser.Format())
}

func TestParse_SinglePage(t *testing.T) {
	parser := New()
	ctx := context.Background()

	data := buildPDF([]testStream{pdfPage("Our clinic is open Monday to Friday.")}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Our clinic is open Monday to Friday.", segments[0].Text)
	assert.Equal(t, 1, segments[0].Page)
}

func TestParse_MultiPage(t *testing.T) {
	parser := New()
	ctx := context.Background()

	data := buildPDF([]testStream{
		pdfPage("Opening hours and location."),
		pdfPage("Insurance plans we accept."),
		pdfPage("How to book an appointment."),
	}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	for i, want := range []string{
		"Opening hours and location.",
		"Insurance plans we accept.",
		"How to book an appointment.",
	} {
		assert.Equal(t, want, segments[i].Text)
		assert.Equal(t, i+1, segments[i].Page)
	}
}

func TestParse_MultiLine(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "BT\n72 720 Td\n(Line one) Tj\n0 -14 Td\n(Line two) Tj\nT*\n(Line three) Tj\nET"
	data := buildPDF([]testStream{{data: []byte(content)}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Line one\nLine two\nLine three", segments[0].Text)
}

func TestParse_FlateCompressed(t *testing.T) {
	parser := New()
	ctx := context.Background()

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write([]byte("BT 72 720 Td (Compressed clinic info) Tj ET"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := buildPDF([]testStream{{data: compressed.Bytes(), filter: "FlateDecode"}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Compressed clinic info", segments[0].Text)
	assert.Equal(t, 1, segments[0].Page)
}

func TestParse_TJArray(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "BT 72 720 Td [(Phone:) -250 (555-0142)] TJ ET"
	data := buildPDF([]testStream{{data: []byte(content)}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Phone: 555-0142", segments[0].Text)
}

func TestParse_TJKerningWithinWord(t *testing.T) {
	parser := New()
	ctx := context.Background()

	// Small adjustments are glyph kerning, not word gaps.
	content := "BT 72 720 Td [(Cl) -40 (inic)] TJ ET"
	data := buildPDF([]testStream{{data: []byte(content)}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Clinic", segments[0].Text)
}

func TestParse_EscapedStrings(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BT 72 720 Td (Open \(weekdays\) from 9\0555) Tj ET`
	data := buildPDF([]testStream{{data: []byte(content)}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Open (weekdays) from 9-5", segments[0].Text)
}

func TestParse_HexString(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "BT 72 720 Td <48656C6C6F> Tj ET"
	data := buildPDF([]testStream{{data: []byte(content)}}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Hello", segments[0].Text)
}

func TestParse_ContentsArray(t *testing.T) {
	parser := New()
	ctx := context.Background()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /Contents [4 0 R 5 0 R] >>\nendobj\n")
	first := "BT 72 720 Td (First stream.) Tj ET"
	fmt.Fprintf(&buf, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(first), first)
	second := "BT 72 600 Td (Second stream.) Tj ET"
	fmt.Fprintf(&buf, "5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(second), second)
	buf.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\n%%EOF\n")

	segments, err := parser.Parse(ctx, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "First stream.\nSecond stream.", segments[0].Text)
}

func TestParse_MissingCatalog(t *testing.T) {
	parser := New()
	ctx := context.Background()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj\n<< /Type /Page /Contents 2 0 R >>\nendobj\n")
	content := "BT 72 720 Td (Orphan page text.) Tj ET"
	fmt.Fprintf(&buf, "2 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content)

	segments, err := parser.Parse(ctx, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Orphan page text.", segments[0].Text)
	assert.Equal(t, 1, segments[0].Page)
}

func TestParse_SkipsBlankPages(t *testing.T) {
	parser := New()
	ctx := context.Background()

	data := buildPDF([]testStream{
		pdfPage("Front page."),
		{data: []byte("BT ET")},
		pdfPage("Back page."),
	}, "")

	segments, err := parser.Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "Front page.", segments[0].Text)
	assert.Equal(t, 1, segments[0].Page)
	assert.Equal(t, "Back page.", segments[1].Text)
	assert.Equal(t, 3, segments[1].Page)
}

func TestParse_MissingHeader(t *testing.T) {
	parser := New()
	ctx := context.Background()

	segments, err := parser.Parse(ctx, []byte("plain text pretending to be a pdf"))
	assert.Nil(t, segments)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestParse_NoObjects(t *testing.T) {
	parser := New()
	ctx := context.Background()

	segments, err := parser.Parse(ctx, []byte("%PDF-1.4\nthis file has a header and nothing else\n"))
	assert.Nil(t, segments)
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestParse_NoPages(t *testing.T) {
	parser := New()
	ctx := context.Background()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	buf.WriteString("trailer\n<< /Size 2 /Root 1 0 R >>\n%%EOF\n")

	segments, err := parser.Parse(ctx, buf.Bytes())
	assert.Nil(t, segments)
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestParse_Encrypted(t *testing.T) {
	parser := New()
	ctx := context.Background()

	data := buildPDF([]testStream{pdfPage("secret")}, " /Encrypt 9 0 R")

	segments, err := parser.Parse(ctx, data)
	assert.Nil(t, segments)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
	assert.Contains(t, err.Error(), "encrypted")
}

func TestParse_NoText(t *testing.T) {
	parser := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty text block", content: "BT ET"},
		{name: "whitespace only string", content: "BT 72 720 Td (   ) Tj ET"},
		{name: "drawing without text", content: "0 0 100 100 re f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildPDF([]testStream{{data: []byte(tt.content)}}, "")
			segments, err := parser.Parse(ctx, data)
			assert.Nil(t, segments)
			assert.ErrorIs(t, err, domain.ErrEmptyDocument)
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Parser = (*Parser)(nil)
}

func BenchmarkParse(b *testing.B) {
	parser := New()
	ctx := context.Background()
	data := buildPDF([]testStream{pdfPage("Our clinic is open Monday to Friday.")}, "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = parser.Parse(ctx, data)
	}
}
