package pdf

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles PDF documents.
//
// It is a minimal reader of the PDF object model: it scans indirect
// objects, walks the page tree from the document catalog, inflates
// FlateDecode content streams and collects the text-showing operators
// (Tj, TJ, ' and ") per page. Positioning operators are reduced to
// line breaks. This covers machine-generated documents; scanned
// image-only PDFs yield ErrEmptyDocument.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.DocumentFormat {
	return domain.FormatPDF
}

// Parse extracts text from PDF bytes, one segment per page with
// 1-based page numbers. Pages without text are skipped; their page
// numbers are not reused.
func (p *Parser) Parse(_ context.Context, data []byte) ([]domain.Segment, error) {
	if !hasPDFHeader(data) {
		return nil, fmt.Errorf("%w: missing %%PDF header", domain.ErrCorruptDocument)
	}

	objs := scanObjects(data)
	if len(objs) == 0 {
		return nil, fmt.Errorf("%w: no objects", domain.ErrCorruptDocument)
	}
	if isEncrypted(data, objs) {
		return nil, fmt.Errorf("%w: encrypted", domain.ErrCorruptDocument)
	}

	pages := orderedPages(objs)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no page tree", domain.ErrCorruptDocument)
	}

	segments := make([]domain.Segment, 0, len(pages))
	for i, ref := range pages {
		text := pageText(objs, ref)
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, domain.Segment{Text: text, Page: i + 1})
	}
	if len(segments) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return segments, nil
}

// hasPDFHeader reports whether the %PDF marker appears in the first
// kilobyte. The format permits junk before the header.
func hasPDFHeader(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

// object is one indirect object: its parsed value plus the raw,
// still-encoded stream bytes when the object carries a stream.
type object struct {
	dict   map[string]any
	value  any
	stream []byte
}

var objHeaderRE = regexp.MustCompile(`(\d{1,9})\s+(\d{1,5})\s+obj\b`)

// scanObjects finds every "N G obj ... endobj" in the file and parses
// the object body. The scan is resilient to a damaged or missing xref
// table: object positions come from the header keyword, and matches
// inside a previously consumed stream are ignored. Redefinitions from
// incremental updates overwrite earlier objects.
func scanObjects(data []byte) map[objRef]object {
	objs := make(map[objRef]object)
	skipUntil := 0
	for _, m := range objHeaderRE.FindAllSubmatchIndex(data, -1) {
		if m[0] < skipUntil {
			continue
		}
		num, _ := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, _ := strconv.Atoi(string(data[m[4]:m[5]]))

		l := &lexer{data: data, pos: m[1]}
		val, err := l.parseValue()
		if err != nil {
			continue
		}
		obj := object{value: val}
		if d, ok := val.(map[string]any); ok {
			obj.dict = d
		}

		l.skipSpace()
		if bytes.HasPrefix(data[l.pos:], []byte("stream")) {
			l.pos += len("stream")
			length := -1
			if n, ok := obj.dict["Length"].(int); ok {
				length = n
			}
			obj.stream = l.readStreamData(length)
		}

		objs[objRef{num: num, gen: gen}] = obj
		skipUntil = l.pos
	}
	return objs
}

func sortedRefs(objs map[objRef]object) []objRef {
	refs := make([]objRef, 0, len(objs))
	for r := range objs {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].num != refs[j].num {
			return refs[i].num < refs[j].num
		}
		return refs[i].gen < refs[j].gen
	})
	return refs
}

// isEncrypted reports whether the document declares an /Encrypt
// dictionary, either in a trailer or in a cross-reference stream.
// Encrypted content cannot be extracted without key material.
func isEncrypted(data []byte, objs map[objRef]object) bool {
	for _, r := range sortedRefs(objs) {
		d := objs[r].dict
		if t, _ := d["Type"].(name); t == "XRef" {
			if _, ok := d["Encrypt"]; ok {
				return true
			}
		}
	}
	idx := 0
	for {
		i := bytes.Index(data[idx:], []byte("trailer"))
		if i < 0 {
			return false
		}
		l := &lexer{data: data, pos: idx + i + len("trailer")}
		if v, err := l.parseValue(); err == nil {
			if d, ok := v.(map[string]any); ok {
				if _, ok := d["Encrypt"]; ok {
					return true
				}
			}
		}
		idx += i + len("trailer")
	}
}

// pageTreeLimit caps page tree traversal so a malformed tree of
// self-referencing nodes cannot run away.
const pageTreeLimit = 8192

// orderedPages returns page object references in document order,
// walking the page tree from the catalog. When the catalog is missing
// or broken it falls back to every /Type /Page object in
// object-number order.
func orderedPages(objs map[objRef]object) []objRef {
	var out []objRef
	visited := make(map[objRef]bool)
	if root, ok := catalogPages(objs); ok {
		collectPages(objs, root, visited, &out)
	}
	if len(out) > 0 {
		return out
	}
	for _, ref := range sortedRefs(objs) {
		if t, _ := objs[ref].dict["Type"].(name); t == "Page" {
			out = append(out, ref)
		}
	}
	return out
}

func catalogPages(objs map[objRef]object) (objRef, bool) {
	for _, r := range sortedRefs(objs) {
		d := objs[r].dict
		if t, _ := d["Type"].(name); t != "Catalog" {
			continue
		}
		if pages, ok := d["Pages"].(objRef); ok {
			return pages, true
		}
	}
	return objRef{}, false
}

func collectPages(objs map[objRef]object, ref objRef, visited map[objRef]bool, out *[]objRef) {
	if visited[ref] || len(visited) > pageTreeLimit {
		return
	}
	visited[ref] = true
	obj, ok := objs[ref]
	if !ok || obj.dict == nil {
		return
	}
	typ, _ := obj.dict["Type"].(name)
	kids, hasKids := obj.dict["Kids"].([]any)
	switch {
	case typ == "Pages" || (typ == "" && hasKids):
		for _, kid := range kids {
			if kr, ok := kid.(objRef); ok {
				collectPages(objs, kr, visited, out)
			}
		}
	case typ == "Page":
		*out = append(*out, ref)
	}
}

// pageText decodes the page's content streams and extracts the shown
// text. Streams with unsupported filters are skipped.
func pageText(objs map[objRef]object, page objRef) string {
	var refs []objRef
	switch c := objs[page].dict["Contents"].(type) {
	case objRef:
		refs = []objRef{c}
	case []any:
		for _, el := range c {
			if r, ok := el.(objRef); ok {
				refs = append(refs, r)
			}
		}
	}

	var merged bytes.Buffer
	for _, r := range refs {
		obj, ok := objs[r]
		if !ok || obj.stream == nil {
			continue
		}
		decoded, err := decodeStream(obj)
		if err != nil {
			continue
		}
		if merged.Len() > 0 {
			merged.WriteByte('\n')
		}
		merged.Write(decoded)
	}
	return extractText(merged.Bytes())
}

var errUnsupportedFilter = errors.New("pdf: unsupported stream filter")

func decodeStream(obj object) ([]byte, error) {
	data := obj.stream
	for _, f := range filterNames(obj.dict["Filter"]) {
		var err error
		switch f {
		case "FlateDecode", "Fl":
			data, err = flateDecode(data)
		case "ASCIIHexDecode", "AHx":
			data, err = asciiHexDecode(data)
		default:
			return nil, errUnsupportedFilter
		}
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func filterNames(v any) []string {
	switch f := v.(type) {
	case name:
		return []string{string(f)}
	case []any:
		out := make([]string, 0, len(f))
		for _, el := range f {
			if n, ok := el.(name); ok {
				out = append(out, string(n))
			}
		}
		return out
	}
	return nil
}

// flateDecode inflates a FlateDecode stream. Writers disagree on
// whether the zlib wrapper is present, and a sloppy /Length can leave
// the checksum truncated, so partial output with an error is accepted.
func flateDecode(data []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		out, rerr := io.ReadAll(zr)
		zr.Close()
		if rerr == nil || len(out) > 0 {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

func asciiHexDecode(data []byte) ([]byte, error) {
	var digits []byte
	for _, c := range data {
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		} else if !isSpaceChar(c) {
			return nil, errBadToken
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, errBadToken
	}
	return out, nil
}

// tjWordGap is the TJ kerning adjustment, in thousandths of an em,
// beyond which a gap is rendered as a word space.
const tjWordGap = 180

// extractText runs the content stream and concatenates the text shown
// by Tj, TJ, ' and ". Vertical moves (Td/TD with a y component, T*,
// Tm) and text block ends become line breaks.
func extractText(content []byte) string {
	l := &lexer{data: content}
	var buf bytes.Buffer
	var stack []any

	newline := func() {
		if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			break
		}
		v, err := l.parseValue()
		if err != nil {
			l.pos++
			continue
		}
		kw, ok := v.(keyword)
		if !ok {
			stack = append(stack, v)
			continue
		}
		switch kw {
		case "Tj":
			if s, ok := top(stack).([]byte); ok {
				buf.WriteString(decodeTextString(s))
			}
		case "'", `"`:
			newline()
			if s, ok := top(stack).([]byte); ok {
				buf.WriteString(decodeTextString(s))
			}
		case "TJ":
			if arr, ok := top(stack).([]any); ok {
				writeTJ(&buf, arr)
			}
		case "Td", "TD":
			if ty, ok := numAt(stack, len(stack)-1); ok && ty != 0 {
				newline()
			}
		case "T*", "Tm", "ET":
			newline()
		case "BI":
			l.skipInlineImage()
		}
		stack = stack[:0]
	}
	return strings.TrimSpace(buf.String())
}

func writeTJ(buf *bytes.Buffer, arr []any) {
	for _, el := range arr {
		switch e := el.(type) {
		case []byte:
			buf.WriteString(decodeTextString(e))
		case int:
			if e <= -tjWordGap {
				buf.WriteByte(' ')
			}
		case float64:
			if e <= -tjWordGap {
				buf.WriteByte(' ')
			}
		}
	}
}

func top(stack []any) any {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func numAt(stack []any, i int) (float64, bool) {
	if i < 0 || i >= len(stack) {
		return 0, false
	}
	switch v := stack[i].(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// decodeTextString converts a PDF string to text. UTF-16BE strings
// carry a BOM; everything else is treated byte-per-rune, which is
// right for the standard Latin text encodings and harmless for the
// rest.
func decodeTextString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
