// Package chunker splits parsed document segments into bounded,
// overlapping chunks suitable for embedding and retrieval.
package chunker

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// breakTolerance is the fraction of the chunk size searched backwards
// for a sentence or word boundary before falling back to a hard cut.
const breakTolerance = 0.2

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits segment text into fixed-size overlapping chunks.
// Boundaries prefer sentence ends, then word breaks, within a tolerance
// window, so chunks avoid splitting mid-sentence when avoidable.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Non-positive values are ignored: adjacent chunks of a multi-chunk
// document always share at least one character.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap > 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
		if c.overlap < 1 {
			c.overlap = 1
		}
	}

	return c
}

// ChunkSize returns the configured maximum characters per chunk.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits segments into ordered chunks owned by documentID.
// Chunks never span segments, so a chunk never crosses a PDF page
// boundary; sequence indices run across the whole document.
func (c *Chunker) Chunk(_ context.Context, documentID string, segments []domain.Segment) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	seq := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		for _, text := range c.split(seg.Text) {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: documentID,
				Text:       text,
				Seq:        seq,
				Page:       seg.Page,
			})
			seq++
		}
	}

	if len(chunks) == 0 {
		return nil, domain.ErrEmptyChunkSet
	}

	return chunks, nil
}

// split cuts one segment's text into overlapping windows.
// Every character of the input appears in at least one window: each
// window starts overlap characters before the previous window's end,
// and the final window always reaches the end of the text.
func (c *Chunker) split(text string) []string {
	runes := []rune(text)
	total := len(runes)

	if total <= c.chunkSize {
		return []string{text}
	}

	estimated := total/(c.chunkSize-c.overlap) + 1
	out := make([]string, 0, estimated)

	start := 0
	for start < total {
		end := start + c.chunkSize
		if end >= total {
			out = append(out, string(runes[start:total]))
			break
		}

		if cut := c.naturalBreak(runes, start, end); cut > start {
			end = cut
		}

		out = append(out, string(runes[start:end]))

		next := end - c.overlap
		if next <= start {
			// Guarantee forward progress for degenerate size/overlap pairs.
			next = start + 1
		}
		start = next
	}

	return out
}

// naturalBreak searches backwards from end for a sentence end, then a
// word break, within the tolerance window. Returns the cut position
// (exclusive end), or 0 when only a hard cut remains.
func (c *Chunker) naturalBreak(runes []rune, start, end int) int {
	window := int(float64(c.chunkSize) * breakTolerance)
	limit := end - window
	if limit < start+1 {
		limit = start + 1
	}

	// Prefer a sentence boundary: terminator followed by whitespace.
	for i := end - 1; i >= limit; i-- {
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}

	// Fall back to the last word break in the window.
	for i := end - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	return 0
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}
