package driven

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// Parser extracts plain text segments from one document format.
//
// Parsers have no side effects: they never touch storage. Failure modes
// are the input errors in domain: ErrCorruptDocument for structurally
// unparseable files and ErrEmptyDocument when extraction yields no
// non-whitespace text.
type Parser interface {
	// Format returns the document format this parser handles.
	Format() domain.DocumentFormat

	// Parse extracts text segments from raw file bytes.
	// PDF parsers emit one segment per page with 1-based page numbers;
	// formats without page structure emit a single segment with Page 0.
	Parse(ctx context.Context, data []byte) ([]domain.Segment, error)
}

// ParserRegistry selects the parser for a document format.
type ParserRegistry interface {
	// Get returns the parser for a format.
	// Returns domain.ErrUnsupportedFormat for formats outside the
	// supported set.
	Get(format domain.DocumentFormat) (Parser, error)

	// Formats returns the supported formats.
	Formats() []domain.DocumentFormat
}
