package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.DocumentFormat {
	return domain.FormatTXT
}

// Parse validates the bytes as UTF-8 and returns the text as a single
// segment. Line endings are normalised to \n and a leading byte order
// mark is stripped. Plain text has no page structure, so Page is 0.
func (p *Parser) Parse(_ context.Context, data []byte) ([]domain.Segment, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid UTF-8", domain.ErrCorruptDocument)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	return []domain.Segment{{Text: text, Page: 0}}, nil
}
