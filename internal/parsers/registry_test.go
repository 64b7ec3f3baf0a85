package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// stubParser is a minimal parser for registry tests.
type stubParser struct {
	format domain.DocumentFormat
}

func (s *stubParser) Format() domain.DocumentFormat {
	return s.format
}

func (s *stubParser) Parse(_ context.Context, _ []byte) ([]domain.Segment, error) {
	return []domain.Segment{{Text: "stub"}}, nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry(
		&stubParser{format: domain.FormatTXT},
		&stubParser{format: domain.FormatPDF},
	)
	require.NotNil(t, registry)
	assert.Len(t, registry.Formats(), 2)
}

func TestRegistry_Get(t *testing.T) {
	txt := &stubParser{format: domain.FormatTXT}
	registry := NewRegistry(txt)

	parser, err := registry.Get(domain.FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatTXT, parser.Format())
}

func TestRegistry_Get_Unsupported(t *testing.T) {
	registry := NewRegistry(&stubParser{format: domain.FormatTXT})

	parser, err := registry.Get(domain.FormatPDF)
	assert.Nil(t, parser)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "pdf")
}

func TestRegistry_Register_Replaces(t *testing.T) {
	first := &stubParser{format: domain.FormatDOCX}
	second := &stubParser{format: domain.FormatDOCX}
	registry := NewRegistry(first)
	registry.Register(second)

	parser, err := registry.Get(domain.FormatDOCX)
	require.NoError(t, err)
	assert.Same(t, second, parser)
	assert.Len(t, registry.Formats(), 1)
}

func TestRegistry_Formats_StableOrder(t *testing.T) {
	registry := NewRegistry(
		&stubParser{format: domain.FormatTXT},
		&stubParser{format: domain.FormatPDF},
		&stubParser{format: domain.FormatDOCX},
	)

	formats := registry.Formats()
	assert.Equal(t, []domain.DocumentFormat{
		domain.FormatDOCX,
		domain.FormatPDF,
		domain.FormatTXT,
	}, formats)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.ParserRegistry = (*Registry)(nil)
}
