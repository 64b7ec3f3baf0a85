package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrCorruptDocument", ErrCorruptDocument},
		{"ErrEmptyDocument", ErrEmptyDocument},
		{"ErrDocumentTooLarge", ErrDocumentTooLarge},
		{"ErrEmptyChunkSet", ErrEmptyChunkSet},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrSynthesisUnavailable", ErrSynthesisUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrDocumentNotFound", ErrDocumentNotFound},
		{"ErrConversationNotFound", ErrConversationNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_WrappingPreservesIdentity tests errors.Is through %w chains
func TestErrors_WrappingPreservesIdentity(t *testing.T) {
	wrapped := fmt.Errorf("parse clinic_info.pdf: %w", ErrCorruptDocument)

	assert.True(t, errors.Is(wrapped, ErrCorruptDocument))
	assert.False(t, errors.Is(wrapped, ErrUnsupportedFormat))

	twice := fmt.Errorf("ingest: %w", wrapped)
	assert.True(t, errors.Is(twice, ErrCorruptDocument))
}

// TestErrors_Distinct tests that input and service errors never alias
func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmbeddingUnavailable, ErrSynthesisUnavailable))
	assert.False(t, errors.Is(ErrEmptyDocument, ErrEmptyChunkSet))
	assert.False(t, errors.Is(ErrDimensionMismatch, ErrEmbeddingUnavailable))
}
