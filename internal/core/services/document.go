package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/ports/driving"
	"github.com/Mettice/caresync/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentManager = (*DocumentService)(nil)

// DocumentService exposes the ingested corpus for inspection and removal.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
// The vectorIndex parameter is optional (can be nil); Delete then removes
// only stored rows and Stats reports zero vectors.
func NewDocumentService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the concatenated text of all chunks in sequence order.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	// Verify the document exists so an unknown id reports not-found
	// rather than empty content.
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}

	var sb strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(chunk.Text)
	}

	return sb.String(), nil
}

// Delete removes a document, its chunks and its vector records.
// Deleting an unknown id is a no-op reporting zero.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (int, error) {
	// Vectors go first so a partial failure never leaves searchable
	// records pointing at a deleted document.
	removed := 0
	if s.vectorIndex != nil {
		n, err := s.vectorIndex.DeleteByDocument(ctx, documentID)
		if err != nil {
			return 0, fmt.Errorf("delete vectors: %w", err)
		}
		removed = n
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return removed, fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s (%d vector records)", documentID, removed)
	return removed, nil
}

// Stats summarises the corpus.
func (s *DocumentService) Stats(ctx context.Context) (*domain.DocumentStats, error) {
	stats, err := s.docStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("document stats: %w", err)
	}

	if s.vectorIndex != nil {
		vectors, err := s.vectorIndex.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("vector count: %w", err)
		}
		stats.Vectors = vectors
	}

	return stats, nil
}
