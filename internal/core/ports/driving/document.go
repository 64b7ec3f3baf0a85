package driving

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// DocumentManager exposes the ingested corpus for inspection and removal.
type DocumentManager interface {
	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the concatenated text of all chunks in sequence order.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Delete removes a document, its chunks and its vector records.
	// Returns the number of vector records removed. Deleting an unknown
	// or already-deleted id is a no-op reporting zero.
	Delete(ctx context.Context, documentID string) (int, error)

	// Stats summarises the corpus.
	Stats(ctx context.Context) (*domain.DocumentStats, error)
}
