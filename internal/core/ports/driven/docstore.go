package driven

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any existing set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrDocumentNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document ordered by sequence.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	// Deleting an unknown id is a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// AllChunks streams every stored chunk, used to rebuild the
	// in-memory vector index at startup.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (*domain.DocumentStats, error)
}
