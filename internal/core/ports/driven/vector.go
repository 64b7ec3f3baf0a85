package driven

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// VectorIndex stores chunk vectors and performs nearest-neighbour search.
//
// Similarity is cosine over unit-normalised vectors: implementations
// normalise at insert and at query time, so scores fall in [-1,1] with
// higher meaning more similar. Results are ordered by strictly descending
// score; ties break by lowest chunk sequence index, then insertion order,
// keeping search deterministic.
//
// Implementations must tolerate concurrent writers and readers.
type VectorIndex interface {
	// Upsert inserts or replaces a single record.
	// Returns domain.ErrDimensionMismatch if the embedding size differs
	// from the index dimension.
	Upsert(ctx context.Context, rec domain.VectorRecord) error

	// UpsertBatch inserts or replaces records as one operation.
	// Either every record becomes searchable or none do.
	UpsertBatch(ctx context.Context, recs []domain.VectorRecord) error

	// Search finds the topK records nearest to the query vector.
	// The filter applies before ranking, so topK always returns the
	// best matching records rather than a truncation.
	Search(ctx context.Context, query []float32, topK int, filter *domain.VectorFilter) ([]domain.VectorHit, error)

	// DeleteByDocument removes every record belonging to a document.
	// Returns the number of records removed. Deleting an unknown
	// document is a no-op reporting zero, not an error.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// Count returns the number of records in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
