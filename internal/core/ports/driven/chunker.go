package driven

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// Chunker splits parsed segments into bounded, overlapping chunks.
//
// Chunks inherit the page of the segment they were cut from and never
// span two segments. Sequence indices run across the whole document.
type Chunker interface {
	// Chunk splits segments into ordered chunks owned by documentID.
	// Returns domain.ErrEmptyChunkSet if the segments produce no chunks.
	Chunk(ctx context.Context, documentID string, segments []domain.Segment) ([]domain.Chunk, error)
}
