package driving

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// Ingestor turns uploaded files into indexed, searchable chunks.
type Ingestor interface {
	// Ingest parses, chunks, embeds and indexes one upload.
	// Either every chunk of the document becomes searchable or the
	// document is marked failed with no chunks left queryable.
	Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestReceipt, error)

	// IngestFile reads a file from disk and ingests it.
	IngestFile(ctx context.Context, path, category string) (*domain.IngestReceipt, error)
}
