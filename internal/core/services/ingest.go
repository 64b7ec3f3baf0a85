package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/ports/driving"
	"github.com/Mettice/caresync/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: parse, chunk, embed, index.
//
// Each document either becomes fully searchable or is marked failed with
// no chunks left queryable. Failures are scoped to the failing document;
// concurrent ingestions of other documents are unaffected.
type IngestService struct {
	docStore         driven.DocumentStore
	parsers          driven.ParserRegistry
	chunker          driven.Chunker
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	settings         domain.IngestSettings
}

// NewIngestService creates a new ingestion service.
// The embeddingService may be nil when no provider is configured;
// ingestion then fails up front with domain.ErrEmbeddingUnavailable.
func NewIngestService(
	docStore driven.DocumentStore,
	parsers driven.ParserRegistry,
	chunker driven.Chunker,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	settings domain.IngestSettings,
) *IngestService {
	return &IngestService{
		docStore:         docStore,
		parsers:          parsers,
		chunker:          chunker,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		settings:         settings,
	}
}

// Ingest parses, chunks, embeds and indexes one upload.
//
//nolint:gocyclo // Pipeline orchestration with sequential steps
func (s *IngestService) Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestReceipt, error) {
	logger.Section("Document Ingestion")
	logger.Debug("File: %s (%d bytes)", upload.Filename, len(upload.Data))

	// 1. VALIDATE BOUNDARIES
	// Rejected uploads never become document rows.
	format, err := s.validateUpload(&upload)
	if err != nil {
		logger.Warn("Rejected %s: %v", upload.Filename, err)
		return nil, err
	}

	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if s.vectorIndex == nil {
		return nil, fmt.Errorf("%w: no vector index configured", domain.ErrEmbeddingUnavailable)
	}

	// 2. CREATE PENDING DOCUMENT
	doc := &domain.Document{
		ID:        uuid.NewString(),
		Filename:  upload.Filename,
		Format:    format,
		SizeBytes: int64(len(upload.Data)),
		Status:    domain.StatusPending,
		Category:  upload.Category,
		Metadata:  upload.Metadata,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	// 3. PARSE
	parser, err := s.parsers.Get(format)
	if err != nil {
		return nil, s.markFailed(ctx, doc, err)
	}
	segments, err := parser.Parse(ctx, upload.Data)
	if err != nil {
		return nil, s.markFailed(ctx, doc, fmt.Errorf("parse: %w", err))
	}
	logger.Debug("Parsed %d segments", len(segments))

	// 4. CHUNK
	chunks, err := s.chunker.Chunk(ctx, doc.ID, segments)
	if err != nil {
		return nil, s.markFailed(ctx, doc, fmt.Errorf("chunk: %w", err))
	}
	logger.Debug("Chunked into %d pieces", len(chunks))

	// 5. EMBED
	// Embeddings are staged in memory; nothing becomes searchable until
	// every chunk embedded successfully.
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, s.markFailed(ctx, doc, fmt.Errorf("embed chunks: %w", err))
	}
	if len(embeddings) != len(chunks) {
		return nil, s.markFailed(ctx, doc,
			fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(chunks)))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	logger.Debug("Embedded %d chunks (%d dimensions)", len(chunks), s.embeddingService.Dimensions())

	// 6. SAVE CHUNKS
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, s.markFailed(ctx, doc, fmt.Errorf("save chunks: %w", err))
	}

	// 7. INDEX VECTORS
	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.VectorRecord{
			ChunkID:      chunk.ID,
			DocumentID:   doc.ID,
			DocumentName: doc.Filename,
			Category:     doc.Category,
			Seq:          chunk.Seq,
			Page:         chunk.Page,
			Text:         chunk.Text,
			Embedding:    chunk.Embedding,
		}
	}
	if err := s.vectorIndex.UpsertBatch(ctx, records); err != nil {
		// Clear any partially applied records so readers never see a
		// half-indexed document.
		if _, delErr := s.vectorIndex.DeleteByDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("Failed to clear partial vectors for %s: %v", doc.ID, delErr)
		}
		return nil, s.markFailed(ctx, doc, fmt.Errorf("index vectors: %w", err))
	}

	// 8. MARK INDEXED
	doc.Status = domain.StatusIndexed
	doc.ChunkCount = len(chunks)
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("mark indexed: %w", err)
	}

	logger.Info("Indexed %s: %d chunks", upload.Filename, len(chunks))

	return &domain.IngestReceipt{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
	}, nil
}

// IngestFile reads a file from disk and ingests it.
func (s *IngestService) IngestFile(ctx context.Context, path, category string) (*domain.IngestReceipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return s.Ingest(ctx, domain.Upload{
		Filename: filepath.Base(path),
		Data:     data,
		Category: category,
	})
}

// validateUpload enforces the ingestion boundaries and resolves the format.
func (s *IngestService) validateUpload(upload *domain.Upload) (domain.DocumentFormat, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: upload is empty", domain.ErrEmptyDocument)
	}
	if s.settings.MaxFileBytes > 0 && int64(len(upload.Data)) > s.settings.MaxFileBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrDocumentTooLarge, len(upload.Data), s.settings.MaxFileBytes)
	}

	format := upload.Format
	if format == "" {
		derived, ok := domain.FormatFromFilename(upload.Filename)
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, upload.Filename)
		}
		format = derived
	}
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	return format, nil
}

// markFailed records the failure on the document and returns the cause,
// so the document row explains what went wrong while callers still get
// the typed error.
func (s *IngestService) markFailed(ctx context.Context, doc *domain.Document, cause error) error {
	doc.Status = domain.StatusFailed
	doc.FailureReason = cause.Error()
	doc.ChunkCount = 0

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to record ingestion failure for %s: %v", doc.ID, err)
		return errors.Join(cause, fmt.Errorf("record failure: %w", err))
	}

	logger.Warn("Ingestion failed for %s: %v", doc.Filename, cause)
	return cause
}
