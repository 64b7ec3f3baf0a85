package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentFormat identifies a supported document file format.
type DocumentFormat string

// Supported document formats.
const (
	// FormatPDF is a PDF file. Page boundaries are preserved during parsing.
	FormatPDF DocumentFormat = "pdf"

	// FormatDOCX is a Word document (Office Open XML).
	FormatDOCX DocumentFormat = "docx"

	// FormatTXT is a plain text file.
	FormatTXT DocumentFormat = "txt"
)

// IsValid returns true if the format is recognised.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatTXT:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f DocumentFormat) String() string {
	return string(f)
}

// FormatFromFilename derives the document format from a filename extension.
// Returns false if the extension maps to no supported format.
func FormatFromFilename(filename string) (DocumentFormat, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".txt":
		return FormatTXT, true
	default:
		return "", false
	}
}

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusPending means the document is uploaded but not yet searchable.
	StatusPending DocumentStatus = "pending"

	// StatusIndexed means every chunk of the document is searchable.
	StatusIndexed DocumentStatus = "indexed"

	// StatusFailed means ingestion failed; FailureReason explains why.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusIndexed, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Document represents an ingested clinic document.
// It is immutable once indexed, except for status and metadata.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload filename, used in citations.
	Filename string

	// Format is the detected file format.
	Format DocumentFormat

	// SizeBytes is the size of the uploaded file.
	SizeBytes int64

	// Status is the ingestion lifecycle state.
	Status DocumentStatus

	// FailureReason holds the error message when Status is failed.
	FailureReason string

	// Category groups documents for filtered retrieval (e.g. "policies").
	Category string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// ChunkCount is the number of chunks produced by ingestion.
	ChunkCount int

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Segment is a parsed span of document text with its page of origin.
// Parsers emit one segment per PDF page; single-segment output with
// Page 0 is used for formats without page structure.
type Segment struct {
	// Text is the extracted plain text.
	Text string

	// Page is the 1-based source page, or 0 when the format has no pages.
	Page int
}

// Chunk represents the unit of embedding and retrieval within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the chunk content.
	Text string

	// Seq is the 0-based sequence index within the document.
	Seq int

	// Page is the 1-based source page, or 0 when unknown.
	// A chunk never spans pages; a straddling sentence keeps the
	// page where it starts.
	Page int

	// Embedding is the vector representation, set once embedded.
	Embedding []float32
}

// DocumentStats summarises the ingested corpus.
type DocumentStats struct {
	// Documents is the total number of documents by status.
	Documents map[DocumentStatus]int

	// Chunks is the total number of stored chunks.
	Chunks int

	// Vectors is the number of records in the vector index.
	Vectors int
}
