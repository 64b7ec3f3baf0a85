package domain

// Upload represents raw file bytes handed to ingestion.
type Upload struct {
	// Filename is the original filename including extension.
	Filename string

	// Format is the declared format. When empty it is derived
	// from the filename extension.
	Format DocumentFormat

	// Data is the raw file bytes.
	Data []byte

	// Category groups the document for filtered retrieval.
	Category string

	// Metadata contains arbitrary key-value pairs stored with the document.
	Metadata map[string]any
}

// IngestReceipt reports a completed ingestion.
type IngestReceipt struct {
	// DocumentID is the id assigned to the ingested document.
	DocumentID string

	// ChunkCount is the number of chunks indexed.
	ChunkCount int
}
