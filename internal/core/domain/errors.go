package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Input errors (unsupported format, corrupt file, empty document, oversized
// upload) are terminal: the caller must fix the input. Service errors
// (embedding, synthesis) surface only after the retry policy is exhausted
// and mean "try again later". Consistency errors (dimension mismatch) are
// configuration bugs and are never retried.
var (
	// ErrUnsupportedFormat indicates a file format outside pdf/docx/txt.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates the file could not be parsed structurally.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEmptyDocument indicates extraction yielded no usable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrDocumentTooLarge indicates the upload exceeds the configured size cap.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")

	// ErrEmptyChunkSet indicates chunking produced zero chunks.
	// Checked defensively; ErrEmptyDocument should fire first.
	ErrEmptyChunkSet = errors.New("chunking produced no chunks")

	// ErrEmbeddingUnavailable indicates the embedding provider failed
	// after all retries, or is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSynthesisUnavailable indicates the language model failed
	// after all retries, or is not configured.
	ErrSynthesisUnavailable = errors.New("answer synthesis unavailable")

	// ErrDimensionMismatch indicates a vector's dimension differs from
	// the index's. The index and query must use the same provider/model.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDocumentNotFound indicates a requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrConversationNotFound indicates a requested conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	// Adapters treat it as transient and retry with backoff.
	ErrRateLimited = errors.New("rate limited")
)
