// Package domain defines the core business entities for CareSync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested clinic document with metadata
//   - Chunk: The unit of embedding and retrieval within a document
//   - VectorRecord: The persisted unit in the vector index
//   - Conversation / Message: Multi-turn question history
//   - AnswerResult: A grounded answer with citations and confidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
