// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ParserRegistry: Extracts text segments from uploaded files
//   - Chunker: Splits segments into bounded, overlapping chunks
//   - DocumentStore: Document and chunk persistence
//   - ConversationStore: Conversation and message persistence
//   - VectorIndex: Vector storage and nearest-neighbour search
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it,
//     ingestion and question answering are disabled.
//   - LLMService: Answer synthesis. Without it, questions return
//     retrieval results with a fixed degraded answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
