package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies where vector records live.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory is an exact in-process index, rebuilt from the
	// chunk store at startup.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendPgvector is a Postgres table with the pgvector extension.
	VectorBackendPgvector VectorBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMemory, VectorBackendPgvector:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendMemory:
		return "Memory (exact, rebuilt from chunk store)"
	case VectorBackendPgvector:
		return "Postgres pgvector (persistent)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds retrieval behaviour configuration.
// These are configuration, not per-request parameters, so retrieval
// stays consistent and testable.
type RetrievalSettings struct {
	// TopK is the number of candidates requested from the index.
	TopK int

	// MinScore discards candidates scoring below this cosine similarity.
	MinScore float64
}

// ChunkingSettings holds document chunking configuration.
type ChunkingSettings struct {
	// ChunkSize is the maximum characters per chunk.
	ChunkSize int

	// Overlap is the characters shared between adjacent chunks.
	Overlap int
}

// AnswerSettings holds answer synthesis configuration.
type AnswerSettings struct {
	// MaxContextChars bounds the composed context block.
	MaxContextChars int

	// MaxHistoryMessages bounds conversation history in the prompt.
	MaxHistoryMessages int

	// SnippetLength bounds citation snippets.
	SnippetLength int

	// ConfidenceFloor is the confidence assigned when no context is found.
	ConfidenceFloor float64

	// Temperature is the LLM sampling temperature.
	Temperature float64

	// InsufficientPatterns are case-insensitive substrings that mark an
	// answer as admitting insufficient context; matching halves confidence.
	InsufficientPatterns []string
}

// VectorSettings holds vector index configuration.
type VectorSettings struct {
	// Backend selects the vector index implementation.
	Backend VectorBackend

	// Dimensions is the embedding vector size. The index and every
	// query must agree on it.
	Dimensions int

	// PostgresDSN is the connection string for the pgvector backend.
	PostgresDSN string
}

// IngestSettings holds ingestion boundary configuration.
type IngestSettings struct {
	// MaxFileBytes rejects uploads larger than this size.
	MaxFileBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Retrieval holds retrieval settings.
	Retrieval RetrievalSettings

	// Chunking holds chunking settings.
	Chunking ChunkingSettings

	// Answer holds synthesis settings.
	Answer AnswerSettings

	// Vector holds vector index settings.
	Vector VectorSettings

	// Ingest holds ingestion boundary settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
// Users must explicitly configure them via the settings wizard.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Embedding is left unconfigured - user must set up via settings wizard
		Embedding: EmbeddingSettings{},
		// LLM is left unconfigured - user must set up via settings wizard
		LLM: LLMSettings{},
		Retrieval: RetrievalSettings{
			TopK:     3,
			MinScore: 0.25,
		},
		Chunking: ChunkingSettings{
			ChunkSize: 1000,
			Overlap:   200,
		},
		Answer: AnswerSettings{
			MaxContextChars:    4000,
			MaxHistoryMessages: 6,
			SnippetLength:      200,
			ConfidenceFloor:    0.1,
			Temperature:        0.3,
			InsufficientPatterns: []string{
				"don't have enough information",
				"not contain",
				"no information",
			},
		},
		Vector: VectorSettings{
			Backend:    VectorBackendMemory,
			Dimensions: 1536, // text-embedding-3-small default
		},
		Ingest: IngestSettings{
			MaxFileBytes: 10 << 20,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllVectorBackends returns all available vector backends.
func AllVectorBackends() []VectorBackend {
	return []VectorBackend{
		VectorBackendMemory,
		VectorBackendPgvector,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
