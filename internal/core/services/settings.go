package services

import (
	"fmt"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyRetrievalTopK     = "retrieval.top_k"
	keyRetrievalMinScore = "retrieval.min_score"
	keyChunkSize         = "chunking.chunk_size"
	keyChunkOverlap      = "chunking.overlap"
	keyAnswerMaxContext  = "answer.max_context_chars"
	keyAnswerMaxHistory  = "answer.max_history_messages"
	keyAnswerSnippetLen  = "answer.snippet_length"
	keyAnswerConfFloor   = "answer.confidence_floor"
	keyAnswerTemperature = "answer.temperature"
	keyAnswerPatterns    = "answer.insufficient_patterns"
	keyVectorBackend     = "vector.backend"
	keyVectorDims        = "vector.dimensions"
	keyVectorPostgresDSN = "vector.postgres_dsn"
	keyIngestMaxBytes    = "ingest.max_file_bytes"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:     s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			MinScore: s.getFloat(keyRetrievalMinScore, defaults.Retrieval.MinScore),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Answer: domain.AnswerSettings{
			MaxContextChars:      s.getInt(keyAnswerMaxContext, defaults.Answer.MaxContextChars),
			MaxHistoryMessages:   s.getInt(keyAnswerMaxHistory, defaults.Answer.MaxHistoryMessages),
			SnippetLength:        s.getInt(keyAnswerSnippetLen, defaults.Answer.SnippetLength),
			ConfidenceFloor:      s.getFloat(keyAnswerConfFloor, defaults.Answer.ConfidenceFloor),
			Temperature:          s.getFloat(keyAnswerTemperature, defaults.Answer.Temperature),
			InsufficientPatterns: s.getStringSlice(keyAnswerPatterns, defaults.Answer.InsufficientPatterns),
		},
		Vector: domain.VectorSettings{
			Backend:     s.getBackend(keyVectorBackend, defaults.Vector.Backend),
			Dimensions:  s.getInt(keyVectorDims, defaults.Vector.Dimensions),
			PostgresDSN: s.configStore.GetString(keyVectorPostgresDSN),
		},
		Ingest: domain.IngestSettings{
			MaxFileBytes: s.getInt64(keyIngestMaxBytes, defaults.Ingest.MaxFileBytes),
		},
	}

	return settings, nil
}

// Save persists application settings.
//
//nolint:gocyclo // Each key is persisted and wrapped individually.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyRetrievalTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save retrieval top_k: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalMinScore, settings.Retrieval.MinScore); err != nil {
		return fmt.Errorf("save retrieval min_score: %w", err)
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunking.ChunkSize); err != nil {
		return fmt.Errorf("save chunking chunk_size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.Overlap); err != nil {
		return fmt.Errorf("save chunking overlap: %w", err)
	}

	// Save answer settings
	if err := s.configStore.Set(keyAnswerMaxContext, settings.Answer.MaxContextChars); err != nil {
		return fmt.Errorf("save answer max_context_chars: %w", err)
	}
	if err := s.configStore.Set(keyAnswerMaxHistory, settings.Answer.MaxHistoryMessages); err != nil {
		return fmt.Errorf("save answer max_history_messages: %w", err)
	}
	if err := s.configStore.Set(keyAnswerSnippetLen, settings.Answer.SnippetLength); err != nil {
		return fmt.Errorf("save answer snippet_length: %w", err)
	}
	if err := s.configStore.Set(keyAnswerConfFloor, settings.Answer.ConfidenceFloor); err != nil {
		return fmt.Errorf("save answer confidence_floor: %w", err)
	}
	if err := s.configStore.Set(keyAnswerTemperature, settings.Answer.Temperature); err != nil {
		return fmt.Errorf("save answer temperature: %w", err)
	}
	if err := s.configStore.Set(keyAnswerPatterns, settings.Answer.InsufficientPatterns); err != nil {
		return fmt.Errorf("save answer insufficient_patterns: %w", err)
	}

	// Save vector settings
	if err := s.configStore.Set(keyVectorBackend, settings.Vector.Backend.String()); err != nil {
		return fmt.Errorf("save vector backend: %w", err)
	}
	if err := s.configStore.Set(keyVectorDims, settings.Vector.Dimensions); err != nil {
		return fmt.Errorf("save vector dimensions: %w", err)
	}
	if err := s.configStore.Set(keyVectorPostgresDSN, settings.Vector.PostgresDSN); err != nil {
		return fmt.Errorf("save vector postgres_dsn: %w", err)
	}

	// Save ingest settings
	if err := s.configStore.Set(keyIngestMaxBytes, settings.Ingest.MaxFileBytes); err != nil {
		return fmt.Errorf("save ingest max_file_bytes: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	if !supportsEmbeddings(provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		settings.Vector.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetRetrieval updates top-k and minimum score.
func (s *SettingsService) SetRetrieval(topK int, minScore float64) error {
	if topK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", topK)
	}
	if minScore < 0 || minScore > 1 {
		return fmt.Errorf("min_score must be between 0 and 1, got %g", minScore)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.TopK = topK
	settings.Retrieval.MinScore = minScore

	return s.Save(settings)
}

// SetChunking updates chunk size and overlap.
func (s *SettingsService) SetChunking(chunkSize, overlap int) error {
	if chunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", chunkSize)
	}
	if overlap < 0 {
		return fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return fmt.Errorf("overlap %d must be smaller than chunk_size %d", overlap, chunkSize)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chunking.ChunkSize = chunkSize
	settings.Chunking.Overlap = overlap

	return s.Save(settings)
}

// Validate checks that current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Check embedding configuration when a provider is set
	if settings.Embedding.Provider != "" {
		if !settings.Embedding.Provider.IsValid() {
			return fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider)
		}
		if !supportsEmbeddings(settings.Embedding.Provider) {
			return fmt.Errorf("provider %s does not support embeddings", settings.Embedding.Provider)
		}
		if !settings.Embedding.IsConfigured() {
			return fmt.Errorf("embedding provider %s requires an API key", settings.Embedding.Provider)
		}
	}

	// Check LLM configuration when a provider is set
	if settings.LLM.Provider != "" {
		if !settings.LLM.Provider.IsValid() {
			return fmt.Errorf("invalid LLM provider: %s", settings.LLM.Provider)
		}
		if !settings.LLM.IsConfigured() {
			return fmt.Errorf("LLM provider %s requires an API key", settings.LLM.Provider)
		}
	}

	// Check retrieval bounds
	if settings.Retrieval.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", settings.Retrieval.TopK)
	}
	if settings.Retrieval.MinScore < 0 || settings.Retrieval.MinScore > 1 {
		return fmt.Errorf("min_score must be between 0 and 1, got %g", settings.Retrieval.MinScore)
	}

	// Check chunking bounds
	if settings.Chunking.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", settings.Chunking.ChunkSize)
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.ChunkSize {
		return fmt.Errorf(
			"overlap %d must be between 0 and chunk_size %d",
			settings.Chunking.Overlap, settings.Chunking.ChunkSize,
		)
	}

	// Check vector index configuration
	if !settings.Vector.Backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", settings.Vector.Backend)
	}
	if settings.Vector.Dimensions < 1 {
		return fmt.Errorf("vector dimensions must be at least 1, got %d", settings.Vector.Dimensions)
	}
	if settings.Vector.Backend == domain.VectorBackendPgvector && settings.Vector.PostgresDSN == "" {
		return fmt.Errorf("vector backend %s requires a postgres_dsn", settings.Vector.Backend)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// supportsEmbeddings reports whether the provider can serve embeddings.
func supportsEmbeddings(provider domain.AIProvider) bool {
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			return true
		}
	}
	return false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return int64(val)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(key string, defaultVal domain.VectorBackend) domain.VectorBackend {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	backend := domain.VectorBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
