package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/Mettice/caresync/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
			wantErr:  false,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantNil: false,
			wantErr: false,
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantNil: false,
			wantErr: false,
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
			wantErr: false, // unknown provider is not valid, so IsConfigured() returns false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
				svc.Close()
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.LLMSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
			wantErr:  false,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			wantNil: false,
			wantErr: false,
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantNil: false,
			wantErr: false,
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			wantNil: false,
			wantErr: false,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
			wantErr: false, // unknown provider is not valid, so IsConfigured() returns false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
				svc.Close()
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestValidateEmbeddingConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantErr:  false,
		},
		{
			name: "anthropic returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbeddingConfig(tt.settings)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantErr:  false,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantErr: false, // unknown provider is not valid, so IsConfigured() returns false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLLMConfig(tt.settings)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
			wantErr:  false,
		},
		{
			name: "anthropic returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateAndValidateEmbeddingService(tt.settings)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service")
				svc.Close()
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService_WrapsSentinel(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "test-key",
	}

	_, err := CreateAndValidateEmbeddingService(settings)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("error should wrap ErrEmbeddingUnavailable, got: %v", err)
	}
	if !contains(err.Error(), "caresync settings wizard") {
		t.Errorf("error should carry wizard guidance, got: %v", err)
	}
}

func TestCreateAndValidateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
			wantErr:  false,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
			wantErr:  false,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
			wantErr: false, // unknown provider is not valid, so IsConfigured() returns false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateAndValidateLLMService(tt.settings)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service")
				svc.Close()
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateLLMService_UnreachableWrapsSentinel(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1", // nothing listens on port 1
		Model:    "llama3.2",
	}

	svc, err := CreateAndValidateLLMService(settings)
	if svc != nil {
		svc.Close()
		t.Fatal("expected nil service for unreachable provider")
	}
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrSynthesisUnavailable) {
		t.Errorf("error should wrap ErrSynthesisUnavailable, got: %v", err)
	}
}

func TestCreateVectorIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend creates index", func(t *testing.T) {
		settings := &domain.VectorSettings{
			Backend:    domain.VectorBackendMemory,
			Dimensions: 768,
		}

		idx, err := CreateVectorIndex(ctx, settings, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx == nil {
			t.Fatal("expected non-nil index")
		}
		defer idx.Close()

		// Configured dimensions apply when no override is given.
		err = idx.Upsert(ctx, domain.VectorRecord{
			ChunkID:    "c1",
			DocumentID: "d1",
			Embedding:  make([]float32, 4),
		})
		if !errors.Is(err, domain.ErrDimensionMismatch) {
			t.Errorf("expected dimension mismatch for 4-dim vector in 768-dim index, got: %v", err)
		}
	})

	t.Run("override replaces configured dimensions", func(t *testing.T) {
		settings := &domain.VectorSettings{
			Backend:    domain.VectorBackendMemory,
			Dimensions: 768,
		}

		idx, err := CreateVectorIndex(ctx, settings, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer idx.Close()

		err = idx.Upsert(ctx, domain.VectorRecord{
			ChunkID:    "c1",
			DocumentID: "d1",
			Embedding:  []float32{0.1, 0.2, 0.3, 0.4},
		})
		if err != nil {
			t.Errorf("unexpected error for matching dimensions: %v", err)
		}
	})

	t.Run("unsupported backend returns error", func(t *testing.T) {
		settings := &domain.VectorSettings{
			Backend:    "faiss",
			Dimensions: 768,
		}

		idx, err := CreateVectorIndex(ctx, settings, 0)
		if idx != nil {
			idx.Close()
			t.Error("expected nil index for unsupported backend")
		}
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !contains(err.Error(), "unsupported vector backend") {
			t.Errorf("error %q should name the backend problem", err.Error())
		}
	})
}

func TestInitialize_NoProvidersConfigured(t *testing.T) {
	settings := domain.DefaultAppSettings()

	result, err := Initialize(context.Background(), &settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer result.Close()

	if result.EmbeddingService != nil {
		t.Error("expected nil embedding service when unconfigured")
	}
	if result.LLMService != nil {
		t.Error("expected nil LLM service when unconfigured")
	}
	if result.VectorIndex == nil {
		t.Error("expected vector index even without AI providers")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unconfigured providers should not warn, got: %v", result.Warnings)
	}
}

func TestInitialize_UnreachableEmbeddingWarns(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1", // nothing listens on port 1
		Model:    "nomic-embed-text",
	}

	result, err := Initialize(context.Background(), &settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer result.Close()

	if result.EmbeddingService != nil {
		t.Error("expected nil embedding service when unreachable")
	}
	if result.VectorIndex == nil {
		t.Error("expected vector index despite embedding warning")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got: %v", result.Warnings)
	}
	if !contains(result.Warnings[0], "embedding service unavailable") {
		t.Errorf("warning %q should name the embedding failure", result.Warnings[0])
	}
}

func TestInitialize_UnsupportedBackendFails(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Vector.Backend = "faiss"

	result, err := Initialize(context.Background(), &settings)
	if err == nil {
		result.Close()
		t.Fatal("expected error for unsupported vector backend")
	}
	if result != nil {
		t.Error("expected nil result on fatal error")
	}
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: "unknown-provider",
		APIKey:   "test-key",
	}

	svc, err := CreateEmbeddingService(settings)

	// Unknown provider is not "valid" so IsConfigured returns false
	if svc != nil {
		t.Error("expected nil service for unknown provider")
		svc.Close()
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateLLMService_UnknownProvider(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: "unknown-provider",
		APIKey:   "test-key",
	}

	svc, err := CreateLLMService(settings)

	// Unknown provider is not "valid" so IsConfigured returns false
	if svc != nil {
		t.Error("expected nil service for unknown provider")
		svc.Close()
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInitResult_Close_AllServices(t *testing.T) {
	result := &InitResult{}

	result.EmbeddingService = createOllamaEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "nomic-embed-text",
	})
	result.LLMService = createOllamaLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "llama3.2",
	})

	// Close should not panic and should close all services
	result.Close()
}

func TestCreateOllamaEmbedding_KnownModelDimensions(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "nomic-embed-text",
	}

	svc := createOllamaEmbedding(settings)
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()

	if got := svc.Dimensions(); got != 768 {
		t.Errorf("nomic-embed-text should resolve to 768 dimensions, got %d", got)
	}
}

func TestCreateOllamaEmbedding_UnknownModel(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "custom-model-unknown",
	}

	svc := createOllamaEmbedding(settings)
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()

	if got := svc.Dimensions(); got <= 0 {
		t.Errorf("unknown model should fall back to a positive default, got %d", got)
	}
}

func TestCreateOpenAIEmbedding_Success(t *testing.T) {
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  "https://api.openai.com/v1",
		Model:    "text-embedding-3-small",
	}

	svc, err := createOpenAIEmbedding(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()
}

func TestCreateAnthropicLLM_Success(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "test-key",
		BaseURL:  "https://api.anthropic.com",
		Model:    "claude-3-5-sonnet-latest",
	}

	svc, err := createAnthropicLLM(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()
}

func TestCreateOpenAILLM_Success(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  "https://api.openai.com/v1",
		Model:    "gpt-4o-mini",
	}

	svc, err := createOpenAILLM(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()
}

func TestCreateOllamaLLM_Success(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "llama3.2",
	}

	svc := createOllamaLLM(settings)
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	defer svc.Close()
}

// contains checks if s contains substr.
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsHelper(s, substr))
}

func containsHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
