package cli

import (
	"context"
	"time"

	"github.com/Mettice/caresync/internal/core/domain"
)

// Mock services shared by the command tests.

type mockIngestor struct {
	receipt *domain.IngestReceipt
	err     error
	calls   []string
}

func (m *mockIngestor) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestReceipt, error) {
	m.calls = append(m.calls, upload.Filename)
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockIngestor) IngestFile(_ context.Context, path, _ string) (*domain.IngestReceipt, error) {
	m.calls = append(m.calls, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

type mockAsker struct {
	result *domain.AnswerResult
	hits   []domain.VectorHit
	err    error
}

func (m *mockAsker) Ask(_ context.Context, _, _ string) (*domain.AnswerResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAsker) Retrieve(_ context.Context, _ string) ([]domain.VectorHit, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

type mockDocumentManager struct {
	docs    []domain.Document
	content string
	deleted int
	stats   *domain.DocumentStats
	err     error
}

func (m *mockDocumentManager) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentManager) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *mockDocumentManager) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentManager) Delete(_ context.Context, _ string) (int, error) {
	return m.deleted, m.err
}

func (m *mockDocumentManager) Stats(_ context.Context) (*domain.DocumentStats, error) {
	if m.stats == nil {
		return &domain.DocumentStats{Documents: map[domain.DocumentStatus]int{}}, m.err
	}
	return m.stats, m.err
}

type mockConversationManager struct {
	messages []domain.Message
	convs    []domain.Conversation
	err      error
}

func (m *mockConversationManager) History(_ context.Context, _ string, _ int) ([]domain.Message, error) {
	return m.messages, m.err
}

func (m *mockConversationManager) List(_ context.Context) ([]domain.Conversation, error) {
	return m.convs, m.err
}

type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		defaults := domain.DefaultAppSettings()
		return &defaults, m.err
	}
	return m.settings, m.err
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(domain.AIProvider, string, string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(domain.AIProvider, string, string) error {
	return m.err
}

func (m *mockSettingsService) SetRetrieval(int, float64) error { return m.err }

func (m *mockSettingsService) SetChunking(int, int) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// setupTestServices installs working mocks and returns a cleanup that
// restores the previous services.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAsk := askService
	oldDocument := documentService
	oldConversation := conversationService
	oldSettings := settingsService

	ingestService = &mockIngestor{
		receipt: &domain.IngestReceipt{DocumentID: "doc-1", ChunkCount: 3},
	}
	askService = &mockAsker{
		result: &domain.AnswerResult{
			Answer: "The clinic is open Monday to Friday.",
			Citations: []domain.Citation{
				{DocumentName: "clinic_info.pdf", Page: 1, Snippet: "Clinic Hours: Monday-Friday", Score: 0.82},
			},
			Confidence:     0.82,
			HasContext:     true,
			ConversationID: "conv-1",
		},
	}
	documentService = &mockDocumentManager{
		docs: []domain.Document{
			{
				ID:         "doc-1",
				Filename:   "clinic_info.pdf",
				Format:     domain.FormatPDF,
				SizeBytes:  2048,
				Status:     domain.StatusIndexed,
				ChunkCount: 3,
				CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
				UpdatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			},
		},
		content: "Clinic Hours: Monday-Friday 9 AM - 5 PM",
		deleted: 3,
		stats: &domain.DocumentStats{
			Documents: map[domain.DocumentStatus]int{domain.StatusIndexed: 1},
			Chunks:    3,
			Vectors:   3,
		},
	}
	conversationService = &mockConversationManager{
		convs: []domain.Conversation{
			{ID: "conv-1", CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		},
		messages: []domain.Message{
			{ConversationID: "conv-1", Role: domain.RoleUser, Content: "What are your hours?"},
			{ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "Monday to Friday.", Confidence: 0.8},
		},
	}
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		askService = oldAsk
		documentService = oldDocument
		conversationService = oldConversation
		settingsService = oldSettings
	}
}
