package mcp

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// mockAsker is a mock implementation of driving.Asker.
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
	return m.hits, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	receipt *domain.IngestReceipt
	err     error
}

func (m *mockIngestor) Ingest(_ context.Context, _ domain.Upload) (*domain.IngestReceipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockIngestor) IngestFile(_ context.Context, _, _ string) (*domain.IngestReceipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

// mockDocumentManager is a mock implementation of driving.DocumentManager.
type mockDocumentManager struct {
	docs    []domain.Document
	doc     *domain.Document
	content string
	deleted int
	stats   *domain.DocumentStats
	err     error
}

func (m *mockDocumentManager) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentManager) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentManager) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentManager) Delete(_ context.Context, _ string) (int, error) {
	return m.deleted, m.err
}

func (m *mockDocumentManager) Stats(_ context.Context) (*domain.DocumentStats, error) {
	return m.stats, m.err
}

// mockConversationManager is a mock implementation of driving.ConversationManager.
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
