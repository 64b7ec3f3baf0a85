package services

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/ports/driving"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationManager = (*ConversationService)(nil)

// ConversationService exposes conversation history to external actors.
type ConversationService struct {
	convStore driven.ConversationStore
}

// NewConversationService creates a new conversation service.
func NewConversationService(convStore driven.ConversationStore) *ConversationService {
	return &ConversationService{convStore: convStore}
}

// History returns the most recent maxTurns messages of a conversation in
// chronological order. maxTurns <= 0 returns all.
func (s *ConversationService) History(ctx context.Context, conversationID string, maxTurns int) ([]domain.Message, error) {
	return s.convStore.History(ctx, conversationID, maxTurns)
}

// List returns all conversations, newest first.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	return s.convStore.ListConversations(ctx)
}
