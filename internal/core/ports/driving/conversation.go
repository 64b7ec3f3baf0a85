package driving

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// ConversationManager exposes conversation history to external actors.
type ConversationManager interface {
	// History returns the most recent maxTurns messages of a
	// conversation in chronological order. maxTurns <= 0 returns all.
	History(ctx context.Context, conversationID string, maxTurns int) ([]domain.Message, error)

	// List returns all conversations, newest first.
	List(ctx context.Context) ([]domain.Conversation, error)
}
