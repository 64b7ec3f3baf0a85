package driven

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// ConversationStore persists conversations and their messages.
//
// Conversations are append-only. Implementations serialise appends per
// conversation id so concurrent questions on the same thread never
// interleave history inconsistently.
type ConversationStore interface {
	// GetOrCreate returns the conversation with the given id, creating
	// a new one when the id is empty or unknown. Callers persist the
	// returned id to continue the thread.
	GetOrCreate(ctx context.Context, id string) (*domain.Conversation, error)

	// AppendMessage adds a message to a conversation.
	// Returns domain.ErrConversationNotFound for unknown conversations.
	AppendMessage(ctx context.Context, conversationID string, msg *domain.Message) error

	// History returns the most recent maxTurns messages in chronological
	// order (oldest of the window first). maxTurns <= 0 returns all.
	History(ctx context.Context, conversationID string, maxTurns int) ([]domain.Message, error)

	// ListConversations returns all conversations, newest first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
}
