package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// convEntry holds a conversation, its ordered messages, and an
// insertion position for deterministic listing.
type convEntry struct {
	conv     domain.Conversation
	messages []domain.Message
	pos      uint64
}

// ConversationStore is an in-memory implementation of driven.ConversationStore.
// A single write lock serialises appends, so concurrent turns on the
// same thread never interleave.
type ConversationStore struct {
	mu      sync.RWMutex
	convs   map[string]*convEntry
	nextPos uint64
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		convs: make(map[string]*convEntry),
	}
}

// GetOrCreate returns the conversation with the given id, creating a
// new one when the id is empty or unknown. A new conversation always
// gets a fresh id.
func (s *ConversationStore) GetOrCreate(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if entry, ok := s.convs[id]; ok {
			conv := entry.conv
			return &conv, nil
		}
	}

	conv := domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	s.nextPos++
	s.convs[conv.ID] = &convEntry{conv: conv, pos: s.nextPos}

	out := conv
	return &out, nil
}

// AppendMessage adds a message to a conversation.
func (s *ConversationStore) AppendMessage(_ context.Context, conversationID string, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.convs[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.ConversationID = conversationID

	entry.messages = append(entry.messages, *msg)
	return nil
}

// History returns the most recent maxTurns messages in chronological
// order. maxTurns <= 0 returns all. Unknown conversations yield an
// empty history.
func (s *ConversationStore) History(_ context.Context, conversationID string, maxTurns int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.convs[conversationID]
	if !ok {
		return nil, nil
	}

	msgs := entry.messages
	if maxTurns > 0 && maxTurns < len(msgs) {
		msgs = msgs[len(msgs)-maxTurns:]
	}

	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// ListConversations returns all conversations, newest first.
func (s *ConversationStore) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*convEntry, 0, len(s.convs))
	for _, entry := range s.convs {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].conv.CreatedAt.Equal(entries[j].conv.CreatedAt) {
			return entries[i].conv.CreatedAt.After(entries[j].conv.CreatedAt)
		}
		return entries[i].pos > entries[j].pos
	})

	convs := make([]domain.Conversation, len(entries))
	for i, entry := range entries {
		convs[i] = entry.conv
	}
	return convs, nil
}
