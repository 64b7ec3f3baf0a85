package domain

import "time"

// MessageRole identifies who produced a conversation message.
type MessageRole string

// Message roles.
const (
	// RoleUser is a question from the caller.
	RoleUser MessageRole = "user"

	// RoleAssistant is a synthesized answer.
	RoleAssistant MessageRole = "assistant"
)

// IsValid returns true if the role is recognised.
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r MessageRole) String() string {
	return string(r)
}

// Conversation groups an ordered message history under one id.
// Conversations are append-only: messages are added, never mutated.
type Conversation struct {
	// ID is the unique identifier, created on first use.
	ID string

	// CreatedAt is when the conversation started.
	CreatedAt time.Time
}

// Message is a single turn in a conversation.
type Message struct {
	// ID is the unique identifier for the message.
	ID string

	// ConversationID links to the owning Conversation.
	ConversationID string

	// Role is who produced the message.
	Role MessageRole

	// Content is the message text.
	Content string

	// Citations holds provenance for assistant messages; nil for user turns.
	Citations []Citation

	// Confidence is the answer confidence for assistant messages.
	Confidence float64

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}

// Citation links part of an answer back to a source document.
type Citation struct {
	// DocumentName is the original filename of the cited document.
	DocumentName string

	// Page is the 1-based source page, or 0 when the format has no pages.
	Page int

	// Snippet is a bounded excerpt from the cited chunk.
	Snippet string

	// Score is the retrieval relevance in [0,1].
	Score float64
}

// AnswerResult is the outcome of answering one question.
type AnswerResult struct {
	// Answer is the synthesized answer text.
	Answer string

	// Citations lists sources in descending relevance order.
	// Empty when no context cleared the retrieval threshold.
	Citations []Citation

	// Confidence estimates how well-grounded the answer is, in [0,1].
	// Derived deterministically from the retrieval signal.
	Confidence float64

	// HasContext is true iff at least one citation backs the answer.
	HasContext bool

	// ConversationID identifies the conversation the answer belongs to.
	// Callers persist it to continue the thread.
	ConversationID string
}
