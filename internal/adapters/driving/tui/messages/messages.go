// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/Mettice/caresync/internal/core/domain"
)

// QuestionSubmitted is sent when the caller submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries a completed AnswerResult back to the model.
type AnswerReceived struct {
	Result *domain.AnswerResult
	Err    error
}

// StatsLoaded carries corpus statistics for the status bar.
type StatsLoaded struct {
	Stats *domain.DocumentStats
	Err   error
}

// ConversationReset is sent when a new conversation thread starts.
type ConversationReset struct{}
