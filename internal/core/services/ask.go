package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/ports/driving"
	"github.com/Mettice/caresync/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.Asker = (*AskService)(nil)

// Fallback prompts used when no prompt store is configured.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultQASystemPrompt = `You are CareSync AI, a helpful clinic assistant. Answer the user's question based only on the provided context from the clinic's documents. If the context does not contain enough information to answer, say that you don't know and avoid making up information. Be concise.`

	defaultQAUserPrompt = `Context:
%s

User question: %s

Answer:`

	defaultNoContextAnswer = `I don't have enough information in the clinic's documents to answer that. Try rephrasing the question, or check that the relevant document has been ingested.`

	defaultDegradedAnswer = `I found relevant documents but was unable to generate an answer right now. The sources below may still help; please try again shortly.`
)

// contextSeparator joins labelled chunks in the composed context block.
const contextSeparator = "\n\n"

// AskService answers questions grounded in the ingested corpus.
//
// The pipeline is embed, retrieve, compose, synthesize. Retrieval finding
// nothing and synthesis failing after retrieval are both first-class
// outcomes with fixed replies; only embedding failure aborts the request.
type AskService struct {
	convStore        driven.ConversationStore
	promptStore      driven.PromptStore
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	vectorIndex      driven.VectorIndex
	retrieval        domain.RetrievalSettings
	answer           domain.AnswerSettings
}

// NewAskService creates a new ask service.
// The promptStore, embeddingService and llmService parameters are optional
// (can be nil); zero-valued settings fields fall back to the defaults.
func NewAskService(
	convStore driven.ConversationStore,
	promptStore driven.PromptStore,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	vectorIndex driven.VectorIndex,
	retrieval domain.RetrievalSettings,
	answer domain.AnswerSettings,
) *AskService {
	defaults := domain.DefaultAppSettings()
	if retrieval.TopK <= 0 {
		retrieval.TopK = defaults.Retrieval.TopK
	}
	if answer.MaxContextChars <= 0 {
		answer.MaxContextChars = defaults.Answer.MaxContextChars
	}
	if answer.MaxHistoryMessages <= 0 {
		answer.MaxHistoryMessages = defaults.Answer.MaxHistoryMessages
	}
	if answer.SnippetLength <= 0 {
		answer.SnippetLength = defaults.Answer.SnippetLength
	}
	if answer.ConfidenceFloor <= 0 {
		answer.ConfidenceFloor = defaults.Answer.ConfidenceFloor
	}
	if answer.Temperature <= 0 {
		answer.Temperature = defaults.Answer.Temperature
	}
	if len(answer.InsufficientPatterns) == 0 {
		answer.InsufficientPatterns = defaults.Answer.InsufficientPatterns
	}

	return &AskService{
		convStore:        convStore,
		promptStore:      promptStore,
		embeddingService: embeddingService,
		llmService:       llmService,
		vectorIndex:      vectorIndex,
		retrieval:        retrieval,
		answer:           answer,
	}
}

// Ask answers a question within a conversation.
//
// The conversation is created and written only once a complete
// AnswerResult exists: an aborted request leaves neither a partial turn
// nor an empty conversation behind.
func (s *AskService) Ask(ctx context.Context, question, conversationID string) (*domain.AnswerResult, error) {
	logger.Section("Question Answering")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	logger.Debug("Question: %q", question)

	hits, err := s.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	contextBlock, citations := s.compose(hits)

	var result *domain.AnswerResult
	if len(citations) == 0 {
		logger.Info("No context cleared the threshold")
		result = &domain.AnswerResult{
			Answer:     s.loadPrompt(driven.PromptNoContextAnswer, defaultNoContextAnswer),
			Confidence: s.answer.ConfidenceFloor,
			HasContext: false,
		}
	} else if answerText, synthErr := s.synthesize(ctx, conversationID, contextBlock, question); synthErr != nil {
		// Partial provenance beats a failed request: keep the citations,
		// report zero confidence.
		logger.Warn("Synthesis failed, degrading: %v", synthErr)
		result = &domain.AnswerResult{
			Answer:     s.loadPrompt(driven.PromptDegradedAnswer, defaultDegradedAnswer),
			Citations:  citations,
			Confidence: 0,
			HasContext: true,
		}
	} else {
		result = &domain.AnswerResult{
			Answer:     answerText,
			Citations:  citations,
			Confidence: s.deriveConfidence(answerText, citations),
			HasContext: true,
		}
	}

	conv, err := s.convStore.GetOrCreate(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	result.ConversationID = conv.ID

	if err := s.appendTurn(ctx, conv.ID, question, result); err != nil {
		return nil, err
	}

	logger.Info("Answered with %d citations, confidence %.2f", len(result.Citations), result.Confidence)
	return result, nil
}

// Retrieve embeds the query and returns the hits that clear the
// configured similarity threshold, best first.
func (s *AskService) Retrieve(ctx context.Context, query string) ([]domain.VectorHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if s.vectorIndex == nil {
		return nil, fmt.Errorf("%w: no vector index configured", domain.ErrEmbeddingUnavailable)
	}

	queryVec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, queryVec, s.retrieval.TopK, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	// Drop hits below the similarity threshold. An empty result is a
	// normal outcome, not an error.
	kept := make([]domain.VectorHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= s.retrieval.MinScore {
			kept = append(kept, hit)
		}
	}

	logger.Debug("Retrieval: %d hits, %d above threshold %.2f", len(hits), len(kept), s.retrieval.MinScore)
	return kept, nil
}

// compose builds the bounded context block and its citations.
//
// Whole chunks are appended in descending score order; composition stops
// before the first chunk that would overflow the character budget. Each
// included chunk yields one citation.
func (s *AskService) compose(hits []domain.VectorHit) (string, []domain.Citation) {
	var blocks []string //nolint:prealloc // budget may stop composition early
	var citations []domain.Citation //nolint:prealloc // budget may stop composition early

	used := 0
	for _, hit := range hits {
		block := formatContextBlock(hit.Record)
		cost := len(block)
		if len(blocks) > 0 {
			cost += len(contextSeparator)
		}
		if used+cost > s.answer.MaxContextChars {
			break
		}
		used += cost

		blocks = append(blocks, block)
		citations = append(citations, domain.Citation{
			DocumentName: hit.Record.DocumentName,
			Page:         hit.Record.Page,
			Snippet:      snippet(hit.Record.Text, s.answer.SnippetLength),
			Score:        clamp01(hit.Score),
		})
	}

	return strings.Join(blocks, contextSeparator), citations
}

// synthesize asks the LLM for an answer grounded in the context block.
func (s *AskService) synthesize(ctx context.Context, conversationID, contextBlock, question string) (string, error) {
	if s.llmService == nil {
		return "", fmt.Errorf("%w: no LLM provider configured", domain.ErrSynthesisUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.loadPrompt(driven.PromptQASystem, defaultQASystemPrompt)},
	}

	// Recent turns let follow-up questions resolve references to
	// earlier answers. The current question is not yet appended, so
	// history never repeats it.
	history, err := s.convStore.History(ctx, conversationID, s.answer.MaxHistoryMessages)
	if err != nil {
		logger.Warn("History unavailable for %s: %v", conversationID, err)
	}
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}

	userTemplate := s.loadPrompt(driven.PromptQAUser, defaultQAUserPrompt)
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf(userTemplate, contextBlock, question),
	})

	answer, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{
		Temperature: s.answer.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

// deriveConfidence computes answer confidence from the retrieval signal.
// The model never reports its own confidence.
func (s *AskService) deriveConfidence(answer string, citations []domain.Citation) float64 {
	if len(citations) == 0 {
		return s.answer.ConfidenceFloor
	}

	// Citations are ordered best first and their scores already clamped.
	confidence := citations[0].Score

	// An answer admitting it lacks information contradicts a strong
	// retrieval score; halve the confidence.
	lower := strings.ToLower(answer)
	for _, pattern := range s.answer.InsufficientPatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			confidence *= 0.5
			break
		}
	}

	return confidence
}

// appendTurn records the question and the finished answer.
func (s *AskService) appendTurn(ctx context.Context, conversationID, question string, result *domain.AnswerResult) error {
	userMsg := &domain.Message{
		Role:    domain.RoleUser,
		Content: question,
	}
	if err := s.convStore.AppendMessage(ctx, conversationID, userMsg); err != nil {
		return fmt.Errorf("append question: %w", err)
	}

	assistantMsg := &domain.Message{
		Role:       domain.RoleAssistant,
		Content:    result.Answer,
		Citations:  result.Citations,
		Confidence: result.Confidence,
	}
	if err := s.convStore.AppendMessage(ctx, conversationID, assistantMsg); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}

	return nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AskService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// formatContextBlock labels a chunk with its provenance so the model can
// ground statements against named sources.
func formatContextBlock(rec domain.VectorRecord) string {
	if rec.Page > 0 {
		return fmt.Sprintf("[Source: %s (page %d)]\n%s", rec.DocumentName, rec.Page, rec.Text)
	}
	return fmt.Sprintf("[Source: %s]\n%s", rec.DocumentName, rec.Text)
}

// snippet bounds an excerpt to maxLen characters, cutting on a rune
// boundary so multi-byte text stays valid.
func snippet(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}

// clamp01 bounds a similarity score to [0,1] for use as confidence.
func clamp01(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
