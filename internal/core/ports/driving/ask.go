package driving

import (
	"context"

	"github.com/Mettice/caresync/internal/core/domain"
)

// Asker answers free-text questions grounded in the ingested corpus.
type Asker interface {
	// Ask embeds the question, retrieves relevant chunks, composes a
	// bounded context and synthesizes a cited answer within the given
	// conversation. An empty conversationID starts a new conversation;
	// the returned AnswerResult carries the id to continue it.
	//
	// A question with no relevant context is a normal outcome: the
	// result has HasContext=false, no citations and floor confidence.
	Ask(ctx context.Context, question, conversationID string) (*domain.AnswerResult, error)

	// Retrieve runs the retrieval stage only and returns the ranked
	// hits that clear the configured threshold. Used by search surfaces
	// that want provenance without synthesis.
	Retrieve(ctx context.Context, query string) ([]domain.VectorHit, error)
}
