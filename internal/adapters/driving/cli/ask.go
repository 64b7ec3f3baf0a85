package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mettice/caresync/internal/core/domain"
)

var (
	askConversation string
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the clinic",
	Long: `Answers a free-text question grounded in the ingested documents.
The answer carries source citations (document, page, snippet, score)
and a confidence estimate.

Pass --conversation to continue an earlier thread; the conversation id
is printed with every answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversation, "conversation", "C", "", "conversation id to continue")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	ctx := context.Background()

	result, err := askService.Ask(ctx, args[0], askConversation)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return fmt.Errorf("cannot answer right now, the embedding provider is unavailable: %w", err)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, result)
	}
	return outputAnswerText(cmd, result)
}

func outputAnswerJSON(cmd *cobra.Command, result *domain.AnswerResult) error {
	data, err := json.MarshalIndent(answerPayload(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, result *domain.AnswerResult) error {
	cmd.Println(result.Answer)
	cmd.Println()

	if len(result.Citations) > 0 {
		cmd.Println("Sources:")
		for i, c := range result.Citations {
			cmd.Printf("  [%d] %s%s (%.2f)\n", i+1, c.DocumentName, pageSuffix(c.Page), c.Score)
			if c.Snippet != "" {
				cmd.Printf("      %s\n", c.Snippet)
			}
		}
		cmd.Println()
	}

	cmd.Printf("Confidence: %.2f\n", result.Confidence)
	cmd.Printf("Conversation: %s\n", result.ConversationID)
	return nil
}

// answerPayload shapes an AnswerResult for JSON output with stable keys.
func answerPayload(result *domain.AnswerResult) map[string]any {
	citations := make([]map[string]any, len(result.Citations))
	for i, c := range result.Citations {
		citations[i] = map[string]any{
			"document_name": c.DocumentName,
			"snippet":       c.Snippet,
			"score":         c.Score,
		}
		if c.Page > 0 {
			citations[i]["page"] = c.Page
		}
	}
	return map[string]any{
		"answer":          result.Answer,
		"citations":       citations,
		"confidence":      result.Confidence,
		"has_context":     result.HasContext,
		"conversation_id": result.ConversationID,
	}
}

func pageSuffix(page int) string {
	if page <= 0 {
		return ""
	}
	return fmt.Sprintf(", page %d", page)
}
