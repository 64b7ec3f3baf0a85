package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mettice/caresync/internal/core/domain"
)

// historyTurns bounds the history subcommand output; 0 prints everything.
var historyTurns int

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Inspect conversation history",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Args:  cobra.NoArgs,
	RunE:  runConversationsList,
}

var conversationsHistoryCmd = &cobra.Command{
	Use:   "history [conversation-id]",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsHistory,
}

func init() {
	conversationsHistoryCmd.Flags().IntVarP(&historyTurns, "turns", "n", 0, "most recent messages to print (0 = all)")
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsHistoryCmd)
	rootCmd.AddCommand(conversationsCmd)
}

func runConversationsList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	ctx := context.Background()

	convs, err := conversationService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(convs) == 0 {
		cmd.Println("No conversations yet.")
		return nil
	}

	cmd.Println("Conversations:")
	for _, c := range convs {
		cmd.Printf("  %s  (started %s)\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("\nTotal: %d conversations\n", len(convs))
	return nil
}

func runConversationsHistory(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	ctx := context.Background()

	messages, err := conversationService.History(ctx, args[0], historyTurns)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("Conversation is empty.")
		return nil
	}

	for _, msg := range messages {
		cmd.Printf("[%s] %s\n", msg.Role, msg.CreatedAt.Format("15:04:05"))
		cmd.Println(msg.Content)
		if msg.Role == domain.RoleAssistant {
			for _, c := range msg.Citations {
				cmd.Printf("  - %s%s (%.2f)\n", c.DocumentName, pageSuffix(c.Page), c.Score)
			}
			cmd.Printf("  confidence: %.2f\n", msg.Confidence)
		}
		cmd.Println()
	}
	return nil
}
