package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mettice/caresync/internal/adapters/driving/watcher"
)

var (
	watchCategory string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Auto-ingest documents from a directory",
	Long: `Watches a directory and ingests supported files (.pdf, .docx, .txt)
as they are created or modified. Removing a watched file deletes its
document from the index.

Runs until interrupted with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCategory, "category", "c", "", "category assigned to auto-ingested documents")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "event debounce interval (default 500ms)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	opts := []watcher.Option{watcher.WithCategory(watchCategory)}
	if watchDebounce > 0 {
		opts = append(opts, watcher.WithDebounce(watchDebounce))
	}

	w, err := watcher.New(ingestService, documentService, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)...\n", dir)

	if err := w.Watch(ctx, dir); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("\nStopped.")
	return nil
}
