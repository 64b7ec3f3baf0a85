package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mettice/caresync/internal/core/domain"
)

// ingestCategory is a flag grouping the ingested documents.
var ingestCategory string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the index",
	Long: `Parses, chunks, embeds and indexes the given files.
Supported formats: PDF, DOCX, TXT.

Each file either becomes fully searchable or is reported failed;
a failing file never blocks the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "", "category assigned to the ingested documents")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	failed := 0
	for _, path := range args {
		receipt, err := ingestService.IngestFile(ctx, path, ingestCategory)
		if err != nil {
			failed++
			cmd.Printf("  %s: FAILED (%s)\n", path, ingestFailureReason(err))
			continue
		}
		cmd.Printf("  %s: indexed as %s (%d chunks)\n", path, receipt.DocumentID, receipt.ChunkCount)
	}

	cmd.Printf("\nIngested %d of %d files.\n", len(args)-failed, len(args))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// ingestFailureReason maps domain errors to operator-facing advice.
func ingestFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported format; only .pdf, .docx and .txt are accepted"
	case errors.Is(err, domain.ErrCorruptDocument):
		return "file could not be parsed; it may be corrupt"
	case errors.Is(err, domain.ErrEmptyDocument):
		return "no extractable text"
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return "file exceeds the maximum upload size"
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return "embedding provider unavailable; try again later or run 'caresync settings wizard'"
	default:
		return err.Error()
	}
}
