// Command caresync is the clinic document assistant.
// It wires the storage, AI and index adapters into the core services
// and hands them to the CLI; all dependency injection happens here.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Mettice/caresync/internal/adapters/driven/ai"
	configfile "github.com/Mettice/caresync/internal/adapters/driven/config/file"
	"github.com/Mettice/caresync/internal/adapters/driven/storage/sqlite"
	"github.com/Mettice/caresync/internal/adapters/driving/cli"
	"github.com/Mettice/caresync/internal/chunker"
	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
	"github.com/Mettice/caresync/internal/core/services"
	"github.com/Mettice/caresync/internal/logger"
	"github.com/Mettice/caresync/internal/parsers"
	docxparser "github.com/Mettice/caresync/internal/parsers/docx"
	pdfparser "github.com/Mettice/caresync/internal/parsers/pdf"
	textparser "github.com/Mettice/caresync/internal/parsers/plaintext"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env files seed provider keys during development.
	_ = godotenv.Load()

	ctx := context.Background()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("config store: %w", err)
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("prompt store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	aiResult, err := ai.Initialize(ctx, settings)
	if err != nil {
		return fmt.Errorf("initialise AI services: %w", err)
	}
	defer aiResult.Close()

	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}

	docStore := store.DocumentStore()
	convStore := store.ConversationStore()

	// The memory backend holds vectors only for the process lifetime;
	// embeddings persisted with the chunks rebuild it at startup.
	if settings.Vector.Backend == domain.VectorBackendMemory {
		if err := rebuildIndex(ctx, docStore, aiResult.VectorIndex); err != nil {
			return fmt.Errorf("rebuild vector index: %w", err)
		}
	}

	registry := parsers.NewRegistry(
		pdfparser.New(),
		docxparser.New(),
		textparser.New(),
	)

	chk := chunker.New(
		chunker.WithChunkSize(settings.Chunking.ChunkSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	cli.SetServices(cli.Services{
		Ingestor: services.NewIngestService(
			docStore, registry, chk,
			aiResult.EmbeddingService, aiResult.VectorIndex,
			settings.Ingest,
		),
		Asker: services.NewAskService(
			convStore, promptStore,
			aiResult.EmbeddingService, aiResult.LLMService, aiResult.VectorIndex,
			settings.Retrieval, settings.Answer,
		),
		Document:     services.NewDocumentService(docStore, aiResult.VectorIndex),
		Conversation: services.NewConversationService(convStore),
		Settings:     settingsService,
	})

	return cli.Execute()
}

// rebuildIndex reloads every indexed document's chunk embeddings into the
// vector index so earlier ingestions stay searchable across restarts.
func rebuildIndex(ctx context.Context, docStore driven.DocumentStore, index driven.VectorIndex) error {
	docs, err := docStore.ListDocuments(ctx)
	if err != nil {
		return err
	}

	for i := range docs {
		if docs[i].Status != domain.StatusIndexed {
			continue
		}

		chunks, err := docStore.GetChunks(ctx, docs[i].ID)
		if err != nil {
			return fmt.Errorf("load chunks of %s: %w", docs[i].ID, err)
		}

		records := make([]domain.VectorRecord, 0, len(chunks))
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			records = append(records, domain.VectorRecord{
				ChunkID:      chunk.ID,
				DocumentID:   chunk.DocumentID,
				DocumentName: docs[i].Filename,
				Category:     docs[i].Category,
				Seq:          chunk.Seq,
				Page:         chunk.Page,
				Text:         chunk.Text,
				Embedding:    chunk.Embedding,
			})
		}
		if len(records) == 0 {
			continue
		}

		if err := index.UpsertBatch(ctx, records); err != nil {
			return fmt.Errorf("index chunks of %s: %w", docs[i].ID, err)
		}
	}

	return nil
}
