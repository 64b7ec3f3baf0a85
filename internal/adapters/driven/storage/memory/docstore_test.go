package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mettice/caresync/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.docs)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_SaveDocument_Success(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:        "doc-1",
		Filename:  "intake-policy.pdf",
		Format:    domain.FormatPDF,
		SizeBytes: 4096,
		Status:    domain.StatusIndexed,
		Category:  "policies",
		Metadata:  map[string]any{"author": "front desk"},
	}

	err := store.SaveDocument(ctx, doc)
	require.NoError(t, err)

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", saved.ID)
	assert.Equal(t, "intake-policy.pdf", saved.Filename)
	assert.Equal(t, domain.FormatPDF, saved.Format)
	assert.Equal(t, domain.StatusIndexed, saved.Status)
	assert.Equal(t, "front desk", saved.Metadata["author"])
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestDocumentStore_SaveDocument_Update(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:       "doc-1",
		Filename: "handbook.docx",
		Format:   domain.FormatDOCX,
		Status:   domain.StatusPending,
	}
	require.NoError(t, store.SaveDocument(ctx, doc))
	created := doc.CreatedAt

	doc.Status = domain.StatusIndexed
	doc.ChunkCount = 7
	require.NoError(t, store.SaveDocument(ctx, doc))

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIndexed, saved.Status)
	assert.Equal(t, 7, saved.ChunkCount)
	assert.Equal(t, created, saved.CreatedAt)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc, err := store.GetDocument(ctx, "missing")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentStore_GetDocument_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Filename: "a.txt", Format: domain.FormatTXT}
	require.NoError(t, store.SaveDocument(ctx, doc))

	first, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	first.Filename = "mutated.txt"

	second, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", second.Filename)
}

func TestDocumentStore_SaveAndGetChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "chunk-2", DocumentID: "doc-1", Text: "Second", Seq: 1, Page: 2},
		{ID: "chunk-1", DocumentID: "doc-1", Text: "First", Seq: 0, Page: 1},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by sequence regardless of insert order
	assert.Equal(t, "chunk-1", got[0].ID)
	assert.Equal(t, "chunk-2", got[1].ID)
}

func TestDocumentStore_SaveChunks_ReplacesExisting(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "old-1", DocumentID: "doc-1", Text: "Old", Seq: 0},
		{ID: "old-2", DocumentID: "doc-1", Text: "Older", Seq: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "new-1", DocumentID: "doc-1", Text: "New", Seq: 0},
	}))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func TestDocumentStore_SaveChunks_MultipleDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "a-1", DocumentID: "doc-a", Text: "A", Seq: 0},
		{ID: "b-1", DocumentID: "doc-b", Text: "B", Seq: 0},
		{ID: "a-2", DocumentID: "doc-a", Text: "A2", Seq: 1},
	}))

	aChunks, err := store.GetChunks(ctx, "doc-a")
	require.NoError(t, err)
	assert.Len(t, aChunks, 2)

	bChunks, err := store.GetChunks(ctx, "doc-b")
	require.NoError(t, err)
	assert.Len(t, bChunks, 1)
}

func TestDocumentStore_SaveChunks_Empty(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	assert.NoError(t, store.SaveChunks(ctx, nil))
}

func TestDocumentStore_GetChunks_UnknownDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	got, err := store.GetChunks(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDocumentStore_ListDocuments_NewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"doc-old", "doc-mid", "doc-new"} {
		doc := &domain.Document{
			ID:        id,
			Filename:  id + ".txt",
			Format:    domain.FormatTXT,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-new", docs[0].ID)
	assert.Equal(t, "doc-mid", docs[1].ID)
	assert.Equal(t, "doc-old", docs[2].ID)
}

func TestDocumentStore_ListDocuments_TiesBreakByInsertion(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	same := time.Now().UTC()
	for _, id := range []string{"doc-a", "doc-b", "doc-c"} {
		doc := &domain.Document{ID: id, Filename: id, Format: domain.FormatTXT, CreatedAt: same}
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-c", docs[0].ID)
	assert.Equal(t, "doc-a", docs[2].ID)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Filename: "a.txt", Format: domain.FormatTXT}
	require.NoError(t, store.SaveDocument(ctx, doc))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Text: "gone soon", Seq: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestDocumentStore_DeleteDocument_NonExistent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	assert.NoError(t, store.DeleteDocument(ctx, "missing"))
}

func TestDocumentStore_AllChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "b-1", DocumentID: "doc-b", Text: "B one", Seq: 0},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "a-1", DocumentID: "doc-a", Text: "A one", Seq: 0},
		{ID: "a-2", DocumentID: "doc-a", Text: "A two", Seq: 1},
	}))

	all, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Grouped by document id, ordered by sequence within each
	assert.Equal(t, "a-1", all[0].ID)
	assert.Equal(t, "a-2", all[1].ID)
	assert.Equal(t, "b-1", all[2].ID)
}

func TestDocumentStore_Stats(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, d := range []struct {
		id     string
		status domain.DocumentStatus
	}{
		{"doc-1", domain.StatusIndexed},
		{"doc-2", domain.StatusIndexed},
		{"doc-3", domain.StatusFailed},
	} {
		doc := &domain.Document{ID: d.id, Filename: d.id, Format: domain.FormatTXT, Status: d.status}
		require.NoError(t, store.SaveDocument(ctx, doc))
	}
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Text: "one", Seq: 0},
		{ID: "c-2", DocumentID: "doc-1", Text: "two", Seq: 1},
	}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Documents[domain.StatusIndexed])
	assert.Equal(t, 1, stats.Documents[domain.StatusFailed])
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 0, stats.Vectors)
}

func TestDocumentStore_Concurrency_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numGoroutines := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			doc := &domain.Document{
				ID:       fmt.Sprintf("doc-%d", id),
				Filename: fmt.Sprintf("doc-%d.txt", id),
				Format:   domain.FormatTXT,
			}
			_ = store.SaveDocument(ctx, doc)
			_ = store.SaveChunks(ctx, []domain.Chunk{
				{ID: fmt.Sprintf("chunk-%d", id), DocumentID: doc.ID, Text: "x", Seq: 0},
			})
		}(i)
	}
	wg.Wait()

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			_, _ = store.GetDocument(ctx, fmt.Sprintf("doc-%d", id))
			_, _ = store.GetChunks(ctx, fmt.Sprintf("doc-%d", id))
		}(i)
	}
	wg.Wait()

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, numGoroutines)

	all, err := store.AllChunks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, numGoroutines)
}
