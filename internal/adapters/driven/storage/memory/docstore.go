package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// docEntry pairs a document with its insertion position so listing
// stays deterministic when creation times collide.
type docEntry struct {
	doc domain.Document
	pos uint64
}

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]*docEntry
	chunks  map[string][]domain.Chunk
	nextPos uint64
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string]*docEntry),
		chunks: make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if existing, ok := s.docs[doc.ID]; ok {
		existing.doc = *doc
		return nil
	}
	s.nextPos++
	s.docs[doc.ID] = &docEntry{doc: *doc, pos: s.nextPos}
	return nil
}

// SaveChunks stores chunks for a document, replacing any existing set.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]domain.Chunk)
	for _, chunk := range chunks {
		grouped[chunk.DocumentID] = append(grouped[chunk.DocumentID], chunk)
	}

	for docID, set := range grouped {
		sort.Slice(set, func(i, j int) bool { return set[i].Seq < set[j].Seq })
		s.chunks[docID] = set
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc := entry.doc
	return &doc, nil
}

// GetChunks retrieves all chunks for a document ordered by sequence.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Chunk, len(set))
	copy(out, set)
	return out, nil
}

// ListDocuments returns all documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*docEntry, 0, len(s.docs))
	for _, entry := range s.docs {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].doc.CreatedAt.Equal(entries[j].doc.CreatedAt) {
			return entries[i].doc.CreatedAt.After(entries[j].doc.CreatedAt)
		}
		return entries[i].pos > entries[j].pos
	})

	docs := make([]domain.Document, len(entries))
	for i, entry := range entries {
		docs[i] = entry.doc
	}
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
// Deleting an unknown id is a no-op.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	delete(s.chunks, id)
	return nil
}

// AllChunks returns every stored chunk, used to rebuild the vector index.
func (s *DocumentStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.chunks))
	for docID := range s.chunks {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	var all []domain.Chunk //nolint:prealloc // total size not tracked
	for _, docID := range docIDs {
		all = append(all, s.chunks[docID]...)
	}
	return all, nil
}

// Stats reports document and chunk counts. The vector count is filled
// in by the caller from the index.
func (s *DocumentStore) Stats(_ context.Context) (*domain.DocumentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.DocumentStats{
		Documents: make(map[domain.DocumentStatus]int),
	}
	for _, entry := range s.docs {
		stats.Documents[entry.doc.Status]++
	}
	for _, set := range s.chunks {
		stats.Chunks += len(set)
	}
	return stats, nil
}
