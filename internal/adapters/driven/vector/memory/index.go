// Package memory provides an in-memory vector index using brute-force
// cosine similarity. It is the default backend: rebuilt from the chunk
// store at startup, no external services required.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry pairs a stored record with its insertion position, the final
// tie-break for search ordering.
type entry struct {
	rec domain.VectorRecord
	pos uint64
}

// Index is an exact-search vector index. Embeddings are normalised to
// unit length at insert and query time, so scores are cosine similarity
// in [-1,1].
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries map[string]*entry
	nextPos uint64
}

// New creates an index for vectors of the given dimension. If dimensions
// is zero or negative the first inserted vector fixes the dimension.
func New(dimensions int) *Index {
	return &Index{
		dim:     dimensions,
		entries: make(map[string]*entry),
	}
}

// Upsert inserts or replaces a single record.
func (idx *Index) Upsert(_ context.Context, rec domain.VectorRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.checkDimension(rec.Embedding); err != nil {
		return err
	}
	idx.store(rec)
	return nil
}

// UpsertBatch inserts or replaces records as one operation. Every record
// is validated before any is stored, so a dimension mismatch anywhere in
// the batch leaves the index unchanged.
func (idx *Index) UpsertBatch(_ context.Context, recs []domain.VectorRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, rec := range recs {
		if err := idx.checkDimension(rec.Embedding); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.ChunkID, err)
		}
	}
	for _, rec := range recs {
		idx.store(rec)
	}
	return nil
}

// checkDimension validates an embedding against the index dimension,
// adopting it from the first vector when the index was created without
// one. Callers must hold the write lock.
func (idx *Index) checkDimension(embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrDimensionMismatch)
	}
	if idx.dim <= 0 {
		idx.dim = len(embedding)
		return nil
	}
	if len(embedding) != idx.dim {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(embedding), idx.dim)
	}
	return nil
}

// store writes a record under its chunk ID. Replacing an existing chunk
// keeps its original insertion position so repeated re-ingestion does
// not reshuffle tie-breaks.
func (idx *Index) store(rec domain.VectorRecord) {
	rec.Embedding = normalise(rec.Embedding)
	if existing, ok := idx.entries[rec.ChunkID]; ok {
		existing.rec = rec
		return
	}
	idx.entries[rec.ChunkID] = &entry{rec: rec, pos: idx.nextPos}
	idx.nextPos++
}

// Search finds the topK records nearest to the query vector. The filter
// applies before ranking. A non-positive topK returns no hits.
func (idx *Index) Search(_ context.Context, query []float32, topK int, filter *domain.VectorFilter) ([]domain.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.dim > 0 && len(query) != idx.dim {
		return nil, fmt.Errorf("query: %w: got %d, want %d", domain.ErrDimensionMismatch, len(query), idx.dim)
	}
	if topK <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}

	q := normalise(query)

	type scored struct {
		ent   *entry
		score float64
	}
	candidates := make([]scored, 0, len(idx.entries))
	for _, ent := range idx.entries {
		if !filter.Matches(&ent.rec) {
			continue
		}
		candidates = append(candidates, scored{ent: ent, score: dot(ent.rec.Embedding, q)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].ent.rec.Seq != candidates[j].ent.rec.Seq {
			return candidates[i].ent.rec.Seq < candidates[j].ent.rec.Seq
		}
		return candidates[i].ent.pos < candidates[j].ent.pos
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	hits := make([]domain.VectorHit, topK)
	for i := 0; i < topK; i++ {
		hits[i] = domain.VectorHit{
			Record: candidates[i].ent.rec,
			Score:  candidates[i].score,
		}
	}
	return hits, nil
}

// DeleteByDocument removes every record belonging to a document and
// returns the number removed.
func (idx *Index) DeleteByDocument(_ context.Context, documentID string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed := 0
	for chunkID, ent := range idx.entries {
		if ent.rec.DocumentID == documentID {
			delete(idx.entries, chunkID)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of records in the index.
func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// normalise returns a unit-length copy of v. A zero vector is returned
// as a copy unchanged; it scores zero against everything.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
