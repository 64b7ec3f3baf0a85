package domain

// VectorRecord is the persisted unit in the vector index: a chunk's
// embedding plus the denormalised metadata citations need, so search
// requires no join at query time.
type VectorRecord struct {
	// ChunkID is the unique identifier of the embedded chunk.
	ChunkID string

	// DocumentID links to the owning document.
	DocumentID string

	// DocumentName is the original filename, denormalised for citations.
	DocumentName string

	// Category mirrors the document category for pre-ranking filters.
	Category string

	// Seq is the chunk's sequence index, used for deterministic tie-breaks.
	Seq int

	// Page is the 1-based source page, or 0 when unknown.
	Page int

	// Text is the chunk content, used for snippets and context blocks.
	Text string

	// Embedding is the vector, normalised to unit length at insert.
	Embedding []float32
}

// VectorFilter restricts a search before ranking, so top-k always
// returns the best k matching records rather than a truncation of
// an unfiltered result.
type VectorFilter struct {
	// Category limits results to documents with this category.
	// Empty matches all.
	Category string

	// DocumentIDs limits results to these documents. Empty matches all.
	DocumentIDs []string
}

// Matches reports whether a record passes the filter.
func (f *VectorFilter) Matches(rec *VectorRecord) bool {
	if f == nil {
		return true
	}
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	if len(f.DocumentIDs) > 0 {
		found := false
		for _, id := range f.DocumentIDs {
			if rec.DocumentID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// VectorHit is a single search result with its similarity score.
type VectorHit struct {
	// Record is the matched vector record.
	Record VectorRecord

	// Score is the cosine similarity in [-1,1]; higher is more similar.
	Score float64
}
