package pgvector

import (
	"context"
	"os"
	"testing"

	pgvec "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing DSN",
			cfg:     Config{Dimensions: 3},
			wantErr: "DSN is required",
		},
		{
			name:    "zero dimensions",
			cfg:     Config{DSN: "postgres://localhost/db"},
			wantErr: "dimensions must be positive",
		},
		{
			name:    "negative dimensions",
			cfg:     Config{DSN: "postgres://localhost/db", Dimensions: -1},
			wantErr: "dimensions must be positive",
		},
		{
			name:    "invalid table name",
			cfg:     Config{DSN: "postgres://localhost/db", Dimensions: 3, Table: "chunks; DROP TABLE"},
			wantErr: "invalid table name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := New(context.Background(), tt.cfg)
			assert.Nil(t, idx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchSQL(t *testing.T) {
	idx := &Index{table: DefaultTable, dim: 3}
	query := pgvec.NewVector([]float32{1, 0, 0})

	t.Run("no filter", func(t *testing.T) {
		sql, args := idx.searchSQL(query, 3, nil)
		assert.Contains(t, sql, "FROM chunk_vectors")
		assert.Contains(t, sql, "embedding <=> $1")
		assert.Contains(t, sql, "ORDER BY distance ASC, seq ASC, pos ASC LIMIT $2")
		assert.NotContains(t, sql, "WHERE")
		require.Len(t, args, 2)
		assert.Equal(t, 3, args[1])
	})

	t.Run("category filter", func(t *testing.T) {
		sql, args := idx.searchSQL(query, 3, &domain.VectorFilter{Category: "policies"})
		assert.Contains(t, sql, "WHERE category = $2")
		assert.Contains(t, sql, "LIMIT $3")
		require.Len(t, args, 3)
		assert.Equal(t, "policies", args[1])
	})

	t.Run("document filter", func(t *testing.T) {
		sql, args := idx.searchSQL(query, 5, &domain.VectorFilter{DocumentIDs: []string{"d1", "d2"}})
		assert.Contains(t, sql, "WHERE document_id = ANY($2)")
		assert.Contains(t, sql, "LIMIT $3")
		require.Len(t, args, 3)
		assert.Equal(t, []string{"d1", "d2"}, args[1])
	})

	t.Run("combined filters", func(t *testing.T) {
		sql, args := idx.searchSQL(query, 3, &domain.VectorFilter{
			Category:    "billing",
			DocumentIDs: []string{"d1"},
		})
		assert.Contains(t, sql, "category = $2 AND document_id = ANY($3)")
		assert.Contains(t, sql, "LIMIT $4")
		assert.Len(t, args, 4)
	})
}

func TestCheckDimension(t *testing.T) {
	idx := &Index{table: DefaultTable, dim: 3}

	assert.NoError(t, idx.checkDimension([]float32{1, 2, 3}))

	err := idx.checkDimension([]float32{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "got 2, want 3")
}

func TestDistanceToScore(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"identical", 0, 1},
		{"orthogonal", 1, 0},
		{"opposite", 2, -1},
		{"drift below", 2.0000001, -1},
		{"drift above", -0.0000001, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, distanceToScore(tt.distance), 1e-6)
		})
	}
}

func TestNormalise(t *testing.T) {
	out := normalise([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := normalise([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

// Integration tests - only run against a real PostgreSQL instance with
// the pgvector extension installed.
func newTestIndex(t *testing.T) *Index {
	t.Helper()
	dsn := os.Getenv("CARESYNC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CARESYNC_TEST_POSTGRES_DSN not set, skipping pgvector integration test")
	}

	ctx := context.Background()
	idx, err := New(ctx, Config{DSN: dsn, Table: "chunk_vectors_test", Dimensions: 3})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = idx.pool.Exec(context.Background(), "DROP TABLE IF EXISTS chunk_vectors_test")
		idx.Close()
	})

	_, err = idx.pool.Exec(ctx, "TRUNCATE chunk_vectors_test")
	require.NoError(t, err)
	return idx
}

func TestIntegration_UpsertSearchDelete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	recs := []domain.VectorRecord{
		{ChunkID: "c1", DocumentID: "d1", DocumentName: "hours.txt", Seq: 0, Page: 1, Text: "open 9-5", Embedding: []float32{1, 0, 0}},
		{ChunkID: "c2", DocumentID: "d1", DocumentName: "hours.txt", Seq: 1, Page: 1, Text: "closed sundays", Embedding: []float32{0, 1, 0}},
		{ChunkID: "c3", DocumentID: "d2", DocumentName: "billing.txt", Category: "billing", Seq: 0, Page: 2, Text: "invoices monthly", Embedding: []float32{0, 0, 1}},
	}
	require.NoError(t, idx.UpsertBatch(ctx, recs))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	hits, err := idx.Search(ctx, []float32{1, 0.1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c1", hits[0].Record.ChunkID)
	assert.Equal(t, "open 9-5", hits[0].Record.Text)
	assert.Equal(t, 1, hits[0].Record.Page)
	assert.Greater(t, hits[0].Score, hits[1].Score)

	hits, err = idx.Search(ctx, []float32{1, 0, 0}, 3, &domain.VectorFilter{Category: "billing"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c3", hits[0].Record.ChunkID)

	// Replace keeps the row count stable.
	updated := recs[0]
	updated.Text = "open 8-6"
	require.NoError(t, idx.Upsert(ctx, updated))
	count, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	removed, err := idx.DeleteByDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = idx.DeleteByDocument(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	count, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIntegration_ExactMatchScoresOne(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	rec := domain.VectorRecord{
		ChunkID: "c1", DocumentID: "d1", DocumentName: "a.txt",
		Seq: 0, Text: "hello", Embedding: []float32{3, 4, 0},
	}
	require.NoError(t, idx.Upsert(ctx, rec))

	// Same direction, different magnitude; cosine similarity is 1.
	hits, err := idx.Search(ctx, []float32{6, 8, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.VectorIndex = (*Index)(nil)
}
