package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVectorFilter_Matches tests pre-ranking filter semantics
func TestVectorFilter_Matches(t *testing.T) {
	rec := &VectorRecord{
		ChunkID:      "c1",
		DocumentID:   "d1",
		DocumentName: "clinic_info.pdf",
		Category:     "policies",
	}

	tests := []struct {
		name    string
		filter  *VectorFilter
		matches bool
	}{
		{
			name:    "nil filter matches everything",
			filter:  nil,
			matches: true,
		},
		{
			name:    "empty filter matches everything",
			filter:  &VectorFilter{},
			matches: true,
		},
		{
			name:    "matching category",
			filter:  &VectorFilter{Category: "policies"},
			matches: true,
		},
		{
			name:    "mismatching category",
			filter:  &VectorFilter{Category: "billing"},
			matches: false,
		},
		{
			name:    "matching document id",
			filter:  &VectorFilter{DocumentIDs: []string{"d0", "d1"}},
			matches: true,
		},
		{
			name:    "mismatching document id",
			filter:  &VectorFilter{DocumentIDs: []string{"d2"}},
			matches: false,
		},
		{
			name:    "category and id must both match",
			filter:  &VectorFilter{Category: "policies", DocumentIDs: []string{"d2"}},
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.filter.Matches(rec))
		})
	}
}
