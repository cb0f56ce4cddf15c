package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchAfter(t *testing.T) {
	tests := []struct {
		name string
		adj  []uint32
		x    uint32
		want int
	}{
		{"single", []uint32{4}, 4, 1},
		{"first", []uint32{1, 3, 5, 7}, 1, 1},
		{"middle", []uint32{1, 3, 5, 7}, 5, 3},
		{"last", []uint32{1, 3, 5, 7}, 7, 4},
		{"duplicates", []uint32{1, 3, 3, 3, 9}, 3, 4},
		{"absent below", []uint32{2, 4}, 1, 0},
		{"absent between", []uint32{2, 4}, 3, 1},
		{"absent above", []uint32{2, 4}, 8, 2},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchAfter(tt.adj, tt.x)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got, len(tt.adj))
		})
	}
}

func TestScratch_ResetIsSparse(t *testing.T) {
	s := newScratch(16)
	s.visit(3)
	s.visit(9)
	s.visit(3)

	assert.Equal(t, []uint32{3, 9}, s.candidates)
	assert.Equal(t, uint32(2), s.inter[3])
	assert.Equal(t, uint32(1), s.inter[9])
	assert.False(t, s.seen.None())

	s.reset()
	assert.Empty(t, s.candidates)
	assert.True(t, s.seen.None())
	for _, c := range s.inter {
		assert.Zero(t, c)
	}

	s.visit(15)
	assert.Equal(t, []uint32{15}, s.candidates)
	assert.Equal(t, uint32(1), s.inter[15])
}

func TestMeasures(t *testing.T) {
	assert.InDelta(t, 1.0/3, Jaccard(1, 2, 2), 1e-12)
	assert.InDelta(t, 0.5, Cosine(1, 2, 2), 1e-12)
	assert.InDelta(t, 0.4, F1(1, 2, 3), 1e-12)
	// Identical neighborhoods score 1 under every metric.
	assert.InDelta(t, 1.0, Jaccard(3, 3, 3), 1e-12)
	assert.InDelta(t, 1.0, Cosine(3, 3, 3), 1e-12)
	assert.InDelta(t, 1.0, F1(3, 3, 3), 1e-12)
	assert.Nil(t, measureFor("dice"))
}
