package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		val  float64
		want int
	}{
		{0, 0},
		{0.05, 0},
		{0.1, 1},
		{0.25, 2},
		{0.5, 5},
		{0.9, 9},
		{0.95, 9},
		{1, 9},
		{1.5, 9},
		{math.Inf(1), 9},
		{-0.5, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketIndex(tt.val), "value %v", tt.val)
	}
}

func TestHistogram_AddAndLayout(t *testing.T) {
	h := NewHistogram(MetricCosine, MetricJaccard, MetricF1)
	require.Len(t, h.Counts, 30)
	assert.True(t, h.IsZero())

	h.Add(0, 0.45)
	h.Add(1, 0.25)
	h.Add(1, 0.25)
	h.Add(2, 1.0)

	assert.Equal(t, uint64(1), h.Bucket(0, 4))
	assert.Equal(t, uint64(2), h.Bucket(1, 2))
	assert.Equal(t, uint64(1), h.Counts[29])
	assert.Equal(t, uint64(2), h.Total(1))
	assert.Equal(t, 1, h.Index(MetricJaccard))
	assert.Equal(t, -1, NewHistogram(MetricJaccard).Index(MetricF1))
	assert.False(t, h.IsZero())
}

func TestHistogram_MergeIsAssociativeAndCommutative(t *testing.T) {
	mk := func(vals ...float64) *Histogram {
		h := NewHistogram(MetricJaccard)
		for _, v := range vals {
			h.Add(0, v)
		}
		return h
	}
	a, b, c := mk(0.1, 0.2), mk(0.9, 0.95, 0.2), mk(0.55)

	ab := a.Clone()
	require.NoError(t, ab.Merge(b))
	abc := ab.Clone()
	require.NoError(t, abc.Merge(c))

	bc := b.Clone()
	require.NoError(t, bc.Merge(c))
	aBC := a.Clone()
	require.NoError(t, aBC.Merge(bc))
	assert.True(t, abc.Equal(aBC))

	all, err := MergeAll(c, a, b)
	require.NoError(t, err)
	assert.True(t, abc.Equal(all))
	assert.Equal(t, uint64(6), all.Total(0))

	// Inputs are untouched.
	assert.Equal(t, uint64(2), a.Total(0))
}

func TestHistogram_MergeLayoutMismatch(t *testing.T) {
	h := NewHistogram(MetricJaccard)
	assert.Error(t, h.Merge(NewHistogram(MetricCosine)))
	assert.Error(t, h.Merge(NewHistogram(MetricJaccard, MetricCosine)))

	_, err := MergeAll()
	assert.Error(t, err)
}

func TestHistogram_CloneIsDeep(t *testing.T) {
	h := NewHistogram(MetricJaccard)
	h.Add(0, 0.3)
	c := h.Clone()
	c.Add(0, 0.3)
	assert.Equal(t, uint64(1), h.Bucket(0, 3))
	assert.Equal(t, uint64(2), c.Bucket(0, 3))
	assert.False(t, h.Equal(c))
}
