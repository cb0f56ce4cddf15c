package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeometric_RejectsBadLambda(t *testing.T) {
	for _, lambda := range []float64{0, -1, math.NaN(), math.Inf(1), math.Ldexp(1, -60)} {
		_, err := NewGeometric(lambda)
		assert.ErrorIs(t, err, ErrInvalidLambda, "lambda %v", lambda)
	}
	g, err := NewGeometric(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, g.Lambda())
}

func TestSample_SymmetricAroundZero(t *testing.T) {
	g, err := NewGeometric(1.0)
	require.NoError(t, err)

	const n = 20000
	var sum, zeros int64
	for i := 0; i < n; i++ {
		s := g.Sample()
		sum += s
		if s == 0 {
			zeros++
		}
	}
	mean := float64(sum) / n
	assert.InDelta(t, 0, mean, 0.1)

	// Pr[X = 0] = (1 - e^-λ) / (1 + e^-λ) ≈ 0.462 for λ = 1.
	assert.InDelta(t, 0.462, float64(zeros)/n, 0.03)
}

func TestPerturbCounts_ClampsAtZero(t *testing.T) {
	g, err := NewGeometric(0.1)
	require.NoError(t, err)

	counts := make([]uint64, 1000)
	g.PerturbCounts(counts)
	var moved int
	for _, c := range counts {
		if c > 0 {
			moved++
		}
	}
	assert.Positive(t, moved)
}

func TestAddClamped(t *testing.T) {
	assert.Equal(t, uint64(7), addClamped(5, 2))
	assert.Equal(t, uint64(3), addClamped(5, -2))
	assert.Equal(t, uint64(0), addClamped(5, -5))
	assert.Equal(t, uint64(0), addClamped(5, -9))
	assert.Equal(t, uint64(0), addClamped(5, math.MinInt64))
	assert.Equal(t, uint64(math.MaxUint64), addClamped(math.MaxUint64-1, 5))
}
