// Package noise samples two-sided geometric noise. The sampler follows
// google-dp's geometric mechanism:
// https://github.com/google/differential-privacy/tree/main/go/v2/noise/laplace_noise.go
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/differential-privacy/go/v2/rand"
)

// ErrInvalidLambda is returned for a non-positive or non-finite parameter.
var ErrInvalidLambda = errors.New("geometric noise: lambda must be finite and > 2^-59")

// minLambda keeps the probability of a truncated sample below 10^-6.
var minLambda = math.Ldexp(1, -59)

// Geometric draws two-sided geometric noise with success probability
// p = 1 - e^-lambda. For a count that moves by at most s between
// neighboring inputs, lambda = epsilon/s gives epsilon-DP; bounding s is
// the caller's job.
type Geometric struct {
	lambda float64
}

// NewGeometric validates lambda and returns a sampler.
func NewGeometric(lambda float64) (*Geometric, error) {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= minLambda {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidLambda, lambda)
	}
	return &Geometric{lambda: lambda}, nil
}

// Lambda returns the distribution parameter.
func (g *Geometric) Lambda() float64 {
	return g.lambda
}

// trials returns the number of Bernoulli trials up to and including the
// first success, truncated to MaxInt64.
func (g *Geometric) trials() int64 {
	if rand.Uniform() > -math.Expm1(-g.lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Binary search over (lo, hi], splitting the remaining probability mass
	// roughly in half each step.
	var lo, hi int64 = 0, math.MaxInt64
	for lo+1 < hi {
		mid := lo - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(g.lambda*float64(lo-hi))))/g.lambda))
		mid = min(max(mid, lo+1), hi-1)

		// Pr[X <= mid | lo < X <= hi]
		q := math.Expm1(g.lambda*float64(lo-mid)) / math.Expm1(g.lambda*float64(lo-hi))
		if rand.Uniform() <= q {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// Sample draws from the geometric distribution mirrored at 0.
func (g *Geometric) Sample() int64 {
	for {
		s := g.trials() - 1
		sign := int64(rand.Sign())
		// A zero drawn with negative sign is rejected so 0 is not double-weighted.
		if s != 0 || sign == 1 {
			return s * sign
		}
	}
}

// PerturbCounts adds independent noise to every count and clamps the
// result at zero. counts is modified in place.
func (g *Geometric) PerturbCounts(counts []uint64) {
	for i, c := range counts {
		counts[i] = addClamped(c, g.Sample())
	}
}

func addClamped(c uint64, delta int64) uint64 {
	if delta >= 0 {
		if c > math.MaxUint64-uint64(delta) {
			return math.MaxUint64
		}
		return c + uint64(delta)
	}
	d := uint64(-(delta + 1)) + 1
	if d >= c {
		return 0
	}
	return c - d
}
