package similarity

import (
	"github.com/bits-and-blooms/bitset"
)

// scratch is the per-worker state for one source vertex at a time: a seen
// marker, the list of marked candidates and their common-neighbor counts.
// It is sized to the vertex count once and cleared in O(candidates).
type scratch struct {
	seen       *bitset.BitSet
	candidates []uint32
	inter      []uint32
}

func newScratch(n int) *scratch {
	return &scratch{
		seen:       bitset.New(uint(n)),
		candidates: make([]uint32, 0, min(n, 1024)),
		inter:      make([]uint32, n),
	}
}

// visit records one 2-hop path ending at w.
func (s *scratch) visit(w uint32) {
	if !s.seen.Test(uint(w)) {
		s.seen.Set(uint(w))
		s.candidates = append(s.candidates, w)
	}
	s.inter[w]++
}

// reset clears only the entries touched since the last reset.
func (s *scratch) reset() {
	for _, w := range s.candidates {
		s.seen.Clear(uint(w))
		s.inter[w] = 0
	}
	s.candidates = s.candidates[:0]
}
