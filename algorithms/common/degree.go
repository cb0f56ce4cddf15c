package common

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Degrees holds the two per-vertex degree arrays used by the engine.
type Degrees struct {
	// Total counts every incident edge; a self-loop adds 2.
	Total []uint32

	// Effective counts incident edges whose other endpoint has a total
	// degree <= HubCap. Equal to Total when HubFiltered is false.
	Effective []uint32

	HubCap      uint32
	HubFiltered bool
}

// TotalDegrees counts both endpoints of every edge. Parallel edges count
// separately, there is no implicit deduplication.
func TotalDegrees(g *GraphData) []uint32 {
	d := make([]uint32, g.NumVertices)
	for _, e := range g.Edges {
		d[e.U]++
		d[e.V]++
	}
	return d
}

// ComputeDegrees returns total and effective degrees. With filter false
// the hub cap is ignored and both arrays share the same backing slice.
func ComputeDegrees(g *GraphData, hubCap uint32, filter bool) *Degrees {
	total := TotalDegrees(g)
	if !filter {
		return &Degrees{Total: total, Effective: total}
	}

	effective := make([]uint32, g.NumVertices)
	for _, e := range g.Edges {
		if total[e.V] <= hubCap {
			effective[e.U]++
		}
		if total[e.U] <= hubCap {
			effective[e.V]++
		}
	}
	return &Degrees{
		Total:       total,
		Effective:   effective,
		HubCap:      hubCap,
		HubFiltered: true,
	}
}

// IsHub reports whether v is excluded as a 2-hop intermediate.
func (d *Degrees) IsHub(v uint32) bool {
	return d.HubFiltered && d.Total[v] > d.HubCap
}

// Permute returns a copy of the degree arrays indexed by ranked id.
func (d *Degrees) Permute(p *Permutation) *Degrees {
	out := &Degrees{HubCap: d.HubCap, HubFiltered: d.HubFiltered}
	out.Total = permuteValues(d.Total, p)
	if d.HubFiltered {
		out.Effective = permuteValues(d.Effective, p)
	} else {
		out.Effective = out.Total
	}
	return out
}

func permuteValues(values []uint32, p *Permutation) []uint32 {
	out := make([]uint32, len(values))
	for orig, v := range values {
		out[p.Rank[orig]] = v
	}
	return out
}

// Permutation is a bijective relabeling of [0, n).
// Rank maps original ids to ranked ids and Map is its inverse.
type Permutation struct {
	Rank []uint32
	Map  []uint32
}

// RankByDegree orders vertices by ascending score. Ties keep ascending
// original id order, so the permutation is deterministic.
func RankByDegree(score []uint32) *Permutation {
	n := len(score)
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	slices.SortStableFunc(order, func(a, b uint32) int {
		return cmp.Compare(score[a], score[b])
	})

	rank := make([]uint32, n)
	for pos, orig := range order {
		rank[orig] = uint32(pos)
	}
	return &Permutation{Rank: rank, Map: order}
}

// Len returns the number of vertices covered by the permutation.
func (p *Permutation) Len() int {
	return len(p.Rank)
}

// Relabel returns a new edge slice with both endpoints mapped to ranked ids.
func (p *Permutation) Relabel(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{U: p.Rank[e.U], V: p.Rank[e.V]}
	}
	return out
}

// Validate checks that Rank and Map are mutually inverse bijections.
func (p *Permutation) Validate() error {
	if len(p.Rank) != len(p.Map) {
		return fmt.Errorf("rank has %d entries, map has %d", len(p.Rank), len(p.Map))
	}
	n := uint32(len(p.Rank))
	for orig, r := range p.Rank {
		if r >= n {
			return fmt.Errorf("rank[%d] = %d out of range", orig, r)
		}
		if p.Map[r] != uint32(orig) {
			return fmt.Errorf("map[rank[%d]] = %d", orig, p.Map[r])
		}
	}
	return nil
}

// DegreeSummary describes a degree distribution for logging and reports.
type DegreeSummary struct {
	Max    uint32  `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// SummarizeDegrees returns the maximum, mean and standard deviation of degree.
func SummarizeDegrees(degree []uint32) DegreeSummary {
	if len(degree) == 0 {
		return DegreeSummary{}
	}
	x := make([]float64, len(degree))
	for i, d := range degree {
		x[i] = float64(d)
	}
	var summary DegreeSummary
	summary.Max = uint32(floats.Max(x))
	if len(x) > 1 {
		summary.Mean, summary.StdDev = stat.MeanStdDev(x, nil)
	} else {
		summary.Mean = x[0]
	}
	return summary
}
