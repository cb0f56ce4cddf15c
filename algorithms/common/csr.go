package common

import (
	"fmt"
	"slices"
)

// SortOrder is the order of ids within each adjacency slice of a CSR.
type SortOrder int

const (
	// Ascending order is consumed by the ratio-pruned scan.
	Ascending SortOrder = iota
	// Descending order is consumed by the hub-filtered scan, which stops at u.
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}

// CSR is a compressed-sparse-row adjacency structure.
//
// Neighbors[Offsets[v]:Offsets[v+1]] holds the neighbors of v, sorted in
// Order. Offsets has NumVertices()+1 entries and Offsets[0] == 0.
type CSR struct {
	Offsets   []uint64
	Neighbors []uint32
	Order     SortOrder
}

// BuildCSR lays out an undirected edge list as CSR. degree[v] must equal
// the number of edge endpoints at v (see TotalDegrees); each edge (s, t)
// is stored as t in s's slice and s in t's slice. For n == 0 or no edges
// the arrays are empty but non-nil.
func BuildCSR(n int, edges []Edge, degree []uint32, order SortOrder) (*CSR, error) {
	if len(degree) != n {
		return nil, fmt.Errorf("degree array has %d entries, want %d", len(degree), n)
	}
	if order != Ascending && order != Descending {
		return nil, fmt.Errorf("unknown sort order %v", order)
	}

	offsets := make([]uint64, n+1)
	for v := 0; v < n; v++ {
		offsets[v+1] = offsets[v] + uint64(degree[v])
	}
	if want := 2 * uint64(len(edges)); offsets[n] != want {
		return nil, fmt.Errorf("degree sum %d does not match %d edge endpoints", offsets[n], want)
	}

	neighbors := make([]uint32, offsets[n])
	cursor := make([]uint64, n)
	copy(cursor, offsets[:n])

	place := func(s, t uint32) error {
		if cursor[s] >= offsets[s+1] {
			return fmt.Errorf("vertex %d has more neighbors than its degree %d", s, degree[s])
		}
		neighbors[cursor[s]] = t
		cursor[s]++
		return nil
	}
	for _, e := range edges {
		if uint64(e.U) >= uint64(n) || uint64(e.V) >= uint64(n) {
			return nil, fmt.Errorf("edge (%d, %d) out of range for %d vertices", e.U, e.V, n)
		}
		if err := place(e.U, e.V); err != nil {
			return nil, err
		}
		if err := place(e.V, e.U); err != nil {
			return nil, err
		}
	}

	csr := &CSR{Offsets: offsets, Neighbors: neighbors, Order: order}
	for v := 0; v < n; v++ {
		adj := csr.Neighbors[offsets[v]:offsets[v+1]]
		slices.Sort(adj)
		if order == Descending {
			slices.Reverse(adj)
		}
	}
	return csr, nil
}

// NumVertices returns the number of vertices.
func (c *CSR) NumVertices() int {
	return len(c.Offsets) - 1
}

// NumEntries returns the total number of adjacency entries (2 * edges).
func (c *CSR) NumEntries() int {
	return len(c.Neighbors)
}

// Adjacent returns the adjacency slice of v, [Offsets[v], Offsets[v+1]).
// The slice has its capacity clipped so callers cannot grow into v+1.
func (c *CSR) Adjacent(v uint32) []uint32 {
	lo, hi := c.Offsets[v], c.Offsets[v+1]
	return c.Neighbors[lo:hi:hi]
}

// Degree returns the length of v's adjacency slice.
func (c *CSR) Degree(v uint32) uint32 {
	return uint32(c.Offsets[v+1] - c.Offsets[v])
}

// MaxDegree returns the largest adjacency slice length.
func (c *CSR) MaxDegree() uint32 {
	var m uint32
	for v := 0; v < c.NumVertices(); v++ {
		m = max(m, c.Degree(uint32(v)))
	}
	return m
}
