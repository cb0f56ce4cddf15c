package main

import (
	"math/rand/v2"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// randomGraph draws nodes*avgDegree/2 edges with uniform endpoints.
// Self-loops are redrawn; parallel edges are kept like in real edge lists.
func randomGraph(seed uint64, nodes int, avgDegree float64) *common.GraphData {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	m := int(float64(nodes) * avgDegree / 2)
	if nodes < 2 {
		m = 0
	}

	edges := make([]common.Edge, 0, m)
	for len(edges) < m {
		u := uint32(rng.IntN(nodes))
		v := uint32(rng.IntN(nodes))
		if u == v {
			continue
		}
		edges = append(edges, common.Edge{U: u, V: v})
	}
	return &common.GraphData{NumVertices: nodes, NumEdges: len(edges), Edges: edges}
}
