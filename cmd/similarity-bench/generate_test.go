package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGraph(t *testing.T) {
	g := randomGraph(7, 1000, 10)
	require.NoError(t, g.Validate())
	assert.Equal(t, 1000, g.NumVertices)
	assert.Equal(t, 5000, g.NumEdges)
	for _, e := range g.Edges {
		assert.NotEqual(t, e.U, e.V)
	}

	assert.Equal(t, g.Edges, randomGraph(7, 1000, 10).Edges, "same seed, same graph")
	assert.NotEqual(t, g.Edges, randomGraph(8, 1000, 10).Edges)
}

func TestRandomGraph_Tiny(t *testing.T) {
	assert.Zero(t, randomGraph(1, 1, 50).NumEdges)
	assert.Zero(t, randomGraph(1, 0, 50).NumEdges)
}
