package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopologicalSortNoCycles(t *testing.T) {
	g := New(7)
	g.AddEdge(2, 6)
	g.AddEdge(2, 5)
	g.AddEdge(1, 3)
	g.AddEdge(3, 4)

	sortable, unsortable := g.Sort()
	assert.Empty(t, unsortable)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, sortable)
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)

	sortable, unsortable := g.Sort()
	assert.Empty(t, sortable)
	assert.ElementsMatch(t, []int{0, 1, 2}, unsortable)
}

func TestTopologicalSortNodeWithResolvedIncomingEdges(t *testing.T) {
	// 1 depends on 0; once 0 is sortable, removing that edge must
	// actually make 1's incoming set empty, not leave it permanently
	// unsortable.
	g := New(2)
	g.AddEdge(0, 1)
	sortable, unsortable := g.Sort()
	assert.Equal(t, []int{0, 1}, sortable)
	assert.Empty(t, unsortable)
}
