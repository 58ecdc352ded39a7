// Package graph implements the bidirectional adjacency-list dependency
// graph used to order Rule evaluation within a RuleSet, and its
// destructive topological sort. Grounded on
// original_source/src/graph/mod.rs.
package graph

// Graph is a directed graph over node ids 0..N-1, represented as two
// adjacency lists so both a node's dependencies (incoming edges) and
// its dependents (outgoing edges) are O(1) to look up.
type Graph struct {
	outgoing []map[int]struct{}
	incoming []map[int]struct{}
}

// New constructs a Graph with room for exactly nodeCount nodes.
func New(nodeCount int) *Graph {
	return &Graph{
		outgoing: make([]map[int]struct{}, nodeCount),
		incoming: make([]map[int]struct{}, nodeCount),
	}
}

func (g *Graph) NodeCount() int { return len(g.outgoing) }

// AddEdge records a directional edge: fromNode is a dependency of
// toNode.
func (g *Graph) AddEdge(fromNode, toNode int) {
	if g.outgoing[fromNode] == nil {
		g.outgoing[fromNode] = make(map[int]struct{})
	}
	g.outgoing[fromNode][toNode] = struct{}{}
	if g.incoming[toNode] == nil {
		g.incoming[toNode] = make(map[int]struct{})
	}
	g.incoming[toNode][fromNode] = struct{}{}
}

// RemoveEdge deletes the edge fromNode -> toNode, reporting whether it
// existed in both adjacency lists.
func (g *Graph) RemoveEdge(fromNode, toNode int) bool {
	removedOut := false
	if set := g.outgoing[fromNode]; set != nil {
		if _, ok := set[toNode]; ok {
			delete(set, toNode)
			removedOut = true
		}
	}
	removedIn := false
	if set := g.incoming[toNode]; set != nil {
		if _, ok := set[fromNode]; ok {
			delete(set, fromNode)
			removedIn = true
		}
	}
	return removedOut && removedIn
}

// Sort performs a destructive topological sort: repeatedly picks the
// lowest-id remaining node with no unresolved dependencies, removes its
// outgoing edges, and appends it to the sortable order. Nodes that
// still have dependencies once no more forward progress can be made are
// returned as unsortable — their presence means the graph had a cycle.
//
// A node's incoming-edge set, once created by AddEdge, is never nil'd
// back out by RemoveEdge — it just empties. Testing for "no
// dependencies" must therefore check that the set is empty, not that it
// was never allocated; original_source's sort() tests incoming_edges[id]
// .is_none() instead, which (since remove_edge leaves behind an empty
// Some(HashSet)) would wrongly treat any node that ever had an incoming
// edge as permanently undecidable. Sort corrects that by checking
// emptiness.
func (g *Graph) Sort() (sortable []int, unsortable []int) {
	n := g.NodeCount()
	unsorted := make([]bool, n)
	for i := range unsorted {
		unsorted[i] = true
	}
	remaining := n

	for remaining > 0 {
		progressed := false
		for id := 0; id < n; id++ {
			if !unsorted[id] {
				continue
			}
			if len(g.incoming[id]) != 0 {
				continue
			}
			if deps := g.outgoing[id]; deps != nil {
				for dependent := range deps {
					g.RemoveEdge(id, dependent)
				}
			}
			sortable = append(sortable, id)
			unsorted[id] = false
			remaining--
			progressed = true
			break // preserve ascending-id order among already-sortable nodes
		}
		if !progressed {
			break
		}
	}

	for id := 0; id < n; id++ {
		if unsorted[id] {
			unsortable = append(unsortable, id)
		}
	}
	return sortable, unsortable
}
