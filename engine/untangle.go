package engine

import "github.com/wudi/shy/graph"

// Untangle orders items topologically by the variable References each
// one carries, so that no item depending on an internally-defined name
// runs before every item that might define it. Grounded on
// original_source/src/parser/expression.rs's dependency_graph/untangle:
// every item becomes a node 0..len(items)-1, every distinct variable
// name becomes a node beyond that, a definition is an outgoing edge
// from the item to the variable, and a (non-external) dependency is an
// incoming edge from the variable to the item. graph.Sort then does
// the actual topological ordering.
//
// refsOf should be called against References that have already had
// InferExternalDependencies/ApplyExternalDependencies applied across
// the full set of items, so names the host context is expected to
// supply don't wrongly tie items together.
//
// untangled holds every item that could be placed in a valid order;
// tangled holds the items left over because the graph had a cycle. A
// non-empty tangled return means untangled is not a complete,
// meaningful ordering — the caller should treat that as an error
// rather than execute items in partial order.
func Untangle[T any](items []T, refsOf func(T) *References) (untangled []T, tangled []T) {
	n := len(items)
	refs := make([]*References, n)
	variableID := make(map[string]int)
	nextID := n
	for i, item := range items {
		r := refsOf(item)
		refs[i] = r
		for _, name := range r.Definitions {
			if _, ok := variableID[name]; !ok {
				variableID[name] = nextID
				nextID++
			}
		}
		for _, name := range r.Dependencies {
			if _, ok := variableID[name]; !ok {
				variableID[name] = nextID
				nextID++
			}
		}
	}

	g := graph.New(nextID)
	for itemID, r := range refs {
		for _, name := range r.Definitions {
			g.AddEdge(itemID, variableID[name])
		}
		for _, name := range r.Dependencies {
			g.AddEdge(variableID[name], itemID)
		}
	}

	sorted, unsorted := g.Sort()
	for _, id := range sorted {
		if id < n {
			untangled = append(untangled, items[id])
		}
	}
	for _, id := range unsorted {
		if id < n {
			tangled = append(tangled, items[id])
		}
	}
	return untangled, tangled
}
