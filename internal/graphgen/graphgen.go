// Package graphgen generates synthetic peer graphs for driving the
// simulation from the command line or from tests. It is a
// test/CLI-only collaborator: no core package imports it.
package graphgen

import (
	"math/rand"

	"github.com/eth-das/rated-list/graph"
)

// ErdosRenyi builds an undirected Erdos-Renyi random graph G(n, p):
// n vertices, each unordered pair of distinct vertices connected
// independently with probability p.
func ErdosRenyi(n int, p float64, seed int64) graph.Graph {
	g := graph.NewAdjList()
	rng := rand.New(rand.NewSource(seed))

	for v := 0; v < n; v++ {
		g.AddVertex(v)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

// FixedBranching builds an acyclic fan-out tree rooted at vertex 0,
// three levels deep below the root, where every node at levels 0, 1
// and 2 has exactly degree children. This mirrors the fixed-shape acyclic graphs used to
// exercise the DefunctSubTree and Balancing attacks deterministically.
func FixedBranching(degree int) graph.Graph {
	g := graph.NewAdjList()
	g.AddVertex(0)

	next := 1
	level := []int{0}
	for depth := 0; depth < 3; depth++ {
		var nextLevel []int
		for _, parent := range level {
			for i := 0; i < degree; i++ {
				child := next
				next++
				g.AddEdge(parent, child)
				nextLevel = append(nextLevel, child)
			}
		}
		level = nextLevel
	}
	return g
}
