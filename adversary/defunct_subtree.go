package adversary

import "github.com/eth-das/rated-list/graph"

// DefunctSubTreeConfig configures a DefunctSubTree attack.
type DefunctSubTreeConfig struct {
	// DefunctRoot is the vertex whose descendant subtree goes offline.
	DefunctRoot int
	// Parent is DefunctRoot's own parent in the tree being modelled; it
	// is excluded from the traversal so the attack only marks the
	// subtree rooted at DefunctRoot, not the path back to the root.
	Parent int
	// MaxDepth bounds the traversal. Zero defaults to 3.
	MaxDepth int
}

// DefunctSubTree marks every descendant of DefunctRoot, up to MaxDepth
// hops and excluding the path back through Parent, malicious —
// modelling an entire branch of the network going offline at once.
// DefunctRoot itself is not a descendant of itself and is left
// unmarked.
//
// The walk is depth-first and expands each vertex only from the path
// on which it is first marked. On a graph with cycles, a vertex first
// reached by a longer path is not expanded again from a shorter one,
// so some vertices within MaxDepth hops of DefunctRoot may stay
// unmarked; on a tree every descendant within MaxDepth hops is marked.
type DefunctSubTree struct {
	cfg            DefunctSubTreeConfig
	maliciousNodes map[int]struct{}
}

// NewDefunctSubTree constructs a DefunctSubTree attack with the given config.
func NewDefunctSubTree(cfg DefunctSubTreeConfig) *DefunctSubTree {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 3
	}
	return &DefunctSubTree{cfg: cfg, maliciousNodes: make(map[int]struct{})}
}

// SetupAttack implements Strategy.
func (d *DefunctSubTree) SetupAttack(g graph.Graph) {
	d.walk(g, d.cfg.Parent, d.cfg.DefunctRoot, 1)
}

func (d *DefunctSubTree) walk(g graph.Graph, parent, node, depth int) {
	if depth > d.cfg.MaxDepth {
		return
	}
	for _, peer := range g.Neighbors(node) {
		if peer == parent || peer == d.cfg.Parent || peer == d.cfg.DefunctRoot {
			continue
		}
		if _, already := d.maliciousNodes[peer]; already {
			continue
		}
		d.maliciousNodes[peer] = struct{}{}
		d.walk(g, node, peer, depth+1)
	}
}

// ShouldRespond implements Strategy.
func (d *DefunctSubTree) ShouldRespond(v int) bool {
	_, malicious := d.maliciousNodes[v]
	return !malicious
}

// MaliciousNodes implements Strategy.
func (d *DefunctSubTree) MaliciousNodes() map[int]struct{} {
	return d.maliciousNodes
}

// NumAttackNodes implements Strategy.
func (d *DefunctSubTree) NumAttackNodes() int {
	return len(d.maliciousNodes)
}
