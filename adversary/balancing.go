package adversary

import (
	"math"
	"math/rand"

	"github.com/eth-das/rated-list/graph"
)

// poisonFraction is the share of each visited node's neighbours a
// Balancing attack marks malicious at every hop, rounded up so that a
// visited node with any neighbours poisons at least one.
const poisonFraction = 0.3

// BalancingConfig configures a Balancing attack.
type BalancingConfig struct {
	// RootNode is the vertex whose subtrees are being compared; one of
	// its neighbours is picked at random as the subtree to poison.
	RootNode int
	// MaxDepth bounds how far the poisoning traversal descends from the
	// chosen subtree head. Zero defaults to 3.
	MaxDepth int
	Rand     *rand.Rand
}

// Balancing picks one neighbour of RootNode as an "honest subtree
// head" and, walking outward from it up to MaxDepth hops, marks a
// fixed fraction of every visited node's neighbours malicious. This
// biases the scorer against that subtree without touching it directly,
// making sibling subtrees look relatively more trustworthy by
// comparison.
type Balancing struct {
	cfg            BalancingConfig
	rng            *rand.Rand
	maliciousNodes map[int]struct{}
}

// NewBalancing constructs a Balancing attack with the given config.
func NewBalancing(cfg BalancingConfig) *Balancing {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 3
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Balancing{cfg: cfg, rng: rng, maliciousNodes: make(map[int]struct{})}
}

type balancingQueueItem struct {
	vertex int
	depth  int
}

// SetupAttack implements Strategy.
func (b *Balancing) SetupAttack(g graph.Graph) {
	rootNeighbors := g.Neighbors(b.cfg.RootNode)
	if len(rootNeighbors) == 0 {
		return
	}
	head := rootNeighbors[b.rng.Intn(len(rootNeighbors))]

	visited := make(map[int]struct{})
	queue := []balancingQueueItem{{vertex: head, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, ok := visited[cur.vertex]; ok {
			continue
		}
		visited[cur.vertex] = struct{}{}

		if cur.depth >= b.cfg.MaxDepth {
			continue
		}

		neighbors := g.Neighbors(cur.vertex)
		poisonCount := int(math.Ceil(float64(len(neighbors)) * poisonFraction))
		order := b.rng.Perm(len(neighbors))
		for i := 0; i < poisonCount; i++ {
			b.maliciousNodes[neighbors[order[i]]] = struct{}{}
		}

		for _, n := range neighbors {
			queue = append(queue, balancingQueueItem{vertex: n, depth: cur.depth + 1})
		}
	}
}

// ShouldRespond implements Strategy.
func (b *Balancing) ShouldRespond(v int) bool {
	_, malicious := b.maliciousNodes[v]
	return !malicious
}

// MaliciousNodes implements Strategy.
func (b *Balancing) MaliciousNodes() map[int]struct{} {
	return b.maliciousNodes
}

// NumAttackNodes implements Strategy.
func (b *Balancing) NumAttackNodes() int {
	return len(b.maliciousNodes)
}
