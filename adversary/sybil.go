package adversary

import (
	"math/rand"

	"github.com/eth-das/rated-list/graph"
)

// SybilConfig configures a Sybil attack.
type SybilConfig struct {
	// Rate is the fraction of the graph's vertices to mark malicious.
	Rate float64
	// Rand supplies randomness for vertex selection and edge
	// amplification. Defaults to rand.New(rand.NewSource(1)) if nil,
	// so callers who don't care about reproducibility don't need to
	// construct one.
	Rand *rand.Rand
}

// DefaultSybilConfig returns a SybilConfig with a 0 rate; callers must
// set Rate explicitly.
func DefaultSybilConfig() SybilConfig {
	return SybilConfig{Rate: 0}
}

// Sybil selects a random fraction of the graph's vertices as malicious
// and, for each, amplifies its in-degree by wiring 1-5 fresh edges to
// random vertices — increasing the odds it gets selected by the
// filter's candidate set.
type Sybil struct {
	cfg            SybilConfig
	rng            *rand.Rand
	maliciousNodes map[int]struct{}
}

// NewSybil constructs a Sybil attack with the given config.
func NewSybil(cfg SybilConfig) *Sybil {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Sybil{cfg: cfg, rng: rng, maliciousNodes: make(map[int]struct{})}
}

// SetupAttack implements Strategy.
func (s *Sybil) SetupAttack(g graph.Graph) {
	vertices := g.Vertices()
	numAttack := int(float64(len(vertices)) * s.cfg.Rate)
	if numAttack > len(vertices) {
		numAttack = len(vertices)
	}

	order := s.rng.Perm(len(vertices))
	for i := 0; i < numAttack; i++ {
		s.maliciousNodes[vertices[order[i]]] = struct{}{}
	}

	for sybil := range s.maliciousNodes {
		extra := 1 + s.rng.Intn(5)
		for i := 0; i < extra; i++ {
			neighbor := vertices[s.rng.Intn(len(vertices))]
			if neighbor != sybil && !g.HasEdge(sybil, neighbor) {
				g.AddEdge(sybil, neighbor)
			}
		}
	}
}

// ShouldRespond implements Strategy.
func (s *Sybil) ShouldRespond(v int) bool {
	_, malicious := s.maliciousNodes[v]
	return !malicious
}

// MaliciousNodes implements Strategy.
func (s *Sybil) MaliciousNodes() map[int]struct{} {
	return s.maliciousNodes
}

// NumAttackNodes implements Strategy.
func (s *Sybil) NumAttackNodes() int {
	return len(s.maliciousNodes)
}
