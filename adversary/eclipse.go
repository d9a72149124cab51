package adversary

import "github.com/eth-das/rated-list/graph"

// EclipseConfig configures an Eclipse attack.
type EclipseConfig struct {
	// Target is the vertex whose entire neighbourhood is marked malicious.
	Target int
	// Rate sizes a notional attack budget. It is accepted for parity
	// with the original constructor signature but does not currently
	// constrain SetupAttack or ShouldRespond.
	Rate float64
}

// Eclipse marks every neighbour of a target vertex malicious, modelling
// an attacker that has surrounded the target with nodes under its
// control.
type Eclipse struct {
	cfg            EclipseConfig
	maliciousNodes map[int]struct{}
}

// NewEclipse constructs an Eclipse attack with the given config.
func NewEclipse(cfg EclipseConfig) *Eclipse {
	return &Eclipse{cfg: cfg, maliciousNodes: make(map[int]struct{})}
}

// SetupAttack implements Strategy.
func (e *Eclipse) SetupAttack(g graph.Graph) {
	for _, neighbor := range g.Neighbors(e.cfg.Target) {
		e.maliciousNodes[neighbor] = struct{}{}
	}
}

// ShouldRespond implements Strategy.
func (e *Eclipse) ShouldRespond(v int) bool {
	_, malicious := e.maliciousNodes[v]
	return !malicious
}

// MaliciousNodes implements Strategy.
func (e *Eclipse) MaliciousNodes() map[int]struct{} {
	return e.maliciousNodes
}

// NumAttackNodes implements Strategy.
func (e *Eclipse) NumAttackNodes() int {
	return len(e.maliciousNodes)
}
