// Package adversary implements the node-behaviour strategies used to
// evaluate the rated-list filter under attack: a shared Strategy
// contract plus four concrete attacks (Sybil, Eclipse, Balancing,
// DefunctSubTree), each of which mutates the peer graph and/or marks a
// subset of its vertices malicious before a sampling round begins.
package adversary

import "github.com/eth-das/rated-list/graph"

// Strategy is the contract every attack implements. SetupAttack runs
// once, before the rated-list tree is built, and may add edges to g (a
// Sybil amplifying its own in-degree) as well as populate the
// malicious set. ShouldRespond(v) reports whether vertex v would
// honestly answer a sample request — true means honest, false means
// malicious and silent.
type Strategy interface {
	SetupAttack(g graph.Graph)
	ShouldRespond(v int) bool
	MaliciousNodes() map[int]struct{}
	NumAttackNodes() int
}
