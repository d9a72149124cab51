package ratedlist

import (
	"fmt"

	"github.com/eth-das/rated-list/custody"
)

// DescendantScore returns the fraction of samples requested through
// nodeID's descendants (for block root) that were actually answered.
// Absent prior activity is treated optimistically: a root with no
// ScoreKeeper yet, or a node with no contacted descendants recorded
// under it, both score 1.0. A node with contacted-but-zero-replied
// descendants scores 0.
func (s *Store) DescendantScore(root custody.Root, nodeID custody.NodeID) float64 {
	keeper, ok := s.Scores[root]
	if !ok {
		return 1.0
	}

	contacted, ok := keeper.DescendantsContacted[nodeID]
	if !ok {
		return 1.0
	}
	if len(contacted) == 0 {
		return 1.0
	}

	replied := keeper.DescendantsReplied[nodeID]
	return float64(len(replied)) / float64(len(contacted))
}

// NodeScore computes the best-over-paths score for nodeID: the local
// node's own descendant-request history gives no direct signal about a
// grandparent's reliability, so the score is carried upward one hop at
// a time, through every path from nodeID to the local node, and the
// best value seen where a path reaches the local node directly wins.
//
// At each step the frontier holds, for every node on some live path,
// the descendant score as seen from the child one hop below it. When a
// frontier node's parent is the local node, that frontier node's own
// score (not the parent's) is folded into best — the parent is who
// would receive the request, but the frontier node is whose reply
// history to its own descendants is actually being judged. When the
// parent is not the local node, the parent's own descendant score
// becomes that parent's frontier entry for the next hop up, not a
// running minimum of everything below it.
func (s *Store) NodeScore(root custody.Root, nodeID custody.NodeID) float64 {
	if nodeID == s.OwnID {
		return 1.0
	}

	frontier := map[custody.NodeID]float64{nodeID: s.DescendantScore(root, nodeID)}
	touched := make(map[custody.NodeID]struct{})

	best := 0.0

	for len(frontier) > 0 {
		next := make(map[custody.NodeID]float64)

		for node, score := range frontier {
			touched[node] = struct{}{}

			record, ok := s.Nodes[node]
			if !ok {
				continue
			}
			for parent := range record.Parents {
				if parent == s.OwnID {
					if score > best {
						best = score
					}
					continue
				}
				if _, seen := touched[parent]; seen {
					continue
				}
				parentScore := s.DescendantScore(root, parent)
				if existing, ok := next[parent]; !ok || existing < parentScore {
					next[parent] = parentScore
				}
			}
		}

		frontier = next
	}

	return best
}

// OnRequestScoreUpdate records that nodeID was asked for sampleID under
// root: every ancestor of nodeID (transitively, through every parent
// path) has (nodeID, sampleID) added to its DescendantsContacted set.
// It returns an *InvariantError wrapping ErrUnknownNode if nodeID has no
// NodeRecord in the store.
func (s *Store) OnRequestScoreUpdate(root custody.Root, nodeID custody.NodeID, sampleID custody.SampleID) error {
	record, ok := s.Nodes[nodeID]
	if !ok {
		return &InvariantError{Err: fmt.Errorf("%w: %x", ErrUnknownNode, nodeID)}
	}

	keeper, ok := s.Scores[root]
	if !ok {
		keeper = newScoreKeeper()
		s.Scores[root] = keeper
	}

	key := contactKey{node: nodeID, sample: sampleID}
	s.walkAncestors(record, func(ancestor custody.NodeID) {
		if keeper.DescendantsContacted[ancestor] == nil {
			keeper.DescendantsContacted[ancestor] = make(map[contactKey]struct{})
		}
		keeper.DescendantsContacted[ancestor][key] = struct{}{}
	})
	return nil
}

// OnResponseScoreUpdate records that nodeID answered sampleID under
// root: every ancestor of nodeID has (nodeID, sampleID) added to its
// DescendantsReplied set. It returns an *InvariantError wrapping
// ErrUnknownNode if nodeID has no NodeRecord, or wrapping
// ErrReplyWithoutContact if root has no ScoreKeeper yet — a reply can
// only follow a prior OnRequestScoreUpdate under the same root.
func (s *Store) OnResponseScoreUpdate(root custody.Root, nodeID custody.NodeID, sampleID custody.SampleID) error {
	record, ok := s.Nodes[nodeID]
	if !ok {
		return &InvariantError{Err: fmt.Errorf("%w: %x", ErrUnknownNode, nodeID)}
	}

	keeper, ok := s.Scores[root]
	if !ok {
		return &InvariantError{Err: fmt.Errorf("%w: root %x, node %x", ErrReplyWithoutContact, root, nodeID)}
	}

	key := contactKey{node: nodeID, sample: sampleID}
	s.walkAncestors(record, func(ancestor custody.NodeID) {
		if keeper.DescendantsReplied[ancestor] == nil {
			keeper.DescendantsReplied[ancestor] = make(map[contactKey]struct{})
		}
		keeper.DescendantsReplied[ancestor][key] = struct{}{}
	})
	return nil
}

// walkAncestors visits every ancestor of record exactly once, in
// breadth-first order away from record, across all parent paths.
func (s *Store) walkAncestors(record *NodeRecord, visit func(custody.NodeID)) {
	touched := make(map[custody.NodeID]struct{})
	current := make(map[custody.NodeID]struct{}, len(record.Parents))
	for parent := range record.Parents {
		current[parent] = struct{}{}
	}

	for len(current) > 0 {
		next := make(map[custody.NodeID]struct{})
		for ancestor := range current {
			if _, seen := touched[ancestor]; seen {
				continue
			}
			touched[ancestor] = struct{}{}
			visit(ancestor)

			if ancestorRecord, ok := s.Nodes[ancestor]; ok {
				for grandparent := range ancestorRecord.Parents {
					next[grandparent] = struct{}{}
				}
			}
		}
		current = next
	}
}

// FilterNodes returns the subset of sampleID's known custodians that
// pass a reliability threshold, for requesting root. It runs in two
// passes: the first uses a fixed threshold of 0.9, evicting any node
// under it along with that node's direct children (without recursing
// into grandchildren — a low-scoring node's children are suspect, but a
// low-scoring node's children's children are judged independently).
// If the first pass empties out, the second pass relaxes the threshold
// to the mean score minus 0.1, guaranteeing at least one candidate
// survives. Scores are memoized across both passes.
func (s *Store) FilterNodes(root custody.Root, sampleID custody.SampleID) map[custody.NodeID]struct{} {
	const initialThreshold = 0.9

	custodians := s.SampleMapping[sampleID]
	scores := make(map[custody.NodeID]float64, len(custodians))
	threshold := initialThreshold
	filtered := make(map[custody.NodeID]struct{})

	for pass := 0; pass < 2; pass++ {
		evicted := make(map[custody.NodeID]struct{})

		for nodeID := range custodians {
			score, ok := scores[nodeID]
			if !ok {
				score = s.NodeScore(root, nodeID)
				scores[nodeID] = score
			}

			if _, isEvicted := evicted[nodeID]; score >= threshold && !isEvicted {
				filtered[nodeID] = struct{}{}
				continue
			}

			evicted[nodeID] = struct{}{}
			if record, ok := s.Nodes[nodeID]; ok {
				for child := range record.Children {
					evicted[child] = struct{}{}
				}
			}
		}

		if len(filtered) > 0 {
			break
		}

		sum := 0.0
		for _, score := range scores {
			sum += score
		}
		if len(scores) > 0 {
			threshold = sum/float64(len(scores)) - 0.1
		}
	}

	return filtered
}
