// Package ratedlist implements the rated-list peer-reputation data
// structure: a bounded-depth DAG of known peers rooted at the local
// node, a per-root tally of which descendants were contacted and which
// replied, and the two-stage scoring and candidate-filtering logic that
// turns those tallies into a ranked set of peers to query for a given
// sample.
package ratedlist

import (
	"github.com/eth-das/rated-list/custody"
)

// NodeRecord tracks a single known peer's position in the rated-list
// DAG: which peers introduced it (parents) and which peers it has in
// turn introduced (children). Both sets are maintained by
// Store.OnGetPeersResponse as peers churn.
type NodeRecord struct {
	NodeID   custody.NodeID
	Children map[custody.NodeID]struct{}
	Parents  map[custody.NodeID]struct{}
}

func newNodeRecord(id custody.NodeID) *NodeRecord {
	return &NodeRecord{
		NodeID:   id,
		Children: make(map[custody.NodeID]struct{}),
		Parents:  make(map[custody.NodeID]struct{}),
	}
}

// contactKey identifies one outstanding or completed sample request to a
// specific descendant, used as the element type of ScoreKeeper's sets.
type contactKey struct {
	node   custody.NodeID
	sample custody.SampleID
}

// ScoreKeeper tallies, per ancestor node, which (descendant, sample)
// request pairs were sent through it and which of those were answered.
// A separate ScoreKeeper exists per sampling root, since custody
// requests for one block root are independent of another's.
type ScoreKeeper struct {
	DescendantsContacted map[custody.NodeID]map[contactKey]struct{}
	DescendantsReplied   map[custody.NodeID]map[contactKey]struct{}
}

func newScoreKeeper() *ScoreKeeper {
	return &ScoreKeeper{
		DescendantsContacted: make(map[custody.NodeID]map[contactKey]struct{}),
		DescendantsReplied:   make(map[custody.NodeID]map[contactKey]struct{}),
	}
}

// Store is the rated-list DHT: the local node's view of the peer DAG,
// the sample-to-custodian index, and the per-root score tallies. A
// Store is single-threaded — callers owning concurrent access must
// serialize their own calls.
type Store struct {
	OwnID         custody.NodeID
	SampleMapping map[custody.SampleID]map[custody.NodeID]struct{}
	Nodes         map[custody.NodeID]*NodeRecord
	Scores        map[custody.Root]*ScoreKeeper

	cfg custody.Config
}

// New creates a Store rooted at ownID, seeded with a single NodeRecord
// for the local node itself.
func New(ownID custody.NodeID, cfg custody.Config) *Store {
	s := &Store{
		OwnID:         ownID,
		SampleMapping: make(map[custody.SampleID]map[custody.NodeID]struct{}),
		Nodes:         make(map[custody.NodeID]*NodeRecord),
		Scores:        make(map[custody.Root]*ScoreKeeper),
		cfg:           cfg,
	}
	s.Nodes[ownID] = newNodeRecord(ownID)
	return s
}
