// Package tree builds a rated-list store's DAG from a peer-discovery
// oracle via a bounded-depth breadth-first walk, registering each newly
// discovered peer's custody samples as it is encountered.
package tree

import (
	"context"

	"github.com/eth-das/rated-list/custody"
	"github.com/eth-das/rated-list/ratedlist"
)

// PeerOracle answers "who are nodeID's peers" queries, the external
// collaborator that stands in for a real get_peers network round-trip.
type PeerOracle interface {
	GetPeers(ctx context.Context, nodeID custody.NodeID) ([]custody.NodeID, error)
}

type queueItem struct {
	nodeID custody.NodeID
	depth  int
}

// BuildTree runs the bounded-depth BFS that populates store's DAG: for
// every node fewer than cfg.MaxTreeDepth hops from store.OwnID, it queries
// oracle for that node's peers, registers custody samples for any peer
// seen for the first time, and folds the response into the store via
// OnGetPeersResponse. Peers discovered at the final depth are linked
// but never themselves queried.
func BuildTree(ctx context.Context, store *ratedlist.Store, oracle PeerOracle, h custody.Hasher, k int, cfg custody.Config) error {
	visited := map[custody.NodeID]struct{}{store.OwnID: {}}
	queue := []queueItem{{nodeID: store.OwnID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= cfg.MaxTreeDepth {
			continue
		}

		peers, err := oracle.GetPeers(ctx, cur.nodeID)
		if err != nil {
			return err
		}

		for _, peer := range peers {
			if _, ok := visited[peer]; ok {
				continue
			}
			visited[peer] = struct{}{}
			if err := store.AddSamplesOnEntry(h, peer, k); err != nil {
				return err
			}
		}

		if err := store.OnGetPeersResponse(cur.nodeID, peers); err != nil {
			return err
		}

		if cur.depth+1 >= cfg.MaxTreeDepth {
			continue
		}
		for child := range store.Nodes[cur.nodeID].Children {
			queue = append(queue, queueItem{nodeID: child, depth: cur.depth + 1})
		}
	}

	return nil
}
