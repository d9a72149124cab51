package ratedlist

import "github.com/eth-das/rated-list/custody"

// OnGetPeersResponse folds a get_peers response for nodeID into the DAG:
// every peer not already known gets a fresh NodeRecord, every peer not
// already a parent of nodeID becomes a child of nodeID (and nodeID
// becomes its parent), and any previously-known child of nodeID that is
// absent from the new response is unlinked — dropped from the graph
// entirely once it has no parents left. A peer equal to nodeID itself is
// ignored outright, and a peer already known as one of nodeID's own
// parents skips the child-link addition; neither case is an error.
//
// It returns ErrTooManyChildren if accepting peers would push nodeID
// over the configured MaxChildren, or ErrTooManyParents if any peer in
// peers would be pushed over MaxParents.
func (s *Store) OnGetPeersResponse(nodeID custody.NodeID, peers []custody.NodeID) error {
	parent, ok := s.Nodes[nodeID]
	if !ok {
		parent = newNodeRecord(nodeID)
		s.Nodes[nodeID] = parent
	}

	// present tracks every peer the response still vouches for (except a
	// self-reference, which is ignored outright), so the eviction pass
	// below does not unlink a child just because it is also already one
	// of nodeID's own parents.
	present := make(map[custody.NodeID]struct{}, len(peers))
	childCount := 0
	for _, peerID := range peers {
		if peerID == nodeID {
			continue
		}
		if _, dup := present[peerID]; dup {
			continue
		}
		present[peerID] = struct{}{}
		if _, isParent := parent.Parents[peerID]; isParent {
			continue
		}
		childCount++
	}
	if childCount > s.cfg.MaxChildren {
		return custody.ErrTooManyChildren
	}

	for peerID := range present {
		// Parent edges take precedence: a peer already known as nodeID's
		// parent is never also linked as its child.
		if _, isParent := parent.Parents[peerID]; isParent {
			continue
		}

		child, ok := s.Nodes[peerID]
		if !ok {
			child = newNodeRecord(peerID)
			s.Nodes[peerID] = child
		}

		if _, alreadyChild := parent.Children[peerID]; alreadyChild {
			continue
		}
		if len(child.Parents) >= s.cfg.MaxParents {
			return custody.ErrTooManyParents
		}

		child.Parents[nodeID] = struct{}{}
		parent.Children[peerID] = struct{}{}
	}

	for childID := range parent.Children {
		if _, ok := present[childID]; ok {
			continue
		}
		delete(parent.Children, childID)
		if child, ok := s.Nodes[childID]; ok {
			delete(child.Parents, nodeID)
			if len(child.Parents) == 0 {
				delete(s.Nodes, childID)
			}
		}
	}

	return nil
}

// AddSamplesOnEntry registers nodeID as a custodian of every sample id
// it derives under k, per custody.GetCustodyColumns.
func (s *Store) AddSamplesOnEntry(h custody.Hasher, nodeID custody.NodeID, k int) error {
	sampleIDs, err := custody.GetCustodyColumns(h, nodeID, k, s.cfg)
	if err != nil {
		return err
	}
	for _, id := range sampleIDs {
		if s.SampleMapping[id] == nil {
			s.SampleMapping[id] = make(map[custody.NodeID]struct{})
		}
		s.SampleMapping[id][nodeID] = struct{}{}
	}
	return nil
}

// RemoveSamplesOnExit unregisters nodeID from every sample id it derives
// under k. Samples nodeID was never registered against are skipped
// without error.
func (s *Store) RemoveSamplesOnExit(h custody.Hasher, nodeID custody.NodeID, k int) error {
	sampleIDs, err := custody.GetCustodyColumns(h, nodeID, k, s.cfg)
	if err != nil {
		return err
	}
	for _, id := range sampleIDs {
		custodians, ok := s.SampleMapping[id]
		if !ok {
			continue
		}
		delete(custodians, nodeID)
	}
	return nil
}
