package simulate

import (
	"context"
	"math/rand"
	"sort"

	"github.com/eth-das/rated-list/adversary"
	"github.com/eth-das/rated-list/custody"
	"github.com/eth-das/rated-list/graph"
	"github.com/eth-das/rated-list/ratedlist"
	"github.com/eth-das/rated-list/tree"
)

// Strategy orders a set of filtered candidates before the driver walks
// them. "high" and "low" sort by each candidate's NodeScore, "random"
// shuffles, "all" fans every candidate out regardless of order.
type Strategy string

const (
	StrategyHigh   Strategy = "high"
	StrategyLow    Strategy = "low"
	StrategyRandom Strategy = "random"
	StrategyAll    Strategy = "all"
)

// graphPeerOracle adapts a graph.Graph into a tree.PeerOracle by
// mapping rated-list NodeIDs to graph vertices and back. Per the
// peers-response contract it shuffles its neighbors before truncating
// to maxChildren, so a high-degree vertex yields a random subset
// instead of aborting the caller with ErrTooManyChildren.
type graphPeerOracle struct {
	g           graph.Graph
	rng         *rand.Rand
	maxChildren int
}

func (o graphPeerOracle) GetPeers(ctx context.Context, nodeID custody.NodeID) ([]custody.NodeID, error) {
	vertex := custody.VertexFromNodeID(nodeID)
	neighbors := o.g.Neighbors(vertex)

	shuffled := make([]int, len(neighbors))
	copy(shuffled, neighbors)
	o.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if o.maxChildren > 0 && len(shuffled) > o.maxChildren {
		shuffled = shuffled[:o.maxChildren]
	}

	peers := make([]custody.NodeID, len(shuffled))
	for i, n := range shuffled {
		peers[i] = custody.NodeIDFromVertex(n)
	}
	return peers, nil
}

// Config configures a Driver.
type Config struct {
	CustodyK int
	Rand     *rand.Rand
	Debug    bool
}

// DefaultConfig returns driver defaults, with CustodyK taken from
// custody.DefaultConfig so the two packages don't drift independently.
func DefaultConfig() Config {
	return Config{CustodyK: custody.DefaultConfig().MinCustodyCount, Debug: false}
}

// Driver binds a rated-list store to a fixed peer graph and an
// adversary strategy, then runs one full sampling round against it.
type Driver struct {
	store    *ratedlist.Store
	g        graph.Graph
	attack   adversary.Strategy
	queue    RequestQueue
	custody  custody.Config
	cfg      Config
	hasher   custody.Hasher
	bindVert int
}

// NewDriver binds a rated-list node to graph vertex bindingVertex and
// the given adversary strategy. It does not build the tree or run the
// attack setup; call Setup for that.
func NewDriver(g graph.Graph, attack adversary.Strategy, bindingVertex int, custodyCfg custody.Config, cfg Config) *Driver {
	ownID := custody.NodeIDFromVertex(bindingVertex)
	return &Driver{
		store:    ratedlist.New(ownID, custodyCfg),
		g:        g,
		attack:   attack,
		custody:  custodyCfg,
		cfg:      cfg,
		hasher:   custody.SHA256Hasher{},
		bindVert: bindingVertex,
	}
}

// Store returns the driver's underlying rated-list store.
func (d *Driver) Store() *ratedlist.Store {
	return d.store
}

// Setup constructs the rated-list tree from the backing peer graph and
// then runs the adversary's attack setup. Per spec, attacks that extend
// the graph (Sybil) must run their setup before the tree is built so
// their amplification edges are visible to BuildTree; attacks that only
// mark nodes may run before or after, so running SetupAttack first
// unconditionally is safe for all strategies.
func (d *Driver) Setup(ctx context.Context) error {
	d.attack.SetupAttack(d.g)
	rng := d.cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	oracle := graphPeerOracle{g: d.g, rng: rng, maxChildren: d.custody.MaxChildren}
	return tree.BuildTree(ctx, d.store, oracle, d.hasher, d.cfg.CustodyK, d.custody)
}

// requestSample records a request and enqueues it for draining. An
// error here is always an *ratedlist.InvariantError: every candidate
// passed to it comes from a FilterNodes result, so its node_id is
// already known to the store.
func (d *Driver) requestSample(nodeID custody.NodeID, root custody.Root, sampleID custody.SampleID) error {
	if err := d.store.OnRequestScoreUpdate(root, nodeID, sampleID); err != nil {
		return err
	}
	d.queue.Push(RequestQueueItem{NodeID: nodeID, SampleID: sampleID, BlockRoot: root})
	return nil
}

// drainOne pops and resolves the oldest queued request, returning
// whether the targeted node responded.
func (d *Driver) drainOne(root custody.Root, sampleID custody.SampleID) (bool, error) {
	item := d.queue.Pop()
	vertex := custody.VertexFromNodeID(item.NodeID)
	if !d.attack.ShouldRespond(vertex) {
		return false, nil
	}
	if err := d.store.OnResponseScoreUpdate(item.BlockRoot, item.NodeID, item.SampleID); err != nil {
		return false, err
	}
	return item.BlockRoot == root && item.SampleID == sampleID, nil
}

// QuerySamples runs one sampling round over every sample id in
// [0, columns): filter candidates, order them per strategy, and walk
// the ordered list issuing requests until either a response succeeds
// ("high"/"low"/"random") or every candidate has been asked ("all").
// A sample_id with no known custodians is not an error: it is recorded
// as unobtained and the round continues with the next sample. Any
// *ratedlist.InvariantError surfaced along the way, by contrast, is
// fatal and aborts the round immediately with no Report.
func (d *Driver) QuerySamples(root custody.Root, strategy Strategy, columns uint64) (Report, error) {
	evicted := make(map[custody.NodeID]struct{})
	filtered := make(map[custody.NodeID]struct{})
	obtained := make(map[custody.SampleID]bool)

	rng := d.cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	for sample := custody.SampleID(0); uint64(sample) < columns; sample++ {
		custodians, ok := d.store.SampleMapping[sample]
		if !ok {
			continue
		}

		filteredSet := d.store.FilterNodes(root, sample)
		for n := range filteredSet {
			filtered[n] = struct{}{}
		}
		for n := range custodians {
			if _, ok := filteredSet[n]; !ok {
				evicted[n] = struct{}{}
			}
		}
		for n := range evicted {
			delete(filtered, n)
		}

		ordered := orderCandidates(filteredSet, strategy, root, d.store, rng)

		if strategy == StrategyAll {
			for _, node := range ordered {
				if err := d.requestSample(node, root, sample); err != nil {
					return Report{}, err
				}
			}
			for !d.queue.Empty() {
				ok, err := d.drainOne(root, sample)
				if err != nil {
					return Report{}, err
				}
				if ok {
					obtained[sample] = true
				}
			}
			continue
		}

		for _, node := range ordered {
			if err := d.requestSample(node, root, sample); err != nil {
				return Report{}, err
			}
			ok, err := d.drainOne(root, sample)
			if err != nil {
				return Report{}, err
			}
			if ok {
				obtained[sample] = true
				break
			}
		}
	}

	return buildReport(d.store.OwnID, d.g, d.attack, evicted, filtered, obtained, columns), nil
}

// orderCandidates materializes candidates into a slice ordered per
// strategy. "high"/"low" sort by the candidate's current NodeScore;
// "random" shuffles; "all" returns candidates in map-iteration order
// since every candidate will be queried regardless of order.
func orderCandidates(candidates map[custody.NodeID]struct{}, strategy Strategy, root custody.Root, store *ratedlist.Store, rng *rand.Rand) []custody.NodeID {
	ordered := make([]custody.NodeID, 0, len(candidates))
	for n := range candidates {
		ordered = append(ordered, n)
	}

	switch strategy {
	case StrategyHigh:
		sort.Slice(ordered, func(i, j int) bool {
			return store.NodeScore(root, ordered[i]) > store.NodeScore(root, ordered[j])
		})
	case StrategyLow:
		sort.Slice(ordered, func(i, j int) bool {
			return store.NodeScore(root, ordered[i]) < store.NodeScore(root, ordered[j])
		})
	case StrategyRandom:
		rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	}

	return ordered
}
