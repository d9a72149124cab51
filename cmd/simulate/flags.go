package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/eth-das/rated-list/custody"
)

// flagSet wraps flag.FlagSet to add support for uint64 flags.
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior.
func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// Uint64Var defines a uint64 flag. Go's standard flag package lacks uint64
// support, so we use a custom Value implementation.
func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

// uint64Value implements flag.Value for uint64 flags.
type uint64Value struct {
	p *uint64
}

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}

// simulationConfig holds every flag-bound parameter controlling one run.
type simulationConfig struct {
	graphKind string
	n         int
	p         float64
	degree    int
	seed      int64

	bindingVertex int
	custodyK      uint64

	attack        string
	sybilRate     float64
	eclipseTarget int
	eclipseRate   float64
	balancingRoot int
	defunctRoot   int
	defunctParent int

	strategy string
	root     string
	logLevel string
}

func defaultSimulationConfig() simulationConfig {
	return simulationConfig{
		graphKind:     "erdos-renyi",
		n:             200,
		p:             0.05,
		degree:        2,
		seed:          1,
		bindingVertex: 0,
		custodyK:      uint64(custody.DefaultConfig().MinCustodyCount),
		attack:        "sybil",
		sybilRate:     0.1,
		eclipseTarget: 0,
		eclipseRate:   0.1,
		balancingRoot: 0,
		defunctRoot:   1,
		defunctParent: 0,
		strategy:      "high",
		root:          "simulate",
		logLevel:      "info",
	}
}

// newFlagSet creates a flag.FlagSet that binds all CLI flags to cfg. The
// FlagSet uses ContinueOnError so callers control the error handling
// behavior.
func newFlagSet(cfg *simulationConfig) *flagSet {
	fs := newCustomFlagSet("simulate")
	fs.StringVar(&cfg.graphKind, "graph", cfg.graphKind, "peer graph generator (erdos-renyi, branching)")
	fs.IntVar(&cfg.n, "n", cfg.n, "vertex count for the erdos-renyi generator")
	fs.Float64Var(&cfg.p, "p", cfg.p, "edge probability for the erdos-renyi generator")
	fs.IntVar(&cfg.degree, "degree", cfg.degree, "fan-out degree for the branching generator")
	fs.Int64Var(&cfg.seed, "seed", cfg.seed, "random seed")

	fs.IntVar(&cfg.bindingVertex, "bind", cfg.bindingVertex, "graph vertex the local node is bound to")
	fs.Uint64Var(&cfg.custodyK, "custody-k", cfg.custodyK, "custody subnet count per node")

	fs.StringVar(&cfg.attack, "attack", cfg.attack, "adversary strategy (sybil, eclipse, balancing, defunct)")
	fs.Float64Var(&cfg.sybilRate, "sybil-rate", cfg.sybilRate, "fraction of vertices marked malicious by the sybil attack")
	fs.IntVar(&cfg.eclipseTarget, "eclipse-target", cfg.eclipseTarget, "vertex whose neighborhood the eclipse attack marks malicious")
	fs.Float64Var(&cfg.eclipseRate, "eclipse-rate", cfg.eclipseRate, "notional budget for the eclipse attack")
	fs.IntVar(&cfg.balancingRoot, "balancing-root", cfg.balancingRoot, "root vertex the balancing attack picks a subtree from")
	fs.IntVar(&cfg.defunctRoot, "defunct-root", cfg.defunctRoot, "root of the subtree the defunct attack marks malicious")
	fs.IntVar(&cfg.defunctParent, "defunct-parent", cfg.defunctParent, "vertex excluded from the defunct attack's traversal")

	fs.StringVar(&cfg.strategy, "strategy", cfg.strategy, "candidate ordering strategy (high, low, random, all)")
	fs.StringVar(&cfg.root, "root", cfg.root, "label hashed into the sampling root for this run")
	fs.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "log verbosity (debug, info, warn, error, fatal)")
	return fs
}
