// Command simulate drives one rated-list sampling round against a
// synthetic peer graph under a chosen adversary strategy, and prints
// the resulting eviction report.
//
// Usage:
//
//	simulate [flags]
//
// Flags:
//
//	-graph           Peer graph generator: erdos-renyi, branching (default erdos-renyi)
//	-n               Vertex count for erdos-renyi (default 200)
//	-p               Edge probability for erdos-renyi (default 0.05)
//	-degree          Fan-out degree for branching (default 2)
//	-seed            Random seed (default 1)
//	-bind            Graph vertex the local node is bound to (default 0)
//	-custody-k       Custody subnet count per node (default 2)
//	-attack          Adversary strategy: sybil, eclipse, balancing, defunct (default sybil)
//	-strategy        Candidate ordering: high, low, random, all (default high)
//	-root            Label hashed into the sampling root for this run
//	-log-level       Log verbosity: debug, info, warn, error, fatal (default info)
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"

	"github.com/eth-das/rated-list/adversary"
	"github.com/eth-das/rated-list/custody"
	"github.com/eth-das/rated-list/graph"
	"github.com/eth-das/rated-list/internal/graphgen"
	"github.com/eth-das/rated-list/log"
	"github.com/eth-das/rated-list/simulate"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	log.SetDefault(log.New(log.LevelFromString(cfg.logLevel).SlogLevel()))
	logger := log.Default().Module("simulate")

	g, err := buildGraph(cfg)
	if err != nil {
		logger.Error("failed to build graph", "error", err)
		return 1
	}

	strategy, err := buildAttack(cfg)
	if err != nil {
		logger.Error("failed to build attack", "error", err)
		return 1
	}

	custodyCfg := custody.DefaultConfig()
	driverCfg := simulate.DefaultConfig()
	driverCfg.CustodyK = int(cfg.custodyK)
	driverCfg.Rand = rand.New(rand.NewSource(cfg.seed))

	driver := simulate.NewDriver(g, strategy, cfg.bindingVertex, custodyCfg, driverCfg)

	logger.Info("building rated-list tree",
		"graph", cfg.graphKind, "vertices", g.NumVertices(), "bind", cfg.bindingVertex)

	if err := driver.Setup(context.Background()); err != nil {
		logger.Error("failed to build rated-list tree", "error", err)
		return 1
	}

	root := sha256.Sum256([]byte(cfg.root))
	report, err := driver.QuerySamples(custody.Root(root), simulate.Strategy(cfg.strategy), custodyCfg.NumberOfColumns)
	if err != nil {
		logger.Error("aborting: invariant violation during sampling", "error", err)
		return 1
	}

	printReport(report, custodyCfg.NumberOfColumns)
	return 0
}

// parseFlags parses CLI arguments into a simulationConfig. Returns the
// config, whether the caller should exit immediately, and the exit code.
func parseFlags(args []string) (simulationConfig, bool, int) {
	cfg := defaultSimulationConfig()
	fs := newFlagSet(&cfg)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}

	return cfg, false, 0
}

func buildGraph(cfg simulationConfig) (graph.Graph, error) {
	switch cfg.graphKind {
	case "erdos-renyi":
		return graphgen.ErdosRenyi(cfg.n, cfg.p, cfg.seed), nil
	case "branching":
		return graphgen.FixedBranching(cfg.degree), nil
	default:
		return nil, fmt.Errorf("unknown graph generator %q", cfg.graphKind)
	}
}

func buildAttack(cfg simulationConfig) (adversary.Strategy, error) {
	switch cfg.attack {
	case "sybil":
		return adversary.NewSybil(adversary.SybilConfig{
			Rate: cfg.sybilRate,
			Rand: rand.New(rand.NewSource(cfg.seed)),
		}), nil
	case "eclipse":
		return adversary.NewEclipse(adversary.EclipseConfig{
			Target: cfg.eclipseTarget,
			Rate:   cfg.eclipseRate,
		}), nil
	case "balancing":
		return adversary.NewBalancing(adversary.BalancingConfig{
			RootNode: cfg.balancingRoot,
			Rand:     rand.New(rand.NewSource(cfg.seed)),
		}), nil
	case "defunct":
		return adversary.NewDefunctSubTree(adversary.DefunctSubTreeConfig{
			DefunctRoot: cfg.defunctRoot,
			Parent:      cfg.defunctParent,
		}), nil
	default:
		return nil, fmt.Errorf("unknown attack strategy %q", cfg.attack)
	}
}

func printReport(report simulate.Report, columns uint64) {
	fmt.Printf("Evicted Nodes:   %d\n", len(report.Evicted))
	fmt.Printf("Malicious Nodes: %d\n", len(report.Malicious))
	fmt.Printf("Filtered Nodes:  %d\n", len(report.Filtered))
	fmt.Printf("False Positive Rate: %.4f\n", report.FalsePositiveRate)
	fmt.Printf("False Negative Rate: %.4f\n", report.FalseNegativeRate)
	fmt.Printf("Obtained Samples: %d/%d\n", report.ObtainedSamples, columns)
}
