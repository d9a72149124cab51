package simulate

import (
	"github.com/eth-das/rated-list/adversary"
	"github.com/eth-das/rated-list/custody"
	"github.com/eth-das/rated-list/graph"
)

// Report summarizes the outcome of one sampling round: which nodes
// were evicted by the filter versus kept, which nodes were actually
// malicious, and the resulting confusion-matrix rates. Eviction of a
// malicious node is the desired (true positive) outcome; eviction of
// an honest node is a false positive.
type Report struct {
	Evicted   map[custody.NodeID]struct{}
	Filtered  map[custody.NodeID]struct{}
	Malicious map[custody.NodeID]struct{}

	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int

	FalsePositiveRate float64
	FalseNegativeRate float64

	ObtainedSamples int
	TotalColumns    uint64
}

func buildReport(
	ownID custody.NodeID,
	g graph.Graph,
	attack adversary.Strategy,
	evicted map[custody.NodeID]struct{},
	filtered map[custody.NodeID]struct{},
	obtained map[custody.SampleID]bool,
	columns uint64,
) Report {
	malicious := make(map[custody.NodeID]struct{}, attack.NumAttackNodes())
	for v := range attack.MaliciousNodes() {
		malicious[custody.NodeIDFromVertex(v)] = struct{}{}
	}

	_, ownEvicted := evicted[ownID]
	_, ownFiltered := filtered[ownID]
	if !ownEvicted || !ownFiltered {
		filtered[ownID] = struct{}{}
	}

	report := Report{
		Evicted:      evicted,
		Filtered:     filtered,
		Malicious:    malicious,
		TotalColumns: columns,
	}

	for n := range evicted {
		if _, ok := malicious[n]; ok {
			report.TruePositives++
		} else {
			report.FalsePositives++
		}
	}
	for n := range filtered {
		if _, ok := malicious[n]; ok {
			report.FalseNegatives++
		} else {
			report.TrueNegatives++
		}
	}

	if d := report.FalsePositives + report.TrueNegatives; d > 0 {
		report.FalsePositiveRate = float64(report.FalsePositives) / float64(d)
	}
	if d := report.FalseNegatives + report.TruePositives; d > 0 {
		report.FalseNegativeRate = float64(report.FalseNegatives) / float64(d)
	}

	for _, ok := range obtained {
		if ok {
			report.ObtainedSamples++
		}
	}

	return report
}
