// Package custody implements the primitive identifiers and the
// sample-custody derivation used by the rated-list peer-reputation
// engine (component A): fixed-width node/sample/root identifiers,
// little-endian integer codecs, and the deterministic mapping from a
// NodeID to the set of sample columns that node custodies.
//
// Reference: consensus-specs/specs/fulu/das-core.md get_custody_columns.
package custody

import (
	"encoding/binary"
	"errors"
)

// NodeID is a 32-byte fixed-width peer identifier.
type NodeID [32]byte

// SampleID identifies one of the Columns chunks of a block's
// erasure-coded data, in [0, NumberOfColumns).
type SampleID uint64

// Root identifies a sampling context, typically a block root.
type Root [32]byte

// Config holds the configurable constants from spec.md §6. All defaults
// come from the Fulu consensus spec's data-column-sidecar parameters.
type Config struct {
	// MaxTreeDepth bounds the rated-list tree builder's BFS (component D).
	MaxTreeDepth int
	// MaxChildren bounds the number of children a peers-response may add.
	MaxChildren int
	// MaxParents bounds the number of parents a single node may accumulate.
	MaxParents int
	// SubnetCount is DATA_COLUMN_SIDECAR_SUBNET_COUNT.
	SubnetCount uint64
	// NumberOfColumns is the total columns in the extended data matrix.
	NumberOfColumns uint64
	// MinCustodyCount is the default custody subnet count (k) per node.
	MinCustodyCount int
}

// DefaultConfig returns spec.md §6's default constants.
func DefaultConfig() Config {
	return Config{
		MaxTreeDepth:    3,
		MaxChildren:     100,
		MaxParents:      100,
		SubnetCount:     128,
		NumberOfColumns: 128,
		MinCustodyCount: 2,
	}
}

// ErrTooManyParents is returned when a node would exceed Config.MaxParents.
var ErrTooManyParents = errors.New("custody: node would exceed max parents")

// ErrTooManyChildren is returned when a node would exceed Config.MaxChildren.
var ErrTooManyChildren = errors.New("custody: node would exceed max children")

// EncodeUint64LE encodes v as the low 8 bytes of a 32-byte little-endian
// buffer, matching the spec's little-endian convention for all
// integer<->bytes conversions (spec.md §6).
func EncodeUint64LE(v uint64) NodeID {
	var id NodeID
	binary.LittleEndian.PutUint64(id[:8], v)
	return id
}

// DecodeUint64LE decodes the low 8 bytes of id as a little-endian uint64.
func DecodeUint64LE(id NodeID) uint64 {
	return binary.LittleEndian.Uint64(id[:8])
}

// NodeIDFromVertex maps an integer graph vertex (as used by the
// simulation driver's backing peer graph) to a NodeID, matching
// original_source/simulator/utils.py's int_to_bytes convention.
func NodeIDFromVertex(v int) NodeID {
	return EncodeUint64LE(uint64(v))
}

// VertexFromNodeID is the inverse of NodeIDFromVertex.
func VertexFromNodeID(id NodeID) int {
	return int(DecodeUint64LE(id))
}
