package custody

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
)

// Custody derivation errors.
var (
	ErrCustodyCountExceeded  = errors.New("custody: k exceeds subnet count")
	ErrSafetyCounterExceeded = errors.New("custody: safety counter exceeded while deriving custody columns")
)

// safetyCounterLimit bounds the derivation loop well above any value the
// pigeonhole argument (k <= SubnetCount) requires, guarding against an
// implementation error turning this into an infinite loop (spec.md §9).
const safetyCounterLimit = 1 << 20

// maxUint256 returns 2**256 - 1.
func maxUint256() *uint256.Int {
	return new(uint256.Int).Not(new(uint256.Int))
}

// leToUint256 interprets the little-endian 32 bytes of id as a uint256,
// per spec.md §6's little-endian convention.
func leToUint256(b [32]byte) *uint256.Int {
	var rev [32]byte
	for i, c := range b {
		rev[31-i] = c
	}
	return new(uint256.Int).SetBytes(rev[:])
}

// uint256ToLE serializes v back to a little-endian 32-byte buffer.
func uint256ToLE(v *uint256.Int) [32]byte {
	be := v.Bytes32()
	var le [32]byte
	for i, c := range be {
		le[31-i] = c
	}
	return le
}

// GetCustodyColumns implements spec.md §6's get_custody_columns: it
// deterministically derives the sorted set of SampleIDs a node with the
// given NodeID should custody, given a custody subnet count k.
//
// The node ID is treated as a little-endian uint256 counter. Each
// iteration hashes the counter, takes the low 64 bits of the digest
// modulo SubnetCount to propose a subnet id, keeps it if not already
// chosen, then advances the counter (wrapping at 2**256-1 back to 0)
// regardless of whether the proposal was accepted.
func GetCustodyColumns(h Hasher, id NodeID, k int, cfg Config) ([]SampleID, error) {
	if uint64(k) > cfg.SubnetCount {
		return nil, fmt.Errorf("%w: k=%d > %d", ErrCustodyCountExceeded, k, cfg.SubnetCount)
	}
	if k <= 0 {
		return nil, nil
	}

	maxID := maxUint256()
	current := leToUint256([32]byte(id))
	seen := make(map[uint64]bool, k)
	subnetIDs := make([]uint64, 0, k)

	for iterations := 0; len(subnetIDs) < k; iterations++ {
		if iterations >= safetyCounterLimit {
			return nil, ErrSafetyCounterExceeded
		}

		digest := h.Sum256(uint256ToLE(current)[:])
		subnetID := binary.LittleEndian.Uint64(digest[:8]) % cfg.SubnetCount

		if !seen[subnetID] {
			seen[subnetID] = true
			subnetIDs = append(subnetIDs, subnetID)
		}

		if current.Eq(maxID) {
			current = new(uint256.Int)
		} else {
			current = new(uint256.Int).AddUint64(current, 1)
		}
	}

	columnsPerSubnet := cfg.NumberOfColumns / cfg.SubnetCount
	columns := make([]SampleID, 0, uint64(len(subnetIDs))*columnsPerSubnet)
	for i := uint64(0); i < columnsPerSubnet; i++ {
		for _, subnetID := range subnetIDs {
			columns = append(columns, SampleID(cfg.SubnetCount*i+subnetID))
		}
	}

	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })
	return columns, nil
}
