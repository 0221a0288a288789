// Package settlement builds the aggregate commitment that would be posted
// to an external settlement layer: a batch number plus the ordered block
// IDs of every block it covers.
package settlement

import "github.com/latticefold/sequencer/types"

// BuildL1BatchCommitment constructs the commitment for batchNumber over
// blocks, in the order given. Determinism requires that the same sequence
// of blocks always yields the same commitment hash.
func BuildL1BatchCommitment(batchNumber uint64, blocks []types.Block) types.L1BatchCommitment {
	ids := make([]types.BlockId, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID()
	}
	return types.L1BatchCommitment{
		BatchNumber: batchNumber,
		BlockIds:    ids,
	}
}
