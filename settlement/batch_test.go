package settlement

import (
	"testing"

	"github.com/latticefold/sequencer/types"
)

func sampleBlocks() []types.Block {
	return []types.Block{
		{Header: types.BlockHeader{Height: 1, TimestampMs: 1}},
		{Header: types.BlockHeader{Height: 2, TimestampMs: 2}},
	}
}

func TestBuildL1BatchCommitmentCollectsBlockIDsInOrder(t *testing.T) {
	blocks := sampleBlocks()
	commitment := BuildL1BatchCommitment(1, blocks)
	if len(commitment.BlockIds) != len(blocks) {
		t.Fatalf("block id count: got %d want %d", len(commitment.BlockIds), len(blocks))
	}
	for i, b := range blocks {
		if commitment.BlockIds[i] != b.ID() {
			t.Errorf("block id %d: got %s want %s", i, commitment.BlockIds[i], b.ID())
		}
	}
}

func TestBuildL1BatchCommitmentDeterministic(t *testing.T) {
	blocks := sampleBlocks()
	c1 := BuildL1BatchCommitment(7, blocks)
	c2 := BuildL1BatchCommitment(7, blocks)
	if c1.Hash() != c2.Hash() {
		t.Error("building a commitment from the same blocks twice should hash identically")
	}
}

func TestBuildL1BatchCommitmentEmptyBlocks(t *testing.T) {
	commitment := BuildL1BatchCommitment(1, nil)
	if len(commitment.BlockIds) != 0 {
		t.Errorf("empty batch should have no block ids: got %d", len(commitment.BlockIds))
	}
}
