package types

import "testing"

func TestL1BatchCommitmentHashDeterministic(t *testing.T) {
	ids := []BlockId{
		{Hash: HashBytes([]byte("b1"))},
		{Hash: HashBytes([]byte("b2"))},
	}
	c1 := L1BatchCommitment{BatchNumber: 42, BlockIds: ids}
	c2 := L1BatchCommitment{BatchNumber: 42, BlockIds: ids}
	if c1.Hash() != c2.Hash() {
		t.Error("identical commitments produced different hashes")
	}
}

func TestL1BatchCommitmentHashSensitiveToOrder(t *testing.T) {
	a := BlockId{Hash: HashBytes([]byte("b1"))}
	b := BlockId{Hash: HashBytes([]byte("b2"))}
	c1 := L1BatchCommitment{BatchNumber: 1, BlockIds: []BlockId{a, b}}
	c2 := L1BatchCommitment{BatchNumber: 1, BlockIds: []BlockId{b, a}}
	if c1.Hash() == c2.Hash() {
		t.Error("reordering block IDs should change the commitment hash")
	}
}

func TestL1BatchCommitmentHashSensitiveToBatchNumber(t *testing.T) {
	ids := []BlockId{{Hash: HashBytes([]byte("b1"))}}
	c1 := L1BatchCommitment{BatchNumber: 1, BlockIds: ids}
	c2 := L1BatchCommitment{BatchNumber: 2, BlockIds: ids}
	if c1.Hash() == c2.Hash() {
		t.Error("different batch numbers should change the commitment hash")
	}
}
