package types

import "errors"

// ErrMalformedProof is returned by BuildMerkleProof when no proof can be
// built: the tree is empty or the index is out of range. VerifyMerkleProof
// does not return it; it reports a failed check as false.
var ErrMalformedProof = errors.New("types: malformed merkle proof")

// MerkleProof is an inclusion proof for one leaf, carrying its original
// index and the bottom-up sibling hashes needed to recompute the root.
type MerkleProof struct {
	Index    uint32
	Siblings []Hash
}

// MerkleRoot computes the root of the unbalanced, duplicated-last-node
// binary Merkle tree over txs, in order. The empty tree's root is the zero
// hash sentinel.
func MerkleRoot(txs []TxId) Hash {
	if len(txs) == 0 {
		return Hash{}
	}
	layer := leafLayer(txs)
	for len(layer) > 1 {
		layer = nextLayer(layer)
	}
	return layer[0]
}

// BuildMerkleProof builds an inclusion proof for the leaf at index. It
// returns ErrMalformedProof if txs is empty or index is out of range.
func BuildMerkleProof(txs []TxId, index int) (MerkleProof, error) {
	if len(txs) == 0 || index < 0 || index >= len(txs) {
		return MerkleProof{}, ErrMalformedProof
	}

	idx := index
	layer := leafLayer(txs)
	siblings := make([]Hash, 0, len(txs))

	for len(layer) > 1 {
		var siblingIdx int
		if idx%2 == 1 {
			siblingIdx = idx - 1
		} else {
			siblingIdx = idx + 1
		}
		var sibling Hash
		if siblingIdx < len(layer) {
			sibling = layer[siblingIdx]
		} else {
			sibling = layer[idx]
		}
		siblings = append(siblings, sibling)

		idx /= 2
		layer = nextLayer(layer)
	}

	return MerkleProof{Index: uint32(index), Siblings: siblings}, nil
}

// VerifyMerkleProof reports whether leaf, combined with proof, recomputes
// to root. The sibling count is not validated against any expected tree
// size — per spec, any sibling count that reaches a root is accepted.
func VerifyMerkleProof(root Hash, leaf TxId, proof MerkleProof) bool {
	h := leaf.Hash
	idx := proof.Index
	for _, sibling := range proof.Siblings {
		if idx%2 == 0 {
			h = hashPair(h, sibling)
		} else {
			h = hashPair(sibling, h)
		}
		idx /= 2
	}
	return h == root
}

func leafLayer(txs []TxId) []Hash {
	layer := make([]Hash, len(txs))
	for i, id := range txs {
		layer[i] = id.Hash
	}
	return layer
}

func nextLayer(layer []Hash) []Hash {
	next := make([]Hash, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		if i+1 < len(layer) {
			next = append(next, hashPair(layer[i], layer[i+1]))
		} else {
			next = append(next, hashPair(layer[i], layer[i]))
		}
	}
	return next
}

func hashPair(left, right Hash) Hash {
	buf := make([]byte, 0, 2*HashSize)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return HashBytes(buf)
}
