// Package types defines the content-addressed data model shared by every
// other package: hashes, transaction and block identity, the Merkle tree
// over transaction IDs, and the canonical binary encoding used as both the
// hash input and the on-disk representation for those values.
package types

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSize is the length in bytes of a Hash.
const HashSize = 32

// Hash is a fixed-size content hash. The zero value is the distinguished
// empty-Merkle-tree sentinel; it is never produced by HashBytes on real
// input (collision with the all-zero value is assumed infeasible).
type Hash [HashSize]byte

// IsZero reports whether h is the all-zero sentinel hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of h's underlying bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// HashBytes returns the BLAKE3-256 hash of data.
func HashBytes(data []byte) Hash {
	sum := blake3.Sum256(data)
	return Hash(sum)
}

// TxId is the content-addressed identifier of a Transaction. It wraps Hash
// in a distinct struct so it cannot be interchanged with a BlockId at
// compile time even though both carry a 32-byte hash underneath.
type TxId struct {
	Hash Hash
}

// String returns the lowercase hex encoding of the underlying hash.
func (id TxId) String() string { return id.Hash.String() }

// BlockId is the content-addressed identifier of a BlockHeader.
type BlockId struct {
	Hash Hash
}

// String returns the lowercase hex encoding of the underlying hash.
func (id BlockId) String() string { return id.Hash.String() }
