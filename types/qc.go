package types

// ViewNumber is the proposer's monotone per-step round counter.
type ViewNumber uint64

// QuorumCertificate is a synthetic, single-validator proof that a block is
// decided: in this system it is implied by the proposer's own commit, not
// by any BFT voting process.
type QuorumCertificate struct {
	View    ViewNumber
	BlockId BlockId
}

// L1BatchCommitment aggregates a contiguous run of committed blocks into
// the object that would be posted to an external settlement layer.
type L1BatchCommitment struct {
	BatchNumber uint64
	BlockIds    []BlockId
}

// Hash returns the deterministic hash of c's canonical encoding. The same
// sequence of block IDs always yields the same hash.
func (c L1BatchCommitment) Hash() Hash {
	return HashBytes(EncodeL1BatchCommitment(c))
}

// EncodeL1BatchCommitment returns the canonical byte encoding of c.
func EncodeL1BatchCommitment(c L1BatchCommitment) []byte {
	e := encoder{}
	e.writeUint64(c.BatchNumber)
	e.writeUint32(uint32(len(c.BlockIds)))
	for _, id := range c.BlockIds {
		e.writeHash(id.Hash)
	}
	return e.buf
}
