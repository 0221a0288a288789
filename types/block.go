package types

// BlockHeader carries the metadata that is hashed to produce a BlockId.
// Parent is nil only for the genesis header (height 1). StateRoot is
// written opaquely here; the execution layer that computes it is out of
// scope for this module.
type BlockHeader struct {
	Height      uint64
	Parent      *BlockId
	TxRoot      Hash
	StateRoot   Hash
	TimestampMs uint64
	Proposer    [32]byte
}

// ID returns the content-addressed identifier of h.
func (h BlockHeader) ID() BlockId {
	return BlockId{Hash: HashBytes(EncodeBlockHeader(h))}
}

// EncodeBlockHeader returns the canonical byte encoding of h, used both for
// BlockId and for the stored representation of a block.
func EncodeBlockHeader(h BlockHeader) []byte {
	e := encoder{}
	e.writeUint64(h.Height)
	e.writeOptionalBlockId(h.Parent)
	e.writeHash(h.TxRoot)
	e.writeHash(h.StateRoot)
	e.writeUint64(h.TimestampMs)
	e.writeFixed(h.Proposer[:])
	return e.buf
}

// DecodeBlockHeader parses the canonical encoding produced by
// EncodeBlockHeader.
func DecodeBlockHeader(data []byte) (BlockHeader, error) {
	d := decoder{buf: data}
	height, err := d.readUint64()
	if err != nil {
		return BlockHeader{}, err
	}
	parent, err := d.readOptionalBlockId()
	if err != nil {
		return BlockHeader{}, err
	}
	txRoot, err := d.readHash()
	if err != nil {
		return BlockHeader{}, err
	}
	stateRoot, err := d.readHash()
	if err != nil {
		return BlockHeader{}, err
	}
	ts, err := d.readUint64()
	if err != nil {
		return BlockHeader{}, err
	}
	proposerB, err := d.readFixed(32)
	if err != nil {
		return BlockHeader{}, err
	}
	var proposer [32]byte
	copy(proposer[:], proposerB)
	return BlockHeader{
		Height:      height,
		Parent:      parent,
		TxRoot:      txRoot,
		StateRoot:   stateRoot,
		TimestampMs: ts,
		Proposer:    proposer,
	}, nil
}

// Block is a header plus the ordered list of transaction IDs it commits to.
// Transaction bodies live in the TxStore, not in the block itself.
type Block struct {
	Header BlockHeader
	Txs    []TxId
}

// ID returns the content-addressed identifier of the block's header.
func (b Block) ID() BlockId { return b.Header.ID() }

// EncodeBlock returns the canonical byte encoding of b, used as the value a
// BlockStore persists.
func EncodeBlock(b Block) []byte {
	e := encoder{}
	header := EncodeBlockHeader(b.Header)
	e.writeBytes(header)
	e.writeUint32(uint32(len(b.Txs)))
	for _, id := range b.Txs {
		e.writeHash(id.Hash)
	}
	return e.buf
}

// DecodeBlock parses the canonical encoding produced by EncodeBlock.
func DecodeBlock(data []byte) (Block, error) {
	d := decoder{buf: data}
	headerBytes, err := d.readBytes()
	if err != nil {
		return Block{}, err
	}
	header, err := DecodeBlockHeader(headerBytes)
	if err != nil {
		return Block{}, err
	}
	count, err := d.readUint32()
	if err != nil {
		return Block{}, err
	}
	txs := make([]TxId, 0, count)
	for i := uint32(0); i < count; i++ {
		h, err := d.readHash()
		if err != nil {
			return Block{}, err
		}
		txs = append(txs, TxId{Hash: h})
	}
	return Block{Header: header, Txs: txs}, nil
}
