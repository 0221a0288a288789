package types

import "testing"

func TestBlockHeaderIDGenesis(t *testing.T) {
	h := BlockHeader{
		Height:      1,
		Parent:      nil,
		TxRoot:      Hash{},
		StateRoot:   Hash{},
		TimestampMs: 1000,
	}
	if h.ID().Hash.IsZero() {
		t.Error("a real header should not hash to the zero sentinel")
	}
}

func TestBlockHeaderIDChangesWithParent(t *testing.T) {
	base := BlockHeader{Height: 2, TimestampMs: 1000}
	id1 := BlockId{Hash: HashBytes([]byte("a"))}
	id2 := BlockId{Hash: HashBytes([]byte("b"))}

	h1 := base
	h1.Parent = &id1
	h2 := base
	h2.Parent = &id2

	if h1.ID() == h2.ID() {
		t.Error("headers with different parents produced the same ID")
	}
}

func TestBlockEncodeDecodeRoundtrip(t *testing.T) {
	parent := BlockId{Hash: HashBytes([]byte("parent"))}
	header := BlockHeader{
		Height:      7,
		Parent:      &parent,
		TxRoot:      HashBytes([]byte("txroot")),
		StateRoot:   HashBytes([]byte("stateroot")),
		TimestampMs: 123456,
		Proposer:    [32]byte{1, 2, 3},
	}
	block := Block{
		Header: header,
		Txs: []TxId{
			{Hash: HashBytes([]byte("tx1"))},
			{Hash: HashBytes([]byte("tx2"))},
		},
	}

	data := EncodeBlock(block)
	decoded, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if decoded.ID() != block.ID() {
		t.Error("decoded block has a different ID than the original")
	}
	if decoded.Header.Height != block.Header.Height {
		t.Errorf("height: got %d want %d", decoded.Header.Height, block.Header.Height)
	}
	if decoded.Header.Parent == nil || *decoded.Header.Parent != parent {
		t.Error("decoded parent does not match the original")
	}
	if len(decoded.Txs) != len(block.Txs) {
		t.Fatalf("tx count: got %d want %d", len(decoded.Txs), len(block.Txs))
	}
	for i, id := range decoded.Txs {
		if id != block.Txs[i] {
			t.Errorf("tx[%d]: got %s want %s", i, id, block.Txs[i])
		}
	}
}

func TestBlockHeaderNilParentRoundtrip(t *testing.T) {
	header := BlockHeader{Height: 1, Parent: nil, TimestampMs: 1}
	data := EncodeBlockHeader(header)
	decoded, err := DecodeBlockHeader(data)
	if err != nil {
		t.Fatalf("DecodeBlockHeader: %v", err)
	}
	if decoded.Parent != nil {
		t.Error("decoded genesis header should have a nil parent")
	}
}
