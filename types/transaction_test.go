package types

import "testing"

func sampleTx() Transaction {
	return Transaction{
		Namespace: 1,
		GasPrice:  5,
		Nonce:     0,
		Payload:   []byte("hello"),
		Signature: nil,
	}
}

func TestTransactionIDDeterministic(t *testing.T) {
	tx := sampleTx()
	id1 := tx.ID()
	id2 := tx.ID()
	if id1 != id2 {
		t.Errorf("tx ID not deterministic: %s != %s", id1, id2)
	}
}

func TestTransactionIDDiffersByField(t *testing.T) {
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.Nonce = 1
	if tx1.ID() == tx2.ID() {
		t.Error("transactions differing only by nonce produced the same ID")
	}
}

func TestTransactionEncodeDecodeRoundtrip(t *testing.T) {
	tx := sampleTx()
	data := EncodeTransaction(tx)
	decoded, err := DecodeTransaction(data)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if decoded.ID() != tx.ID() {
		t.Error("decoded transaction has a different ID than the original")
	}
	if decoded.Namespace != tx.Namespace || decoded.GasPrice != tx.GasPrice || decoded.Nonce != tx.Nonce {
		t.Error("decoded transaction fields do not match the original")
	}
	if string(decoded.Payload) != string(tx.Payload) {
		t.Errorf("payload: got %q want %q", decoded.Payload, tx.Payload)
	}
}

func TestDecodeTransactionTruncated(t *testing.T) {
	tx := sampleTx()
	data := EncodeTransaction(tx)
	if _, err := DecodeTransaction(data[:len(data)-1]); err == nil {
		t.Error("decoding a truncated buffer should fail")
	}
}
