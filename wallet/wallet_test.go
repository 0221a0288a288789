package wallet

import (
	"testing"

	"github.com/latticefold/sequencer/types"
)

func TestGenerateProducesUsableWallet(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w.PubKey() == "" {
		t.Error("PubKey should not be empty")
	}
	if w.ValidatorID() == ([32]byte{}) {
		t.Error("ValidatorID should not be the zero value for a freshly generated key")
	}
}

func TestSignAndVerifyTransaction(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	tx := types.Transaction{Namespace: 1, GasPrice: 1, Nonce: 0, Payload: []byte("hello")}
	signed := w.SignTransaction(tx)
	if len(signed.Signature) == 0 {
		t.Fatal("SignTransaction should populate Signature")
	}
	if !VerifyTransactionSignature(signed, w.Pub()) {
		t.Error("a freshly produced signature should verify")
	}
}

func TestVerifyTransactionSignatureRejectsTampering(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	tx := types.Transaction{Namespace: 1, GasPrice: 1, Nonce: 0, Payload: []byte("hello")}
	signed := w.SignTransaction(tx)
	signed.Nonce = 99
	if VerifyTransactionSignature(signed, w.Pub()) {
		t.Error("a tampered transaction should not verify")
	}
}
