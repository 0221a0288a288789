// Package wallet manages the validator's ed25519 identity: generation, hex
// encoding, and (via keystore.go) encrypted at-rest storage.
package wallet

import (
	"encoding/hex"

	"github.com/latticefold/sequencer/crypto"
	"github.com/latticefold/sequencer/types"
)

// Wallet holds the validator's key pair.
type Wallet struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv crypto.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(priv), nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() crypto.PrivateKey {
	return w.priv
}

// PubKey returns the hex-encoded ed25519 public key.
func (w *Wallet) PubKey() string {
	return w.pub.Hex()
}

// Pub returns the raw public key.
func (w *Wallet) Pub() crypto.PublicKey {
	return w.pub
}

// ValidatorID returns the public key as the fixed-size identity a
// BlockHeader carries in its Proposer field.
func (w *Wallet) ValidatorID() [32]byte {
	var id [32]byte
	copy(id[:], w.pub)
	return id
}

// SignTransaction attaches a signature over tx's content-addressed ID to tx
// and returns the signed copy. The sequencer itself never verifies this
// signature (acceptance is structural only); it is produced for clients
// that want end-to-end authenticity independent of the sequencer's trust
// model.
func (w *Wallet) SignTransaction(tx types.Transaction) types.Transaction {
	tx.Signature = nil
	id := tx.ID()
	sigHex := crypto.Sign(w.priv, id.Hash[:])
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		// ed25519.Sign output is always valid hex; this cannot happen.
		panic(err)
	}
	tx.Signature = sig
	return tx
}

// VerifyTransactionSignature reports whether tx.Signature is a valid ed25519
// signature over tx's ID (with the signature field itself excluded) under
// pub. Unused by the sequencer's acceptance path; provided for clients that
// want to check authenticity independently.
func VerifyTransactionSignature(tx types.Transaction, pub crypto.PublicKey) bool {
	sig := tx.Signature
	tx.Signature = nil
	id := tx.ID()
	return crypto.Verify(pub, id.Hash[:], hex.EncodeToString(sig)) == nil
}
