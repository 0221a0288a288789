package types

// NamespaceId identifies a rollup tenant. Transactions, and the mempool's
// namespace index, are partitioned by this value.
type NamespaceId uint64

// Transaction is the atomic unit of work submitted to the sequencer.
// Payload and Signature are opaque: this package does not interpret the
// payload (execution is out of scope) and does not verify the signature
// (acceptance is structural only).
type Transaction struct {
	Namespace NamespaceId
	GasPrice  uint64
	Nonce     uint64
	Payload   []byte
	Signature []byte
}

// ID returns the content-addressed identifier of tx: the hash of its
// canonical encoding. Two transactions with identical fields always
// produce identical IDs.
func (tx Transaction) ID() TxId {
	return TxId{Hash: HashBytes(EncodeTransaction(tx))}
}

// EncodeTransaction returns the canonical byte encoding of tx. This is used
// both as the hash input for ID() and as the value stored by a TxStore, so
// a single encoder is shared between identity and storage.
func EncodeTransaction(tx Transaction) []byte {
	e := encoder{}
	e.writeUint64(uint64(tx.Namespace))
	e.writeUint64(tx.GasPrice)
	e.writeUint64(tx.Nonce)
	e.writeBytes(tx.Payload)
	e.writeBytes(tx.Signature)
	return e.buf
}

// DecodeTransaction parses the canonical encoding produced by
// EncodeTransaction.
func DecodeTransaction(data []byte) (Transaction, error) {
	d := decoder{buf: data}
	namespace, err := d.readUint64()
	if err != nil {
		return Transaction{}, err
	}
	gasPrice, err := d.readUint64()
	if err != nil {
		return Transaction{}, err
	}
	nonce, err := d.readUint64()
	if err != nil {
		return Transaction{}, err
	}
	payload, err := d.readBytes()
	if err != nil {
		return Transaction{}, err
	}
	sig, err := d.readBytes()
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Namespace: NamespaceId(namespace),
		GasPrice:  gasPrice,
		Nonce:     nonce,
		Payload:   payload,
		Signature: sig,
	}, nil
}
