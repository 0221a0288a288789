package types

import (
	"encoding/binary"
	"fmt"
)

// encoder builds the canonical binary encoding used for both hash input and
// stored representation of Transaction, BlockHeader and Block. Integers are
// fixed-width little-endian; byte strings are length-prefixed (uint32 LE);
// fixed-length arrays are written raw; optionals are a 1-byte tag followed
// by the payload when present.
type encoder struct {
	buf []byte
}

func (e *encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeBytes(b []byte) {
	e.writeUint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *encoder) writeFixed(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) writeHash(h Hash) {
	e.writeFixed(h[:])
}

func (e *encoder) writeOptionalBlockId(id *BlockId) {
	if id == nil {
		e.buf = append(e.buf, 0)
		return
	}
	e.buf = append(e.buf, 1)
	e.writeHash(id.Hash)
}

// decoder reads back the canonical encoding produced by encoder. Every read
// is bounds-checked; a short or truncated buffer yields an error rather than
// a panic, since decoded bytes may come from a corrupted durable store.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() int { return len(d.buf) - d.pos }

func (d *decoder) readUint32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, fmt.Errorf("types: truncated uint32 at offset %d", d.pos)
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) readUint64() (uint64, error) {
	if d.remaining() < 8 {
		return 0, fmt.Errorf("types: truncated uint64 at offset %d", d.pos)
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) readBytes() ([]byte, error) {
	n, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	if d.remaining() < int(n) {
		return nil, fmt.Errorf("types: truncated byte string at offset %d", d.pos)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return out, nil
}

func (d *decoder) readFixed(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, fmt.Errorf("types: truncated fixed field at offset %d", d.pos)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}

func (d *decoder) readHash() (Hash, error) {
	b, err := d.readFixed(HashSize)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func (d *decoder) readOptionalBlockId() (*BlockId, error) {
	if d.remaining() < 1 {
		return nil, fmt.Errorf("types: truncated optional tag at offset %d", d.pos)
	}
	tag := d.buf[d.pos]
	d.pos++
	if tag == 0 {
		return nil, nil
	}
	h, err := d.readHash()
	if err != nil {
		return nil, err
	}
	return &BlockId{Hash: h}, nil
}
