package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/latticefold/sequencer/types"
)

// Recorder is the subset of metrics.Recorder the storage layer calls. A nil
// Recorder is a no-op, so unit tests need no Prometheus registry.
type Recorder interface {
	ObserveStorageOp(op string, d time.Duration)
}

// backend implements Store on top of any DB, so the volatile and durable
// backends share one CommitBlock/GetBlock/... implementation and differ
// only in how they satisfy DB.
type backend struct {
	db      DB
	metrics Recorder
}

// newBackend wraps db as a Store. metrics may be nil.
func newBackend(db DB, metrics Recorder) *backend {
	return &backend{db: db, metrics: metrics}
}

func (b *backend) observe(op string, start time.Time) {
	if b.metrics != nil {
		b.metrics.ObserveStorageOp(op, time.Since(start))
	}
}

// CommitBlock writes the block under its ID and height index in a single
// atomic batch: a crash or error leaves either both keys present or
// neither.
func (b *backend) CommitBlock(block types.Block) error {
	defer b.observe("commit_block", time.Now())
	id := block.ID()
	batch := b.db.NewBatch()
	batch.Set(blockKey(id), types.EncodeBlock(block))
	batch.Set(heightKey(block.Header.Height), id.Hash[:])
	if err := b.db.WriteBatch(batch); err != nil {
		return fmt.Errorf("storage: commit block at height %d: %w", block.Header.Height, err)
	}
	return nil
}

func (b *backend) GetBlock(id types.BlockId) (types.Block, error) {
	defer b.observe("get_block", time.Now())
	data, err := b.db.Get(blockKey(id))
	if err != nil {
		return types.Block{}, err
	}
	block, err := types.DecodeBlock(data)
	if err != nil {
		return types.Block{}, fmt.Errorf("storage: decode block %s: %w", id, err)
	}
	return block, nil
}

func (b *backend) GetBlockByHeight(height uint64) (types.Block, error) {
	defer b.observe("get_block_by_height", time.Now())
	idBytes, err := b.db.Get(heightKey(height))
	if err != nil {
		return types.Block{}, err
	}
	var h types.Hash
	copy(h[:], idBytes)
	return b.GetBlock(types.BlockId{Hash: h})
}

// LatestHeight scans the blocks_by_height partition for its highest key.
// Height keys are big-endian encoded, so lexicographic iteration order
// equals numeric order and the last key visited is the highest height.
func (b *backend) LatestHeight() (uint64, bool, error) {
	height, _, found, err := latestInPartition(b.db, prefixBlockByHeight)
	return height, found, err
}

// latestInPartition scans a height-indexed partition (keys are
// prefix||big-endian(height)) for its highest height, returning the value
// stored under that height's key alongside it.
func latestInPartition(db DB, prefix string) (height uint64, value []byte, found bool, err error) {
	it := db.NewIterator([]byte(prefix))
	defer it.Release()

	var last []byte
	for it.Next() {
		found = true
		last = append(last[:0], it.Key()...)
		value = append(value[:0], it.Value()...)
	}
	if err := it.Error(); err != nil {
		return 0, nil, false, err
	}
	if !found {
		return 0, nil, false, nil
	}
	height, err = decodeHeightKey(last, len(prefix))
	if err != nil {
		return 0, nil, false, err
	}
	return height, value, true, nil
}

func decodeHeightKey(key []byte, prefixLen int) (uint64, error) {
	if len(key) != prefixLen+8 {
		return 0, fmt.Errorf("storage: malformed height key of length %d", len(key))
	}
	return binary.BigEndian.Uint64(key[prefixLen:]), nil
}

func (b *backend) PutTx(tx types.Transaction) error {
	defer b.observe("put_tx", time.Now())
	return b.db.Set(txKey(tx.ID()), types.EncodeTransaction(tx))
}

func (b *backend) GetTx(id types.TxId) (types.Transaction, error) {
	defer b.observe("get_tx", time.Now())
	data, err := b.db.Get(txKey(id))
	if err != nil {
		return types.Transaction{}, err
	}
	tx, err := types.DecodeTransaction(data)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("storage: decode tx %s: %w", id, err)
	}
	return tx, nil
}

func (b *backend) PutStateRoot(height uint64, root types.Hash) error {
	defer b.observe("put_state_root", time.Now())
	return b.db.Set(stateRootKey(height), root[:])
}

func (b *backend) GetStateRoot(height uint64) (types.Hash, error) {
	defer b.observe("get_state_root", time.Now())
	data, err := b.db.Get(stateRootKey(height))
	if err != nil {
		return types.Hash{}, err
	}
	var root types.Hash
	copy(root[:], data)
	return root, nil
}

// LatestStateRoot returns the (height, root) pair with the maximum height
// ever put, scanning the state_roots partition the same way LatestHeight
// scans blocks_by_height. It returns ErrNotFound if the partition is empty.
func (b *backend) LatestStateRoot() (uint64, types.Hash, error) {
	defer b.observe("latest_state_root", time.Now())
	height, value, found, err := latestInPartition(b.db, prefixStateRoot)
	if err != nil {
		return 0, types.Hash{}, err
	}
	if !found {
		return 0, types.Hash{}, ErrNotFound
	}
	var root types.Hash
	copy(root[:], value)
	return height, root, nil
}

func (b *backend) Close() error {
	return b.db.Close()
}
