// Package storage provides the dual-backend persistence layer: an
// in-memory volatile backend and a LevelDB-backed durable backend, both
// implementing the same BlockStore, TxStore and StateRootStore contracts.
package storage

import (
	"encoding/binary"
	"errors"

	"github.com/latticefold/sequencer/types"
)

// ErrNotFound is returned when a requested object does not exist in
// storage.
var ErrNotFound = errors.New("storage: not found")

// Batch is an atomic write buffer: all operations queued on a Batch are
// applied together by CommitBlock, or not at all.
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
}

// DB is the generic key-value interface shared by both backends. NewBatch
// returns a buffer that WriteBatch later applies atomically.
type DB interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	NewIterator(prefix []byte) Iterator
	NewBatch() Batch
	WriteBatch(b Batch) error
	Close() error
}

// Iterator walks key-value pairs matching a prefix in lexicographic key
// order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Key prefixes partition the keyspace into exactly four logical areas:
// blocks by ID, blocks by height, transaction bodies, and state roots.
// No fifth partition is ever introduced.
const (
	prefixBlockByID     = "blk:"
	prefixBlockByHeight = "hgt:"
	prefixTx            = "tx:"
	prefixStateRoot     = "sr:"
)

func blockKey(id types.BlockId) []byte {
	return append([]byte(prefixBlockByID), id.Hash[:]...)
}

func heightKey(height uint64) []byte {
	key := make([]byte, len(prefixBlockByHeight)+8)
	copy(key, prefixBlockByHeight)
	binary.BigEndian.PutUint64(key[len(prefixBlockByHeight):], height)
	return key
}

func txKey(id types.TxId) []byte {
	return append([]byte(prefixTx), id.Hash[:]...)
}

// stateRootKey mirrors heightKey's big-endian encoding, so LatestStateRoot
// can find the maximum height the same way LatestHeight does.
func stateRootKey(height uint64) []byte {
	key := make([]byte, len(prefixStateRoot)+8)
	copy(key, prefixStateRoot)
	binary.BigEndian.PutUint64(key[len(prefixStateRoot):], height)
	return key
}

// BlockStore persists committed blocks and the height index over them.
type BlockStore interface {
	// CommitBlock atomically writes the block and its height index entry.
	CommitBlock(block types.Block) error
	GetBlock(id types.BlockId) (types.Block, error)
	GetBlockByHeight(height uint64) (types.Block, error)
	// LatestHeight returns the height of the highest committed block, and
	// false if no block has ever been committed. It lets a restarted
	// process bootstrap its chain tip from blocks_by_height alone, without
	// a dedicated fifth partition.
	LatestHeight() (uint64, bool, error)
}

// TxStore persists transaction bodies, keyed by content-addressed ID.
type TxStore interface {
	PutTx(tx types.Transaction) error
	GetTx(id types.TxId) (types.Transaction, error)
}

// StateRootStore persists the opaque state root associated with each
// committed height.
type StateRootStore interface {
	PutStateRoot(height uint64, root types.Hash) error
	GetStateRoot(height uint64) (types.Hash, error)
	// LatestStateRoot returns the (height, root) pair with the maximum
	// height ever put, or ErrNotFound if no state root has ever been put.
	LatestStateRoot() (uint64, types.Hash, error)
}

// Store bundles the three contracts a single backend satisfies together.
type Store interface {
	BlockStore
	TxStore
	StateRootStore
	Close() error
}
