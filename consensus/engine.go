// Package consensus implements the step-driven, single-validator proposer:
// each call to Step pulls one batch from the mempool, builds a block
// extending the current tip, persists it, and emits a finality event. There
// is no Byzantine fault tolerance; the quorum certificate is synthetic.
package consensus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/latticefold/sequencer/events"
	"github.com/latticefold/sequencer/mempool"
	"github.com/latticefold/sequencer/storage"
	"github.com/latticefold/sequencer/types"
)

// Clock abstracts wall-clock reads so tests can drive deterministic
// timestamps.
type Clock interface {
	NowMillis() uint64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// NowMillis returns the current Unix time in milliseconds.
func (SystemClock) NowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// FixedClock is a test-only Clock that always returns a set value.
type FixedClock struct {
	Millis uint64
}

// NowMillis returns the fixed value.
func (c FixedClock) NowMillis() uint64 { return c.Millis }

// Error wraps a lower-layer failure encountered during SubmitTx or Step,
// preserving which subsystem it came from.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("consensus: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// zeroStateRoot is the hash of a 32-byte all-zero buffer, used as the state
// root placeholder until an execution layer computes a real one.
var zeroStateRoot = types.HashBytes(make([]byte, 32))

// Engine is the step-driven proposer for one validator. All exported
// methods serialize through a single lock held across one whole SubmitTx
// or one whole Step call.
type Engine struct {
	mu sync.Mutex

	mempool *mempool.Mempool
	blocks  storage.BlockStore
	txs     storage.TxStore
	roots   storage.StateRootStore
	clock   Clock
	bus     *events.Bus
	metrics Recorder

	validatorID [32]byte
	batchSize   int
	view        types.ViewNumber
	lastBlockID *types.BlockId
	lastHeight  uint64
}

// Recorder is the subset of metrics.Recorder the engine calls. It is
// satisfied by a nil interface value, which every method treats as a no-op,
// so unit tests need no Prometheus registry.
type Recorder interface {
	ObserveStepDuration(d time.Duration)
	IncBlocksCommitted()
	IncTxsCommitted(n int)
}

// New constructs an Engine for validatorID. If blocks already has committed
// blocks, New bootstraps lastHeight/lastBlockID from BlockStore.LatestHeight
// so the chain continues from where a previous process left off.
func New(
	pool *mempool.Mempool,
	blocks storage.BlockStore,
	txs storage.TxStore,
	roots storage.StateRootStore,
	clock Clock,
	bus *events.Bus,
	metrics Recorder,
	validatorID [32]byte,
	batchSize int,
) (*Engine, error) {
	e := &Engine{
		mempool:     pool,
		blocks:      blocks,
		txs:         txs,
		roots:       roots,
		clock:       clock,
		bus:         bus,
		metrics:     metrics,
		validatorID: validatorID,
		batchSize:   batchSize,
	}

	height, ok, err := blocks.LatestHeight()
	if err != nil {
		return nil, &Error{Op: "bootstrap", Err: err}
	}
	if ok {
		block, err := blocks.GetBlockByHeight(height)
		if err != nil {
			return nil, &Error{Op: "bootstrap", Err: err}
		}
		id := block.ID()
		e.lastHeight = height
		e.lastBlockID = &id
	}
	return e, nil
}

// SubmitTx persists tx's body to the TxStore and inserts it into the
// mempool. Persisting before insertion keeps GetTx working for any
// transaction a block ever references, even after an external caller
// removes it from the mempool via RemoveCommitted.
func (e *Engine) SubmitTx(tx types.Transaction) (types.TxId, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.txs.PutTx(tx); err != nil {
		return types.TxId{}, &Error{Op: "submit_tx", Err: err}
	}
	id, err := e.mempool.Insert(tx)
	if err != nil {
		return types.TxId{}, &Error{Op: "submit_tx", Err: err}
	}
	return id, nil
}

// ErrNoBatch is returned by Step when the mempool has nothing to propose.
// It is not a failure: view still advances, but no block is produced.
var ErrNoBatch = errors.New("consensus: mempool empty, no block proposed")

// Step runs one proposer round. It always advances view, even when it
// returns ErrNoBatch. A Storage failure aborts the round without advancing
// the tip; the same batch is re-proposed on the next Step.
//
// Step never removes the committed transactions from the mempool itself —
// they remain there until an external component calls RemoveCommitted.
// Until then, every transaction a Step included stays eligible for later
// batches and is included again in subsequent blocks, so the same TxId can
// appear in more than one committed block.
func (e *Engine) Step() (events.FinalityEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ObserveStepDuration(time.Since(start))
		}
	}()

	e.view++

	batch := e.mempool.GetBatch(e.batchSize)
	if len(batch) == 0 {
		return events.FinalityEvent{}, ErrNoBatch
	}

	txIDs := make([]types.TxId, len(batch))
	for i, tx := range batch {
		txIDs[i] = tx.ID()
	}
	txRoot := types.MerkleRoot(txIDs)

	header := types.BlockHeader{
		Height:      e.lastHeight + 1,
		Parent:      e.lastBlockID,
		TxRoot:      txRoot,
		StateRoot:   zeroStateRoot,
		TimestampMs: e.clock.NowMillis(),
		Proposer:    e.validatorID,
	}
	block := types.Block{Header: header, Txs: txIDs}

	if err := e.blocks.CommitBlock(block); err != nil {
		return events.FinalityEvent{}, &Error{Op: "step", Err: err}
	}

	blockID := block.ID()
	if err := e.roots.PutStateRoot(header.Height, header.StateRoot); err != nil {
		return events.FinalityEvent{}, &Error{Op: "step", Err: err}
	}

	e.lastBlockID = &blockID
	e.lastHeight = header.Height

	if e.metrics != nil {
		e.metrics.IncBlocksCommitted()
		e.metrics.IncTxsCommitted(len(batch))
	}

	ev := events.FinalityEvent{Block: block, View: e.view}
	if e.bus != nil {
		e.bus.Emit(ev)
	}
	return ev, nil
}

// View returns the engine's current view number.
func (e *Engine) View() types.ViewNumber {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// LastHeight returns the height of the most recently committed block, or 0
// if none has been committed.
func (e *Engine) LastHeight() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastHeight
}

// RemoveCommitted evicts ids from the mempool. Step never calls this
// itself; the proposer never calls mempool.remove_committed, so a driver
// that wants committed transactions evicted must call this explicitly,
// typically with the Txs of the block a successful Step just returned.
func (e *Engine) RemoveCommitted(ids []types.TxId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mempool.RemoveCommitted(ids)
}
