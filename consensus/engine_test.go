package consensus

import (
	"errors"
	"testing"

	"github.com/latticefold/sequencer/events"
	"github.com/latticefold/sequencer/mempool"
	"github.com/latticefold/sequencer/storage"
	"github.com/latticefold/sequencer/types"
)

func newTestEngine(t *testing.T) (*Engine, *mempool.Mempool, storage.Store) {
	t.Helper()
	pool := mempool.New(100, nil)
	store := storage.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	engine, err := New(pool, store, store, store, FixedClock{Millis: 1000}, events.NewBus(), nil, [32]byte{1}, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine, pool, store
}

func submitTx(t *testing.T, engine *Engine, nonce uint64) types.TxId {
	t.Helper()
	id, err := engine.SubmitTx(types.Transaction{Namespace: 1, GasPrice: 1, Nonce: nonce})
	if err != nil {
		t.Fatalf("SubmitTx: %v", err)
	}
	return id
}

func TestStepProducesSingleBlock(t *testing.T) {
	engine, _, store := newTestEngine(t)
	submitTx(t, engine, 0)

	ev, err := engine.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if ev.Block.Header.Height != 1 {
		t.Errorf("height: got %d want 1", ev.Block.Header.Height)
	}
	if ev.Block.Header.Parent != nil {
		t.Error("the first block should have a nil parent")
	}
	if _, err := store.GetBlock(ev.Block.ID()); err != nil {
		t.Errorf("GetBlock: %v", err)
	}
}

func TestStepHeightsAreMonotone(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	var lastID types.BlockId
	for i := uint64(0); i < 3; i++ {
		submitTx(t, engine, i)
		ev, err := engine.Step()
		if err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if ev.Block.Header.Height != i+1 {
			t.Errorf("step %d height: got %d want %d", i, ev.Block.Header.Height, i+1)
		}
		if i > 0 {
			if ev.Block.Header.Parent == nil || *ev.Block.Header.Parent != lastID {
				t.Errorf("step %d: parent does not chain to the previous block", i)
			}
		}
		lastID = ev.Block.ID()
	}
	if engine.LastHeight() != 3 {
		t.Errorf("LastHeight: got %d want 3", engine.LastHeight())
	}
}

func TestStepNoOpOnEmptyMempoolStillAdvancesView(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	viewBefore := engine.View()
	_, err := engine.Step()
	if err != ErrNoBatch {
		t.Fatalf("Step on empty mempool: got %v want ErrNoBatch", err)
	}
	if engine.View() != viewBefore+1 {
		t.Errorf("view should still advance on a no-op step: got %d want %d", engine.View(), viewBefore+1)
	}
	if engine.LastHeight() != 0 {
		t.Error("a no-op step must not advance the tip")
	}
}

func TestStepDoesNotRemoveCommittedTxsFromMempool(t *testing.T) {
	engine, pool, _ := newTestEngine(t)
	id := submitTx(t, engine, 0)
	if _, err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !pool.Contains(id) {
		t.Error("Step must not remove committed transactions from the mempool; that is an external caller's job")
	}
}

func TestRemoveCommittedEvictsFromMempool(t *testing.T) {
	engine, pool, _ := newTestEngine(t)
	id := submitTx(t, engine, 0)
	ev, err := engine.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	engine.RemoveCommitted(ev.Block.Txs)
	if pool.Contains(id) {
		t.Error("RemoveCommitted should evict the committed transaction from the mempool")
	}
}

func TestStepRespectsBatchSize(t *testing.T) {
	pool := mempool.New(100, nil)
	store := storage.NewMemory(nil)
	defer store.Close()
	engine, err := New(pool, store, store, store, FixedClock{Millis: 1}, events.NewBus(), nil, [32]byte{1}, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := uint64(0); i < 5; i++ {
		submitTx(t, engine, i)
	}
	ev, err := engine.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(ev.Block.Txs) != 2 {
		t.Errorf("block tx count: got %d want 2 (batchSize)", len(ev.Block.Txs))
	}
	if pool.Len() != 5 {
		t.Errorf("Step does not remove transactions, so the mempool should still hold all of them: got %d want 5", pool.Len())
	}
}

func TestStepEmitsFinalityEvent(t *testing.T) {
	pool := mempool.New(100, nil)
	store := storage.NewMemory(nil)
	defer store.Close()
	bus := events.NewBus()

	var received events.FinalityEvent
	got := false
	bus.Subscribe(func(ev events.FinalityEvent) {
		received = ev
		got = true
	})

	engine, err := New(pool, store, store, store, FixedClock{Millis: 42}, bus, nil, [32]byte{9}, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.SubmitTx(types.Transaction{Namespace: 1, GasPrice: 1, Nonce: 0}); err != nil {
		t.Fatalf("SubmitTx: %v", err)
	}
	ev, err := engine.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !got {
		t.Fatal("subscriber never received a FinalityEvent")
	}
	if received.Block.ID() != ev.Block.ID() {
		t.Error("emitted event does not match the block Step returned")
	}
}

func TestSubmitTxPersistsAndInsertsIntoMempool(t *testing.T) {
	engine, pool, store := newTestEngine(t)
	tx := types.Transaction{Namespace: 1, GasPrice: 1, Nonce: 0}
	id, err := engine.SubmitTx(tx)
	if err != nil {
		t.Fatalf("SubmitTx: %v", err)
	}
	if !pool.Contains(id) {
		t.Error("SubmitTx should insert the transaction into the mempool")
	}
	if _, err := store.GetTx(id); err != nil {
		t.Errorf("SubmitTx should persist the transaction body: %v", err)
	}
}

// failingBlockStore always fails CommitBlock, to exercise Step's abort path.
type failingBlockStore struct {
	storage.BlockStore
}

var errCommitFailed = errors.New("commit failed")

func (f *failingBlockStore) CommitBlock(types.Block) error {
	return errCommitFailed
}

func TestStepAbortsTipOnStorageFailure(t *testing.T) {
	pool := mempool.New(100, nil)
	backing := storage.NewMemory(nil)
	defer backing.Close()
	failing := &failingBlockStore{BlockStore: backing}

	engine, err := New(pool, failing, backing, backing, FixedClock{Millis: 1}, events.NewBus(), nil, [32]byte{1}, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := submitTx(t, engine, 0)

	if _, err := engine.Step(); err == nil {
		t.Fatal("Step should fail when CommitBlock fails")
	}
	if engine.LastHeight() != 0 {
		t.Error("a failed Step must not advance the tip")
	}
	if !pool.Contains(id) {
		t.Error("a failed Step must not remove the transaction from the mempool")
	}
}

func TestRestartBootstrapsFromLatestHeight(t *testing.T) {
	pool := mempool.New(100, nil)
	store := storage.NewMemory(nil)
	defer store.Close()

	engine1, err := New(pool, store, store, store, FixedClock{Millis: 1}, events.NewBus(), nil, [32]byte{1}, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	submitTx(t, engine1, 0)
	ev, err := engine1.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	engine2, err := New(pool, store, store, store, FixedClock{Millis: 2}, events.NewBus(), nil, [32]byte{1}, 10)
	if err != nil {
		t.Fatalf("New (restart): %v", err)
	}
	if engine2.LastHeight() != ev.Block.Header.Height {
		t.Errorf("restarted engine height: got %d want %d", engine2.LastHeight(), ev.Block.Header.Height)
	}

	submitTx(t, engine2, 1)
	ev2, err := engine2.Step()
	if err != nil {
		t.Fatalf("Step after restart: %v", err)
	}
	if ev2.Block.Header.Parent == nil || *ev2.Block.Header.Parent != ev.Block.ID() {
		t.Error("restarted engine should extend the chain from the persisted tip")
	}
}
