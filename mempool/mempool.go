// Package mempool holds pending transactions ahead of block production: a
// FIFO admission order, a per-namespace index, and a capacity bound, with
// batch extraction ordered by descending gas price and ascending insertion
// order.
package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/latticefold/sequencer/types"
)

// ErrFull is returned by Insert when the pool is at capacity.
var ErrFull = errors.New("mempool: full")

type entry struct {
	tx    types.Transaction
	id    types.TxId
	order uint64
}

// Recorder is the subset of metrics.Recorder the mempool calls. A nil
// Recorder value is a no-op, so unit tests need no Prometheus registry.
type Recorder interface {
	IncTxSubmitted()
	SetMempoolSize(n int)
}

// Mempool is a thread-safe pending-transaction pool bounded by MaxSize.
type Mempool struct {
	mu      sync.RWMutex
	MaxSize int
	metrics Recorder

	byID      map[types.TxId]*entry
	byNS      map[types.NamespaceId]map[types.TxId]struct{}
	nextOrder uint64
}

// New creates an empty mempool bounded at maxSize transactions. metrics may
// be nil.
func New(maxSize int, metrics Recorder) *Mempool {
	return &Mempool{
		MaxSize: maxSize,
		metrics: metrics,
		byID:    make(map[types.TxId]*entry),
		byNS:    make(map[types.NamespaceId]map[types.TxId]struct{}),
	}
}

// Insert admits tx into the pool. Insert is idempotent: re-inserting a tx
// already present by ID is a no-op that returns nil. Returns ErrFull if the
// pool is at capacity and tx is not already present.
func (m *Mempool) Insert(tx types.Transaction) (types.TxId, error) {
	id := tx.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[id]; exists {
		return id, nil
	}
	if len(m.byID) >= m.MaxSize {
		return types.TxId{}, ErrFull
	}

	e := &entry{tx: tx, id: id, order: m.nextOrder}
	m.nextOrder++
	m.byID[id] = e

	ns := m.byNS[tx.Namespace]
	if ns == nil {
		ns = make(map[types.TxId]struct{})
		m.byNS[tx.Namespace] = ns
	}
	ns[id] = struct{}{}
	size := len(m.byID)

	if m.metrics != nil {
		m.metrics.IncTxSubmitted()
		m.metrics.SetMempoolSize(size)
	}

	return id, nil
}

// Len returns the number of transactions currently pending.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// NamespaceLen returns the number of transactions pending for ns.
func (m *Mempool) NamespaceLen(ns types.NamespaceId) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byNS[ns])
}

// Contains reports whether id is currently pending.
func (m *Mempool) Contains(id types.TxId) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byID[id]
	return ok
}

// GetBatch returns up to maxTxs pending transactions ordered by descending
// gas price, breaking ties by ascending insertion order. GetBatch does not
// mutate the pool; committing the returned batch requires a separate
// RemoveCommitted call.
func (m *Mempool) GetBatch(maxTxs int) []types.Transaction {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.byID))
	for _, e := range m.byID {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].tx.GasPrice != entries[j].tx.GasPrice {
			return entries[i].tx.GasPrice > entries[j].tx.GasPrice
		}
		return entries[i].order < entries[j].order
	})

	if maxTxs >= 0 && len(entries) > maxTxs {
		entries = entries[:maxTxs]
	}

	out := make([]types.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.tx
	}
	return out
}

// RemoveCommitted removes the given transaction IDs from the pool, e.g.
// after they have been included in a committed block. IDs not present are
// silently ignored.
func (m *Mempool) RemoveCommitted(ids []types.TxId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		e, ok := m.byID[id]
		if !ok {
			continue
		}
		delete(m.byID, id)
		if ns := m.byNS[e.tx.Namespace]; ns != nil {
			delete(ns, id)
			if len(ns) == 0 {
				delete(m.byNS, e.tx.Namespace)
			}
		}
	}
	if m.metrics != nil {
		m.metrics.SetMempoolSize(len(m.byID))
	}
}
