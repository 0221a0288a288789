package storage

import (
	"bytes"
	"errors"
	"sort"
	"sync"
)

var errBatchType = errors.New("storage: batch from a different backend")

// memDB is a volatile, in-memory implementation of DB. It is safe for
// concurrent use and never touches disk; all data is lost on process exit.
type memDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory constructs a volatile Store backed entirely by an in-process
// map. metrics may be nil.
func NewMemory(metrics Recorder) Store {
	return newBackend(&memDB{data: make(map[string][]byte)}, metrics)
}

func (m *memDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memDB) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[string(key)] = v
	return nil
}

func (m *memDB) NewIterator(prefix []byte) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	snapshot := make(map[string][]byte, len(keys))
	for _, k := range keys {
		snapshot[k] = m.data[k]
	}

	return &memIterator{keys: keys, values: snapshot, pos: -1}
}

type memBatch struct {
	sets    map[string][]byte
	deletes map[string]struct{}
	order   []string
}

func (m *memDB) NewBatch() Batch {
	return &memBatch{
		sets:    make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (b *memBatch) Set(key, value []byte) {
	k := string(key)
	delete(b.deletes, k)
	if _, exists := b.sets[k]; !exists {
		b.order = append(b.order, k)
	}
	v := make([]byte, len(value))
	copy(v, value)
	b.sets[k] = v
}

func (b *memBatch) Delete(key []byte) {
	k := string(key)
	delete(b.sets, k)
	b.deletes[k] = struct{}{}
	b.order = append(b.order, k)
}

func (m *memDB) WriteBatch(b Batch) error {
	mb, ok := b.(*memBatch)
	if !ok {
		return errBatchType
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range mb.order {
		if v, ok := mb.sets[k]; ok {
			m.data[k] = v
			continue
		}
		if _, ok := mb.deletes[k]; ok {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *memDB) Close() error { return nil }

type memIterator struct {
	keys   []string
	values map[string][]byte
	pos    int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *memIterator) Key() []byte   { return []byte(it.keys[it.pos]) }
func (it *memIterator) Value() []byte { return it.values[it.keys[it.pos]] }
func (it *memIterator) Release()      {}
func (it *memIterator) Error() error  { return nil }
