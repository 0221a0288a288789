package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelDB implements DB using an on-disk LevelDB database, giving the
// durable backend crash-resistant persistence between process restarts.
type levelDB struct {
	db *leveldb.DB
}

// NewDurable opens (creating if absent) a LevelDB database at path and
// wraps it as a durable Store. metrics may be nil.
func NewDurable(path string, metrics Recorder) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open leveldb %q: %w", path, err)
	}
	return newBackend(&levelDB{db: db}, metrics), nil
}

func (l *levelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (l *levelDB) Set(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *levelDB) NewIterator(prefix []byte) Iterator {
	return &levelIterator{it: l.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

func (l *levelDB) NewBatch() Batch {
	return &levelBatch{batch: new(leveldb.Batch)}
}

func (l *levelDB) WriteBatch(b Batch) error {
	lb, ok := b.(*levelBatch)
	if !ok {
		return errBatchType
	}
	return l.db.Write(lb.batch, nil)
}

func (l *levelDB) Close() error {
	return l.db.Close()
}

type levelBatch struct {
	batch *leveldb.Batch
}

func (b *levelBatch) Set(key, value []byte) { b.batch.Put(key, value) }
func (b *levelBatch) Delete(key []byte)     { b.batch.Delete(key) }

type levelIterator struct {
	it iterator.Iterator
}

func (it *levelIterator) Next() bool    { return it.it.Next() }
func (it *levelIterator) Key() []byte   { return it.it.Key() }
func (it *levelIterator) Value() []byte { return it.it.Value() }
func (it *levelIterator) Release()      { it.it.Release() }
func (it *levelIterator) Error() error  { return it.it.Error() }
