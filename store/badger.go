package store

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/swapvault/swapd/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// BadgerStore is a persistent CommitKVStore. Every unit of work is an
// optimistic badger transaction: reads are tracked, and a commit fails with
// ErrConflict when any key read was changed by a transaction that committed
// first. This is what makes two racing updates of the same record exclusive.
type BadgerStore struct {
	db *badger.DB
}

var _ CommitKVStore = (*BadgerStore)(nil)

// BadgerConfig configures the database location.
type BadgerConfig struct {
	// Dir is where data and value log files are kept.
	Dir string
	// InMemory keeps everything in memory, Dir is ignored.
	InMemory bool
	// Logger receives badger's own log lines. Nil discards them.
	Logger log.Logger
}

// NewBadgerStore opens (or creates) the database.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger.With("module", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open badger: %s", err)
	}
	return &BadgerStore{db: db}, nil
}

// CacheWrap begins a read-write transaction over the latest committed state.
func (s *BadgerStore) CacheWrap() KVCacheWrap {
	return &badgerTxn{txn: s.db.NewTransaction(true)}
}

// Get reads the latest committed value.
func (s *BadgerStore) Get(key []byte) ([]byte, error) {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	return txnGet(txn, key)
}

// Has checks the latest committed state.
func (s *BadgerStore) Has(key []byte) (bool, error) {
	val, err := s.Get(key)
	return val != nil, err
}

// Iterator over committed data. The read transaction is kept open until
// the iterator is released.
func (s *BadgerStore) Iterator(start, end []byte) (Iterator, error) {
	txn := s.db.NewTransaction(false)
	return newBadgerIterator(txn, start, end, false, true), nil
}

// ReverseIterator over committed data, in descending order.
func (s *BadgerStore) ReverseIterator(start, end []byte) (Iterator, error) {
	txn := s.db.NewTransaction(false)
	return newBadgerIterator(txn, start, end, true, true), nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close badger: %s", err)
	}
	return nil
}

// badgerTxn is a single unit of work.
type badgerTxn struct {
	txn *badger.Txn
}

var _ KVCacheWrap = (*badgerTxn)(nil)

func (t *badgerTxn) Get(key []byte) ([]byte, error) {
	return txnGet(t.txn, key)
}

func (t *badgerTxn) Has(key []byte) (bool, error) {
	val, err := txnGet(t.txn, key)
	return val != nil, err
}

func (t *badgerTxn) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	// badger keeps references until commit
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	if err := t.txn.Set(k, v); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set: %s", err)
	}
	return nil
}

func (t *badgerTxn) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	if err := t.txn.Delete(append([]byte(nil), key...)); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete: %s", err)
	}
	return nil
}

func (t *badgerTxn) Iterator(start, end []byte) (Iterator, error) {
	return newBadgerIterator(t.txn, start, end, false, false), nil
}

func (t *badgerTxn) ReverseIterator(start, end []byte) (Iterator, error) {
	return newBadgerIterator(t.txn, start, end, true, false), nil
}

// NewBatch writes into the transaction, which is atomic on its own.
func (t *badgerTxn) NewBatch() Batch {
	return NewNonAtomicBatch(t)
}

// CacheWrap places a savepoint on top of this transaction.
func (t *badgerTxn) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(t, t.NewBatch(), nil)
}

// Write commits the transaction.
func (t *badgerTxn) Write() error {
	switch err := t.txn.Commit(); {
	case err == nil:
		return nil
	case err == badger.ErrConflict:
		return errors.Wrap(errors.ErrConflict, "commit")
	default:
		return errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
}

// Discard drops all changes. It is safe to call after Write.
func (t *badgerTxn) Discard() {
	t.txn.Discard()
}

func txnGet(txn *badger.Txn, key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	item, err := txn.Get(key)
	switch {
	case err == badger.ErrKeyNotFound:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "value: %s", err)
	}
	return val, nil
}

// badgerIterator walks [start, end) of a transaction. Items read through
// it are part of the transaction read set.
type badgerIterator struct {
	txn     *badger.Txn
	owned   bool
	it      *badger.Iterator
	start   []byte
	end     []byte
	reverse bool
	started bool
}

func newBadgerIterator(txn *badger.Txn, start, end []byte, reverse, owned bool) *badgerIterator {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	return &badgerIterator{
		txn:     txn,
		owned:   owned,
		it:      txn.NewIterator(opts),
		start:   start,
		end:     end,
		reverse: reverse,
	}
}

func (b *badgerIterator) seek() {
	b.started = true
	switch {
	case !b.reverse && b.start == nil:
		b.it.Rewind()
	case !b.reverse:
		b.it.Seek(b.start)
	case b.end == nil:
		b.it.Rewind()
	default:
		// largest key <= end, end itself is excluded below
		b.it.Seek(b.end)
		if b.it.Valid() && bytes.Equal(b.it.Item().Key(), b.end) {
			b.it.Next()
		}
	}
}

func (b *badgerIterator) inRange(key []byte) bool {
	if b.reverse {
		return b.start == nil || bytes.Compare(key, b.start) >= 0
	}
	return b.end == nil || bytes.Compare(key, b.end) < 0
}

func (b *badgerIterator) Next() (key, value []byte, err error) {
	if !b.started {
		b.seek()
	} else if b.it.Valid() {
		b.it.Next()
	}
	if !b.it.Valid() {
		return nil, nil, errors.ErrIteratorDone
	}
	item := b.it.Item()
	if !b.inRange(item.Key()) {
		return nil, nil, errors.ErrIteratorDone
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrDatabase, "value: %s", err)
	}
	return item.KeyCopy(nil), val, nil
}

func (b *badgerIterator) Release() {
	b.it.Close()
	if b.owned {
		b.txn.Discard()
	}
}

// badgerLogger routes badger logs into the application logger.
type badgerLogger struct {
	log.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...), "level", "warning")
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}
