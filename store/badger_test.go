package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest/assert"
)

func newTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := NewBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestBadgerCacheWrap(t *testing.T) {
	db := newTestBadger(t)

	// run the suite inside a single transaction; its savepoint is a btree
	txn := db.CacheWrap()
	runCacheWrapSuite(t, txn)
	require.NoError(t, txn.Write())

	it, err := db.Iterator(nil, nil)
	assert.Equal(t, pairs("a", "1", "b", "2", "e", "five"), collect(t, it, err))

	it, err = db.ReverseIterator([]byte("b"), nil)
	assert.Equal(t, pairs("e", "five", "b", "2"), collect(t, it, err))
}

func TestBadgerPersistsOnlyOnWrite(t *testing.T) {
	db := newTestBadger(t)

	txn := db.CacheWrap()
	require.NoError(t, txn.Set([]byte("key"), []byte("value")))

	val, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, val)

	require.NoError(t, txn.Write())
	txn.Discard()

	val, err = db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), val)
}

func TestBadgerConflictingWrites(t *testing.T) {
	db := newTestBadger(t)

	seed := db.CacheWrap()
	require.NoError(t, seed.Set([]byte("trade"), []byte("open")))
	require.NoError(t, seed.Write())

	first := db.CacheWrap()
	second := db.CacheWrap()

	// both observe the open trade
	for _, txn := range []KVCacheWrap{first, second} {
		val, err := txn.Get([]byte("trade"))
		require.NoError(t, err)
		require.Equal(t, []byte("open"), val)
		require.NoError(t, txn.Delete([]byte("trade")))
	}

	require.NoError(t, first.Write())
	err := second.Write()
	assert.IsErr(t, errors.ErrConflict, err)
	second.Discard()

	has, err := db.Has([]byte("trade"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestBadgerDisjointWritesDoNotConflict(t *testing.T) {
	db := newTestBadger(t)

	first := db.CacheWrap()
	second := db.CacheWrap()

	_, err := first.Get([]byte("a"))
	require.NoError(t, err)
	require.NoError(t, first.Set([]byte("a"), []byte("1")))

	_, err = second.Get([]byte("b"))
	require.NoError(t, err)
	require.NoError(t, second.Set([]byte("b"), []byte("2")))

	require.NoError(t, first.Write())
	require.NoError(t, second.Write())
}
