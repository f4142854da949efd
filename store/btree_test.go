package store

import (
	"testing"

	"github.com/swapvault/swapd/swaptest/assert"
)

func TestMemStoreCacheWrap(t *testing.T) {
	runCacheWrapSuite(t, MemStore())
}

func TestNestedCacheWrap(t *testing.T) {
	db := MemStore()
	outer := db.CacheWrap()
	assert.Nil(t, outer.Set([]byte("k"), []byte("outer")))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set([]byte("k"), []byte("inner")))
	assert.Nil(t, inner.Set([]byte("j"), []byte("inner")))
	inner.Discard()

	val, err := outer.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("outer"), val)

	inner = outer.CacheWrap()
	assert.Nil(t, inner.Delete([]byte("k")))
	assert.Nil(t, inner.Write())

	has, err := outer.Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	// nothing reached the root yet
	has, err = db.Has([]byte("j"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestBatchShowsOps(t *testing.T) {
	b := NewNonAtomicBatch(EmptyKVStore{})
	assert.Nil(t, b.Set([]byte("a"), []byte("1")))
	assert.Nil(t, b.Delete([]byte("b")))

	ops := b.ShowOps()
	if len(ops) != 2 {
		t.Fatalf("want 2 ops, got %d", len(ops))
	}
	assert.Equal(t, true, ops[0].IsSetOp())
	assert.Equal(t, []byte("1"), ops[0].Value())
	assert.Equal(t, false, ops[1].IsSetOp())
	assert.Equal(t, []byte("b"), ops[1].Key())

	assert.Nil(t, b.Write())
	assert.Equal(t, 0, len(b.ShowOps()))
}
