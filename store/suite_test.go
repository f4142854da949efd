package store

import (
	"testing"

	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest/assert"
)

// collect drains the iterator into a list of models.
func collect(t testing.TB, it Iterator, err error) []Model {
	t.Helper()
	assert.Nil(t, err)
	defer it.Release()

	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res = append(res, Model{Key: k, Value: v})
	}
}

func pairs(kv ...string) []Model {
	var res []Model
	for i := 0; i+1 < len(kv); i += 2 {
		res = append(res, Model{Key: []byte(kv[i]), Value: []byte(kv[i+1])})
	}
	return res
}

// runCacheWrapSuite runs the same checks against any cacheable store.
// base must be empty.
func runCacheWrapSuite(t *testing.T, base CacheableKVStore) {
	t.Helper()

	assert.Nil(t, base.Set([]byte("a"), []byte("1")))
	assert.Nil(t, base.Set([]byte("c"), []byte("3")))
	assert.Nil(t, base.Set([]byte("e"), []byte("5")))

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("2")))
	assert.Nil(t, cache.Delete([]byte("c")))
	assert.Nil(t, cache.Set([]byte("e"), []byte("five")))

	val, err := cache.Get([]byte("e"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("five"), val)

	has, err := cache.Has([]byte("c"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, pairs("a", "1", "b", "2", "e", "five"), collect(t, it, err))

	it, err = cache.Iterator([]byte("b"), []byte("e"))
	assert.Equal(t, pairs("b", "2"), collect(t, it, err))

	it, err = cache.ReverseIterator(nil, nil)
	assert.Equal(t, pairs("e", "five", "b", "2", "a", "1"), collect(t, it, err))

	it, err = cache.ReverseIterator([]byte("a"), []byte("e"))
	assert.Equal(t, pairs("b", "2", "a", "1"), collect(t, it, err))

	// parent is untouched until write
	val, err = base.Get([]byte("c"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("3"), val)

	assert.Nil(t, cache.Write())

	it, err = base.Iterator(nil, nil)
	assert.Equal(t, pairs("a", "1", "b", "2", "e", "five"), collect(t, it, err))

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("z"), []byte("26")))
	discarded.Discard()

	has, err = base.Has([]byte("z"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
