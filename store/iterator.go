package store

import (
	"bytes"

	"github.com/swapvault/swapd/errors"
)

// mergeIterator combines a snapshot of cached items with the iterator of
// the parent store. Cached items shadow parent items with the same key,
// and deleted items hide them.
type mergeIterator struct {
	cached  []keyer
	idx     int
	reverse bool

	parent     Iterator
	parentDone bool
	pkey, pval []byte
	loaded     bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []keyer, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		cached:  cached,
		parent:  parent,
		reverse: reverse,
	}
}

// peek loads the next parent item if it was consumed.
func (m *mergeIterator) peek() error {
	if m.loaded || m.parentDone {
		return nil
	}
	k, v, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.parentDone = true
			return nil
		}
		return err
	}
	m.pkey, m.pval, m.loaded = k, v, true
	return nil
}

// compare orders two keys by the direction of iteration.
func (m *mergeIterator) compare(a, b []byte) int {
	c := bytes.Compare(a, b)
	if m.reverse {
		return -c
	}
	return c
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.peek(); err != nil {
			return nil, nil, err
		}
		hasCached := m.idx < len(m.cached)

		switch {
		case !hasCached && !m.loaded:
			return nil, nil, errors.ErrIteratorDone
		case !hasCached:
			m.loaded = false
			return m.pkey, m.pval, nil
		case !m.loaded:
			item := m.cached[m.idx]
			m.idx++
			if set, ok := item.(setItem); ok {
				return set.key, set.value, nil
			}
		default:
			item := m.cached[m.idx]
			c := m.compare(item.Key(), m.pkey)
			if c > 0 {
				m.loaded = false
				return m.pkey, m.pval, nil
			}
			m.idx++
			if c == 0 {
				// cached value overrides the parent
				m.loaded = false
			}
			if set, ok := item.(setItem); ok {
				return set.key, set.value, nil
			}
		}
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cached = nil
}
