package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

const indexPrefix = "_i."

// nativeIndex keeps one empty entry per (index value, primary key) pair:
//
//	_i.<bucket>_<index>:<len(value) BE16><value><primary key>
//
// Two entities indexed under the same value never share a database key, so
// updating one does not touch the data read by the other.
type nativeIndex struct {
	name    string
	prefix  []byte
	indexer Indexer
}

func newNativeIndex(bucket, name string, indexer Indexer) *nativeIndex {
	return &nativeIndex{
		name:    name,
		prefix:  []byte(indexPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

func (i *nativeIndex) valuePrefix(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+2+len(value))
	out = append(out, i.prefix...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(value)))
	return append(out, value...)
}

func (i *nativeIndex) entry(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

// update moves the reference of pk from the prev index value to the value
// of next. Either model may be nil.
func (i *nativeIndex) update(db swapd.KVStore, pk []byte, prev, next Model) error {
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if after, err = i.indexer(next); err != nil {
			return err
		}
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := db.Delete(i.entry(before, pk)); err != nil {
			return err
		}
	}
	if after != nil {
		if len(after) > 0xFFFF {
			return errors.Wrap(errors.ErrInput, "index value too long")
		}
		if err := db.Set(i.entry(after, pk), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

// keys returns all primary keys indexed under value, in ascending order.
func (i *nativeIndex) keys(db swapd.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	it, err := db.Iterator(prefix, PrefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var pks [][]byte
	for {
		k, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return pks, nil
		}
		if err != nil {
			return nil, err
		}
		pks = append(pks, append([]byte(nil), k[len(prefix):]...))
	}
}

// PrefixRangeEnd returns the exclusive end of the range of all keys
// starting with prefix. Nil means no upper bound.
func PrefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
