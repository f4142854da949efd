package orm

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Register registers the bucket under /<name> and every index under
// /<name>/<index>.
func (mb *modelBucket) Register(name string, r swapd.QueryRouter) {
	root := "/" + name
	r.Register(root, bucketQuery{mb})
	for idxName, idx := range mb.indexes {
		r.Register(root+"/"+idxName, indexQuery{mb: mb, idx: idx})
	}
}

type bucketQuery struct {
	mb *modelBucket
}

// Query returns the raw, stored values. Keys are stripped of the bucket
// prefix.
func (q bucketQuery) Query(db swapd.ReadOnlyKVStore, mod string, data []byte) ([]swapd.Model, error) {
	switch mod {
	case swapd.KeyQueryMod:
		raw, err := db.Get(q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []swapd.Model{swapd.Pair(data, raw)}, nil
	case swapd.PrefixQueryMod:
		prefix := q.mb.dbKey(data)
		it, err := db.Iterator(prefix, PrefixRangeEnd(prefix))
		if err != nil {
			return nil, err
		}
		defer it.Release()

		var res []swapd.Model
		for {
			k, v, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			if err != nil {
				return nil, err
			}
			res = append(res, swapd.Pair(k[len(q.mb.prefix):], v))
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

type indexQuery struct {
	mb  *modelBucket
	idx *nativeIndex
}

// Query returns all entities referenced by the index value in data.
func (q indexQuery) Query(db swapd.ReadOnlyKVStore, mod string, data []byte) ([]swapd.Model, error) {
	if mod != swapd.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	pks, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]swapd.Model, 0, len(pks))
	for _, pk := range pks {
		raw, err := db.Get(q.mb.dbKey(pk))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %s points to missing %X", q.idx.name, pk)
		}
		res = append(res, swapd.Pair(pk, raw))
	}
	return res, nil
}
