package orm

import (
	"encoding/json"
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest/assert"
)

type note struct {
	Owner string
	Text  string
}

func (n *note) Marshal() ([]byte, error)   { return json.Marshal(n) }
func (n *note) Unmarshal(raw []byte) error { return json.Unmarshal(raw, n) }

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type other struct{ note }

func byOwner(m Model) ([]byte, error) {
	n, ok := m.(*note)
	if !ok {
		return nil, errors.ErrType
	}
	if n.Owner == "" {
		return nil, nil
	}
	return []byte(n.Owner), nil
}

func newNoteBucket() ModelBucket {
	return NewModelBucket("notes", &note{}, WithIndex("owner", byOwner))
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket()

	assert.Nil(t, b.Put(db, []byte("n1"), &note{Owner: "alice", Text: "hello"}))

	var got note
	assert.Nil(t, b.One(db, []byte("n1"), &got))
	assert.Equal(t, note{Owner: "alice", Text: "hello"}, got)
	assert.Nil(t, b.Has(db, []byte("n1")))

	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("n2"), &got))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("n2")))
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("n1"), &other{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, []byte("n3"), &note{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &note{Text: "x"}))

	assert.Nil(t, b.Delete(db, []byte("n1")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("n1"), &got))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("n1")))
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket()

	assert.Nil(t, b.Put(db, []byte("n1"), &note{Owner: "alice", Text: "one"}))
	assert.Nil(t, b.Put(db, []byte("n2"), &note{Owner: "bob", Text: "two"}))
	assert.Nil(t, b.Put(db, []byte("n3"), &note{Owner: "alice", Text: "three"}))
	assert.Nil(t, b.Put(db, []byte("n4"), &note{Text: "not indexed"}))

	var notes []*note
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &notes)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("n1"), []byte("n3")}, keys)
	assert.Equal(t, "one", notes[0].Text)
	assert.Equal(t, "three", notes[1].Text)

	// owner change moves the reference
	assert.Nil(t, b.Put(db, []byte("n1"), &note{Owner: "bob", Text: "one"}))
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &notes)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("n1"), []byte("n2")}, keys)

	assert.Nil(t, b.Delete(db, []byte("n2")))
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &notes)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("n1")}, keys)

	keys, err = b.ByIndex(db, "owner", []byte("alicia"), &notes)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))
	assert.Equal(t, 0, len(notes))

	_, err = b.ByIndex(db, "missing", []byte("bob"), &notes)
	assert.IsErr(t, errors.ErrInput, err)

	var wrong []*other
	_, err = b.ByIndex(db, "owner", []byte("bob"), &wrong)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket()
	qr := swapd.NewQueryRouter()
	b.Register("notes", qr)

	assert.Nil(t, b.Put(db, []byte("a1"), &note{Owner: "alice", Text: "one"}))
	assert.Nil(t, b.Put(db, []byte("a2"), &note{Owner: "alice", Text: "two"}))
	assert.Nil(t, b.Put(db, []byte("b1"), &note{Owner: "bob", Text: "three"}))

	res, err := qr.Handler("/notes").Query(db, swapd.KeyQueryMod, []byte("a2"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("a2"), res[0].Key)

	res, err = qr.Handler("/notes").Query(db, swapd.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = qr.Handler("/notes").Query(db, swapd.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/notes/owner").Query(db, swapd.KeyQueryMod, []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("b1"), res[0].Key)

	var n note
	assert.Nil(t, n.Unmarshal(res[0].Value))
	assert.Equal(t, "three", n.Text)

	_, err = qr.Handler("/notes").Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestPrefixRangeEnd(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		want   []byte
	}{
		"simple":      {prefix: []byte{1, 2}, want: []byte{1, 3}},
		"carry":       {prefix: []byte{1, 0xFF}, want: []byte{2}},
		"unbounded":   {prefix: []byte{0xFF, 0xFF}, want: nil},
		"empty input": {prefix: nil, want: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, PrefixRangeEnd(tc.prefix))
		})
	}
}
