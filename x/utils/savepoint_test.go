package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	// a default error if desired
	derr := fmt.Errorf("something went wrong")

	writes := func(err error) *writeHandler {
		return &writeHandler{key: nk, value: nv, err: err}
	}

	cases := map[string]struct {
		save    swapd.Decorator
		handler swapd.Handler
		check   bool // whether to call Check or Deliver
		isError bool

		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled keeps writes of a failure": {
			save:    NewSavepoint(),
			handler: writes(derr),
			check:   true,
			isError: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint drops writes of a failure": {
			save:    NewSavepoint().OnCheck(),
			handler: writes(derr),
			check:   true,
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint drops writes of a failure": {
			save:    NewSavepoint().OnDeliver(),
			handler: writes(derr),
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: writes(derr),
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: writes(derr),
			isError: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: writes(nil),
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			assert.NoError(t, kv.Set(ok, ov))

			tx := &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/write"}}
			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, tx, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, tx, tc.handler)
			}

			if tc.isError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				assert.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				assert.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

// writeHandler stores one key and returns err from both Check and Deliver.
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ swapd.Handler = (*writeHandler)(nil)

func (h *writeHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{}, h.err
}

func (h *writeHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &swapd.DeliverResult{}, h.err
}
