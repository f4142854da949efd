package app

import (
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest/assert"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts swapd.Options, kv swapd.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts swapd.Options, kv swapd.KVStore) error {
	c.called++
	return nil
}

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		file      string
		wantErr   *errors.Error
		wantChain string
	}{
		"no such file": {
			file:    "testdata/missing.json",
			wantErr: errors.ErrInput,
		},
		"proper parse": {
			file:      "testdata/genesis.json",
			wantChain: "test-chain-67",
		},
		"parses even if the state is broken": {
			file:      "testdata/bad_genesis.json",
			wantChain: "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantChain, gen.ChainID)
			}
		})
	}
}

func TestInitChain(t *testing.T) {
	db, err := store.NewBadgerStore(store.BadgerConfig{InMemory: true})
	assert.Nil(t, err)
	defer db.Close()

	chainID, err := ChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "", chainID)

	gen := &Genesis{
		ChainID:  "test-chain-1",
		AppState: swapd.Options{dummyKey: []byte(`"secret"`)},
	}
	c := new(countInit)
	assert.Nil(t, InitChain(db, gen, swapd.ChainInitializers(dummyInit{}, c)))
	assert.Equal(t, 1, c.called)

	chainID, err = ChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "test-chain-1", chainID)
	val, err := db.Get([]byte(dummyKey))
	assert.Nil(t, err)
	assert.Equal(t, []byte("secret"), val)

	err = InitChain(db, gen, c)
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Equal(t, 1, c.called)
}

func TestInitChainFailureLeavesNothing(t *testing.T) {
	db, err := store.NewBadgerStore(store.BadgerConfig{InMemory: true})
	assert.Nil(t, err)
	defer db.Close()

	gen, err := LoadGenesis("testdata/bad_genesis.json")
	assert.Nil(t, err)
	err = InitChain(db, gen, Initializers())
	assert.IsErr(t, errors.ErrDuplicate, err)

	chainID, err := ChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "", chainID)

	_, err = New(db, Config{})
	assert.IsErr(t, errors.ErrState, err)
}

func TestResultSet(t *testing.T) {
	models := []swapd.Model{swapd.Pair([]byte("a"), []byte("1")), swapd.Pair([]byte("b"), []byte("2"))}
	got, err := NewResultSet(models).Models()
	assert.Nil(t, err)
	assert.Equal(t, models, got)

	_, err = (&ResultSet{Keys: [][]byte{[]byte("a")}}).Models()
	assert.IsErr(t, errors.ErrInput, err)
}
