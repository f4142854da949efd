package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Genesis is the file the state is initialized from on the very first start.
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState swapd.Options `json:"app_state"`
}

// LoadGenesis reads the genesis file at path.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if !swapd.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid chain id %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	return &gen, nil
}

// InitChain stores the chain id and passes the application state to init,
// all in one unit of work. It fails with ErrDuplicate if the store was
// already initialized.
func InitChain(db swapd.CommitKVStore, gen *Genesis, init swapd.Initializer) error {
	unit := db.CacheWrap()
	defer unit.Discard()

	if err := saveChainID(unit, gen.ChainID); err != nil {
		return err
	}
	if err := init.FromGenesis(gen.AppState, unit); err != nil {
		return errors.Wrap(err, "genesis")
	}
	return unit.Write()
}

//------- storing chainID ---------

const chainIDKey = "_swapd:chain_id"

// ChainID returns the chain id stored by InitChain, or an empty string if
// the store was never initialized.
func ChainID(db swapd.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(db swapd.KVStore, chainID string) error {
	if !swapd.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	switch has, err := db.Has(k); {
	case err != nil:
		return err
	case has:
		return errors.Wrap(errors.ErrDuplicate, "chain id already set")
	}
	return db.Set(k, []byte(chainID))
}
