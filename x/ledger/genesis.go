package ledger

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
)

const optKey = "ledger"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Address swapd.Address `json:"address"`
	Coins   []coin.Coin   `json:"coins"`
}

// Genesis is the "ledger" section of the genesis file.
type Genesis struct {
	Assets   []Asset          `json:"assets"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ swapd.Initializer = (*Initializer)(nil)

// FromGenesis declares the assets first and then mints the initial
// balances.
func (Initializer) FromGenesis(opts swapd.Options, db swapd.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	assets := NewAssetBucket()
	for i := range gen.Assets {
		a := gen.Assets[i]
		if err := assets.Has(db, []byte(a.Ticker)); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "asset %s", a.Ticker)
		}
		if err := assets.Put(db, []byte(a.Ticker), &a); err != nil {
			return errors.Wrapf(err, "asset %s", a.Ticker)
		}
	}

	// Issue does not need an authenticator.
	ctrl := NewController(nil)
	for _, acc := range gen.Accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account")
		}
		for _, c := range acc.Coins {
			if err := ctrl.Issue(db, acc.Address, c); err != nil {
				return errors.Wrapf(err, "issue to %s", acc.Address)
			}
		}
	}
	return nil
}
