package ledger

import (
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
)

// Wallet holds the coins owned by a single address. It is stored under
// that address.
type Wallet struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return x.MarshalModel(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, w)
}

// Validate requires the coins to be normalized.
func (w *Wallet) Validate() error {
	return w.Coins.Validate()
}

// NewWalletBucket returns a bucket for wallets.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("wallets", &Wallet{})
}

// Asset declares a ticker that may be held and moved.
type Asset struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
}

var _ orm.Model = (*Asset)(nil)

func (a *Asset) Marshal() ([]byte, error) {
	return x.MarshalModel(a)
}

func (a *Asset) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, a)
}

func (a *Asset) Validate() error {
	if !coin.IsCC(a.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker: %q", a.Ticker)
	}
	if a.Decimals < 0 || a.Decimals > coin.MaxDecimals {
		return errors.Wrapf(errors.ErrModel, "decimals %d out of range", a.Decimals)
	}
	if len(a.Name) > 64 {
		return errors.Wrap(errors.ErrModel, "name too long")
	}
	return nil
}

// NewAssetBucket returns a bucket for asset declarations, keyed by ticker.
func NewAssetBucket() orm.ModelBucket {
	return orm.NewModelBucket("assets", &Asset{})
}
