package ledger

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
)

// Controller is the asset ledger used by other extensions.
type Controller interface {
	// Balance returns all coins held by the address.
	Balance(db swapd.ReadOnlyKVStore, addr swapd.Address) (coin.Coins, error)

	// Transfer moves amount from src to dst. The src address must be
	// authenticated in the context and hold at least amount.
	Transfer(ctx swapd.Context, db swapd.KVStore, src, dst swapd.Address, amount coin.Coin) error

	// Issue creates new coins at dst.
	Issue(db swapd.KVStore, dst swapd.Address, amount coin.Coin) error

	// Asset returns the declaration of a registered asset.
	Asset(db swapd.ReadOnlyKVStore, ticker string) (*Asset, error)
}

// BaseController is the storage backed Controller.
type BaseController struct {
	auth    x.Authenticator
	wallets orm.ModelBucket
	assets  orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller that authorizes transfers with auth.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		auth:    auth,
		wallets: NewWalletBucket(),
		assets:  NewAssetBucket(),
	}
}

func (c BaseController) Balance(db swapd.ReadOnlyKVStore, addr swapd.Address) (coin.Coins, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return w.Coins, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (c BaseController) Asset(db swapd.ReadOnlyKVStore, ticker string) (*Asset, error) {
	var a Asset
	if err := c.assets.One(db, []byte(ticker), &a); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(errors.ErrCurrency, "asset %s not registered", ticker)
		}
		return nil, err
	}
	return &a, nil
}

func (c BaseController) Transfer(ctx swapd.Context, db swapd.KVStore, src, dst swapd.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if _, err := c.Asset(db, amount.Ticker); err != nil {
		return err
	}
	if !c.auth.HasAddress(ctx, src) {
		return errors.Wrapf(errors.ErrUnauthorized, "no authority over %s", src)
	}
	if err := c.moveCoins(db, src, dst, amount); err != nil {
		return err
	}
	swapd.GetLogger(ctx).Debug("transfer", "src", src, "dst", dst, "amount", amount)
	return nil
}

func (c BaseController) Issue(db swapd.KVStore, dst swapd.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if _, err := c.Asset(db, amount.Ticker); err != nil {
		return err
	}
	have, err := c.Balance(db, dst)
	if err != nil {
		return err
	}
	have, err = have.Add(amount)
	if err != nil {
		return err
	}
	return c.save(db, dst, have)
}

// moveCoins moves the given amount from src to dst.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) moveCoins(db swapd.KVStore, src, dst swapd.Address, amount coin.Coin) error {
	sender, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if !sender.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %s, needs %s",
			src, sender.Balance(amount.Ticker), amount)
	}
	if sender, err = sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.save(db, src, sender); err != nil {
		return err
	}

	// Loaded after the sender was saved, so that a transfer to self
	// is a no-op.
	recipient, err := c.Balance(db, dst)
	if err != nil {
		return err
	}
	if recipient, err = recipient.Add(amount); err != nil {
		return err
	}
	return c.save(db, dst, recipient)
}

// save stores the coins of addr. An empty wallet is deleted.
func (c BaseController) save(db swapd.KVStore, addr swapd.Address, coins coin.Coins) error {
	if coins.IsEmpty() {
		if err := c.wallets.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return c.wallets.Put(db, addr, &Wallet{Coins: coins})
}
