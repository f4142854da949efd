package rent

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/gconf"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
	"github.com/swapvault/swapd/x/ledger"
)

type contextKey int

const contextKeyReserve contextKey = iota

var reserveAuth = x.NewConditionAuth(contextKeyReserve)

// Authenticate grants the reserve authority while a refund is made. It must
// be part of the authenticator the ledger is built with.
func Authenticate() x.Authenticator {
	return reserveAuth
}

// Controller charges and refunds allocation fees.
type Controller interface {
	// Allocate charges payer the fee for an account of the given size
	// stored at account. The payer must be authenticated in the context.
	Allocate(ctx swapd.Context, db swapd.KVStore, payer, account swapd.Address, size int) (coin.Coin, error)

	// Release refunds the fee held for account to its payer.
	Release(ctx swapd.Context, db swapd.KVStore, account swapd.Address) (coin.Coin, error)
}

// BaseController keeps allocations in the store and moves fees with the
// ledger.
type BaseController struct {
	ledger      ledger.Controller
	allocations orm.ModelBucket
}

var _ Controller = BaseController{}

func NewController(l ledger.Controller) BaseController {
	return BaseController{
		ledger:      l,
		allocations: NewAllocationBucket(),
	}
}

// LoadConfig returns the fee schedule. No configuration means no fees.
func LoadConfig(db swapd.ReadOnlyKVStore) (Config, error) {
	var c Config
	if err := gconf.Load(db, packageName, &c); err != nil && !errors.ErrNotFound.Is(err) {
		return c, err
	}
	return c, nil
}

func (c BaseController) Allocate(ctx swapd.Context, db swapd.KVStore, payer, account swapd.Address, size int) (coin.Coin, error) {
	conf, err := LoadConfig(db)
	if err != nil {
		return coin.Coin{}, err
	}
	fee, err := conf.Fee(size)
	if err != nil {
		return coin.Coin{}, err
	}
	if fee.IsZero() {
		return fee, nil
	}
	if err := c.allocations.Has(db, account); err == nil {
		return coin.Coin{}, errors.Wrapf(errors.ErrDuplicate, "rent already paid for %s", account)
	}
	if err := c.ledger.Transfer(ctx, db, payer, ReserveAddress(payer), fee); err != nil {
		return coin.Coin{}, errors.Wrap(err, "rent")
	}
	if err := c.allocations.Put(db, account, &Allocation{Payer: payer, Fee: fee}); err != nil {
		return coin.Coin{}, err
	}
	return fee, nil
}

func (c BaseController) Release(ctx swapd.Context, db swapd.KVStore, account swapd.Address) (coin.Coin, error) {
	var a Allocation
	switch err := c.allocations.One(db, account, &a); {
	case errors.ErrNotFound.Is(err):
		// Allocated while fees were disabled.
		return coin.Coin{}, nil
	case err != nil:
		return coin.Coin{}, err
	}

	ctx = reserveAuth.WithCondition(ctx, ReserveCondition(a.Payer))
	if err := c.ledger.Transfer(ctx, db, ReserveAddress(a.Payer), a.Payer, a.Fee); err != nil {
		return coin.Coin{}, errors.Wrap(err, "rent refund")
	}
	if err := c.allocations.Delete(db, account); err != nil {
		return coin.Coin{}, err
	}
	return a.Fee, nil
}
