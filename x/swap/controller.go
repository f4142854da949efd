package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
)

// Controller runs the three trade transitions. Each of them either
// completes or leaves the store untouched.
type Controller struct {
	auth      x.Authenticator
	ledger    ledger.Controller
	records   RecordManager
	custodian Custodian
}

// NewController returns a controller for the program identified by
// programID. auth authenticates the makers and takers.
func NewController(programID swapd.Address, auth x.Authenticator, l ledger.Controller, r rent.Controller) Controller {
	custodian := NewCustodian(l, r)
	return Controller{
		auth:      auth,
		ledger:    l,
		records:   NewRecordManager(programID, r, custodian),
		custodian: custodian,
	}
}

// Load returns the open trade stored at addr.
func (c Controller) Load(db swapd.ReadOnlyKVStore, addr swapd.Address) (*Escrow, error) {
	return c.records.Load(db, addr)
}

// Open creates the trade record and its vault and locks offered in the
// vault.
func (c Controller) Open(ctx swapd.Context, db swapd.KVStore, maker swapd.Address, nonce uint64, offered, requested coin.Coin) (swapd.Address, *Escrow, error) {
	if !c.auth.HasAddress(ctx, maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	var (
		addr swapd.Address
		e    *Escrow
	)
	err := atomically(db, func(db swapd.KVStore) error {
		// A trade asking for an undeclared asset could never be fulfilled.
		if _, err := c.ledger.Asset(db, requested.Ticker); err != nil {
			return errors.Wrap(err, "requested asset")
		}
		var err error
		if addr, e, err = c.records.Create(ctx, db, maker, nonce, offered, requested); err != nil {
			return err
		}
		_, err = c.custodian.Open(ctx, db, addr, e)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return addr, e, nil
}

// Cancel returns the deposit to the maker and closes the trade. Only the
// maker can cancel.
func (c Controller) Cancel(ctx swapd.Context, db swapd.KVStore, addr swapd.Address) (*Escrow, coin.Coins, error) {
	var (
		e        *Escrow
		released coin.Coins
	)
	err := atomically(db, func(db swapd.KVStore) error {
		var err error
		if e, err = c.records.Load(db, addr); err != nil {
			return err
		}
		if !c.auth.HasAddress(ctx, e.Owner) {
			return errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
		}
		if released, err = c.custodian.Release(ctx, db, addr, e.Owner); err != nil {
			return err
		}
		return c.records.Destroy(ctx, db, addr, OutcomeCancelled, e.Owner)
	})
	if err != nil {
		return nil, nil, err
	}
	return e, released, nil
}

// Fulfill pays the requested amount from taker to the maker, releases the
// deposit to taker and closes the trade.
func (c Controller) Fulfill(ctx swapd.Context, db swapd.KVStore, addr, taker swapd.Address) (*Escrow, coin.Coins, error) {
	if !c.auth.HasAddress(ctx, taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	var (
		e        *Escrow
		released coin.Coins
	)
	err := atomically(db, func(db swapd.KVStore) error {
		var err error
		if e, err = c.records.Load(db, addr); err != nil {
			return err
		}
		if err := c.ledger.Transfer(ctx, db, taker, e.Owner, e.Requested()); err != nil {
			return errors.Wrap(err, "payment")
		}
		if released, err = c.custodian.Release(ctx, db, addr, taker); err != nil {
			return err
		}
		return c.records.Destroy(ctx, db, addr, OutcomeFulfilled, taker)
	})
	if err != nil {
		return nil, nil, err
	}
	return e, released, nil
}

// atomically runs fn on a cache of db that is written only if fn succeeds.
func atomically(db swapd.KVStore, fn func(swapd.KVStore) error) error {
	cacheable, ok := db.(swapd.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
