package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
)

type contextKey int

const contextKeyVault contextKey = iota

var vaultAuth = x.NewConditionAuth(contextKeyVault)

// Authenticate recognizes the vault authority granted during a release. It
// must be part of the authenticator the ledger is built with.
func Authenticate() x.Authenticator {
	return vaultAuth
}

// Custodian moves the deposit of a trade into its vault and out of it.
type Custodian struct {
	ledger ledger.Controller
	rent   rent.Controller
	vaults orm.ModelBucket
}

// NewCustodian returns a custodian keeping funds in the given ledger.
func NewCustodian(l ledger.Controller, r rent.Controller) Custodian {
	return Custodian{
		ledger: l,
		rent:   r,
		vaults: NewVaultBucket(),
	}
}

// Open creates the vault of the trade stored at escrow and moves the
// deposit from the owner into it. The owner must be authenticated.
func (c Custodian) Open(ctx swapd.Context, db swapd.KVStore, escrow swapd.Address, e *Escrow) (*Vault, error) {
	addr := VaultAddress(escrow)
	if err := c.vaults.Has(db, addr); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "vault %s", addr)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}

	deposit := e.Offered()
	vault := &Vault{Escrow: escrow, Ticker: deposit.Ticker, Amount: deposit.Amount}
	raw, err := vault.Marshal()
	if err != nil {
		return nil, err
	}
	if _, err := c.rent.Allocate(ctx, db, e.Owner, addr, len(raw)); err != nil {
		return nil, errors.Wrap(err, "vault rent")
	}
	if err := c.ledger.Transfer(ctx, db, e.Owner, addr, deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := c.vaults.Put(db, addr, vault); err != nil {
		return nil, err
	}
	return vault, nil
}

// Release drains the vault of the trade stored at escrow to dst and closes
// the vault. The outbound transfer is authorized only by the vault
// condition of that trade.
func (c Custodian) Release(ctx swapd.Context, db swapd.KVStore, escrow swapd.Address, dst swapd.Address) (coin.Coins, error) {
	addr := VaultAddress(escrow)
	var vault Vault
	if err := c.vaults.One(db, addr, &vault); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(errors.ErrState, "trade has no vault")
		}
		return nil, err
	}
	if !vault.Escrow.Equals(escrow) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "vault bound to another escrow")
	}

	balance, err := c.ledger.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	if !balance.Contains(coin.NewCoin(vault.Amount, vault.Ticker)) {
		return nil, errors.Wrapf(errors.ErrState, "vault holds %s, deposit was %d %s", balance, vault.Amount, vault.Ticker)
	}

	authorized := vaultAuth.WithCondition(ctx, VaultCondition(escrow))
	for _, amount := range balance {
		if err := c.ledger.Transfer(authorized, db, addr, dst, amount); err != nil {
			return nil, errors.Wrap(err, "release")
		}
	}

	if err := c.vaults.Delete(db, addr); err != nil {
		return nil, err
	}
	if _, err := c.rent.Release(ctx, db, addr); err != nil {
		return nil, errors.Wrap(err, "vault rent")
	}
	return balance, nil
}

// Drained returns nil if the vault of the trade stored at escrow is closed
// and empty.
func (c Custodian) Drained(db swapd.KVStore, escrow swapd.Address) error {
	addr := VaultAddress(escrow)
	if err := c.vaults.Has(db, addr); err == nil {
		return errors.Wrap(errors.ErrState, "vault is open")
	} else if !errors.ErrNotFound.Is(err) {
		return err
	}
	balance, err := c.ledger.Balance(db, addr)
	if err != nil {
		return err
	}
	if !balance.IsEmpty() {
		return errors.Wrapf(errors.ErrState, "vault still holds %s", balance)
	}
	return nil
}
