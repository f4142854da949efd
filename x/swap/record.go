package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x/rent"
)

// vaultState reports whether the vault of a trade was closed and drained.
type vaultState interface {
	Drained(db swapd.KVStore, escrow swapd.Address) error
}

// RecordManager creates, loads and destroys trade records.
type RecordManager struct {
	programID swapd.Address
	rent      rent.Controller
	vaults    vaultState
	escrows   orm.ModelBucket
	closed    orm.ModelBucket
}

// NewRecordManager returns a manager deriving addresses from programID.
func NewRecordManager(programID swapd.Address, r rent.Controller, vaults vaultState) RecordManager {
	return RecordManager{
		programID: programID,
		rent:      r,
		vaults:    vaults,
		escrows:   NewEscrowBucket(),
		closed:    NewClosedBucket(),
	}
}

// Create stores a new trade record at the address derived from maker and
// nonce and charges the maker for its storage.
func (m RecordManager) Create(ctx swapd.Context, db swapd.KVStore, maker swapd.Address, nonce uint64, offered, requested coin.Coin) (swapd.Address, *Escrow, error) {
	if !offered.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrAmount, "nothing offered")
	}
	proof := Derive(m.programID, maker, nonce)
	addr := proof.Address()

	if err := m.closed.Has(db, addr); err == nil {
		return nil, nil, errors.Wrapf(errors.ErrAlreadyClosed, "nonce %d was used", nonce)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, nil, err
	}
	if err := m.escrows.Has(db, addr); err == nil {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s is open", addr)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, nil, err
	}

	e := &Escrow{
		Owner:           maker,
		AssetOffered:    offered.Ticker,
		AssetRequested:  requested.Ticker,
		AmountRequested: requested.Amount,
		AmountDeposited: offered.Amount,
		Nonce:           nonce,
		DerivationProof: proof,
	}
	if now, ok := swapd.BlockTime(ctx); ok {
		e.OpenedAt = now.Unix()
	}
	if err := m.escrows.Put(db, addr, e); err != nil {
		return nil, nil, err
	}

	raw, err := e.Marshal()
	if err != nil {
		return nil, nil, err
	}
	if _, err := m.rent.Allocate(ctx, db, maker, addr, len(raw)); err != nil {
		return nil, nil, errors.Wrap(err, "escrow rent")
	}
	return addr, e, nil
}

// Load returns the open trade stored at addr after verifying that it
// belongs to this program and to this address.
func (m RecordManager) Load(db swapd.ReadOnlyKVStore, addr swapd.Address) (*Escrow, error) {
	var c Closed
	switch err := m.closed.One(db, addr, &c); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrAlreadyClosed, "trade was %s", c.Outcome)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	var e Escrow
	if err := m.escrows.One(db, addr, &e); err != nil {
		return nil, err
	}
	if err := verifyProof(m.programID, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Destroy removes the trade record, refunds its storage fee to the maker
// and leaves a tombstone. It fails with ErrState while the vault of the
// trade is open or holds any funds.
func (m RecordManager) Destroy(ctx swapd.Context, db swapd.KVStore, addr swapd.Address, outcome string, by swapd.Address) error {
	if err := m.vaults.Drained(db, addr); err != nil {
		return err
	}
	if err := m.escrows.Delete(db, addr); err != nil {
		return err
	}
	if _, err := m.rent.Release(ctx, db, addr); err != nil {
		return errors.Wrap(err, "escrow rent")
	}
	tomb := &Closed{Outcome: outcome, ClosedBy: by}
	if now, ok := swapd.BlockTime(ctx); ok {
		tomb.ClosedAt = now.Unix()
	}
	return m.closed.Put(db, addr, tomb)
}
