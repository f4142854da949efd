package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
)

// Escrow holds the terms of one open trade. Owner, both assets and the
// nonce never change once the record exists.
type Escrow struct {
	Owner           swapd.Address   `json:"owner"`
	AssetOffered    string          `json:"asset_offered"`
	AssetRequested  string          `json:"asset_requested"`
	AmountRequested uint64          `json:"amount_requested"`
	AmountDeposited uint64          `json:"amount_deposited"`
	Nonce           uint64          `json:"nonce"`
	DerivationProof swapd.Condition `json:"derivation_proof"`
	// OpenedAt is the unix time of the block that opened the trade.
	OpenedAt int64 `json:"opened_at"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return x.MarshalModel(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, e)
}

func (e *Escrow) Validate() error {
	if err := e.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !coin.IsCC(e.AssetOffered) {
		return errors.Wrapf(errors.ErrCurrency, "asset offered %q", e.AssetOffered)
	}
	if !coin.IsCC(e.AssetRequested) {
		return errors.Wrapf(errors.ErrCurrency, "asset requested %q", e.AssetRequested)
	}
	if e.AssetOffered == e.AssetRequested {
		return errors.Wrap(errors.ErrCurrency, "same asset on both sides")
	}
	if e.AmountRequested == 0 || e.AmountDeposited == 0 {
		return errors.Wrap(errors.ErrAmount, "amounts must be positive")
	}
	if err := e.DerivationProof.Validate(); err != nil {
		return errors.Wrap(err, "derivation proof")
	}
	return nil
}

// Offered is the deposit held by the vault.
func (e *Escrow) Offered() coin.Coin {
	return coin.NewCoin(e.AmountDeposited, e.AssetOffered)
}

// Requested is what a taker must pay to the owner.
func (e *Escrow) Requested() coin.Coin {
	return coin.NewCoin(e.AmountRequested, e.AssetRequested)
}

func escrowOwner(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Owner, nil
}

// NewEscrowBucket returns the bucket of open trades, indexed by "maker".
func NewEscrowBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrows", &Escrow{}, orm.WithIndex("maker", escrowOwner))
}

// Vault is the custody record of one trade. It is stored at the vault
// address and bound to the trade address.
type Vault struct {
	Escrow swapd.Address `json:"escrow"`
	Ticker string        `json:"ticker"`
	Amount uint64        `json:"amount"`
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Marshal() ([]byte, error) {
	return x.MarshalModel(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, v)
}

func (v *Vault) Validate() error {
	if err := v.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if !coin.IsCC(v.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "ticker %q", v.Ticker)
	}
	if v.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "empty vault")
	}
	return nil
}

// NewVaultBucket returns the bucket of vaults.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket("vaults", &Vault{})
}

// Outcome of a closed trade.
const (
	OutcomeCancelled = "cancelled"
	OutcomeFulfilled = "fulfilled"
)

// Closed is the tombstone left at the address of a closed trade.
type Closed struct {
	Outcome  string        `json:"outcome"`
	ClosedBy swapd.Address `json:"closed_by"`
	ClosedAt int64         `json:"closed_at"`
}

var _ orm.Model = (*Closed)(nil)

func (c *Closed) Marshal() ([]byte, error) {
	return x.MarshalModel(c)
}

func (c *Closed) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, c)
}

func (c *Closed) Validate() error {
	if c.Outcome != OutcomeCancelled && c.Outcome != OutcomeFulfilled {
		return errors.Wrapf(errors.ErrModel, "outcome %q", c.Outcome)
	}
	return c.ClosedBy.Validate()
}

// NewClosedBucket returns the bucket of tombstones.
func NewClosedBucket() orm.ModelBucket {
	return orm.NewModelBucket("closed", &Closed{})
}
