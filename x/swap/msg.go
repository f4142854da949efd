package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
)

var (
	_ swapd.Msg = (*OpenMsg)(nil)
	_ swapd.Msg = (*CancelMsg)(nil)
	_ swapd.Msg = (*FulfillMsg)(nil)
)

// OpenMsg locks Offered from Maker until the trade is cancelled or
// fulfilled for Requested.
type OpenMsg struct {
	Maker     swapd.Address `json:"maker"`
	Nonce     uint64        `json:"nonce"`
	Offered   coin.Coin     `json:"offered"`
	Requested coin.Coin     `json:"requested"`
}

func (OpenMsg) Path() string {
	return "swap/open"
}

func (m *OpenMsg) Validate() error {
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if !m.Offered.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "offered must be positive")
	}
	if err := m.Offered.Validate(); err != nil {
		return errors.Wrap(err, "offered")
	}
	if !m.Requested.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "requested must be positive")
	}
	if err := m.Requested.Validate(); err != nil {
		return errors.Wrap(err, "requested")
	}
	if m.Offered.SameType(m.Requested) {
		return errors.Wrap(errors.ErrCurrency, "cannot swap an asset for itself")
	}
	return nil
}

// CancelMsg closes the trade at Escrow and returns the deposit to the
// maker.
type CancelMsg struct {
	Escrow swapd.Address `json:"escrow"`
}

func (CancelMsg) Path() string {
	return "swap/cancel"
}

func (m *CancelMsg) Validate() error {
	return errors.Wrap(m.Escrow.Validate(), "escrow")
}

// FulfillMsg pays for the trade at Escrow and takes the deposit. Taker
// defaults to the main signer.
type FulfillMsg struct {
	Escrow swapd.Address `json:"escrow"`
	Taker  swapd.Address `json:"taker,omitempty"`
}

func (FulfillMsg) Path() string {
	return "swap/fulfill"
}

func (m *FulfillMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if len(m.Taker) != 0 {
		return errors.Wrap(m.Taker.Validate(), "taker")
	}
	return nil
}
