package ledger

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins from one account to another.
type SendMsg struct {
	Source      swapd.Address `json:"source"`
	Destination swapd.Address `json:"destination"`
	Amount      coin.Coin     `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

// Ensure we implement the Msg interface
var _ swapd.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "ledger/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive send: %s", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

// DefaultSource makes sure there is a payer.
// If it was already set, returns m.
// If none was set, returns a new SendMsg with the source set
func (m *SendMsg) DefaultSource(addr swapd.Address) *SendMsg {
	if len(m.Source) != 0 {
		return m
	}
	cp := *m
	cp.Source = addr
	return &cp
}
