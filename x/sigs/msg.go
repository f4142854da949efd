package sigs

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

const (
	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the main signer. Incrementing
// invalidates every transaction signed with a sequence that was skipped.
type BumpSequenceMsg struct {
	Increment uint32 `json:"increment"`
}

var _ swapd.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}
