package sigs

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
)

// ErrInvalidSequence is returned when a signature carries a sequence that
// is not the next one expected for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")

// UserData is stored per signer, under the signer address.
type UserData struct {
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return x.MarshalModel(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "missing public key")
	}
	return u.Pubkey.Validate()
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	// The greatest sequence a JSON client can represent exactly.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket creates the proper bucket for this extension
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

// NextNonce returns the next sequence value that should be used during a
// transaction signing. Sequence counting starts with zero.
func NextNonce(db swapd.ReadOnlyKVStore, signer swapd.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket")
	}
}
