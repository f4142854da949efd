package swap

import (
	"bytes"
	"encoding/binary"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Derive returns the condition that owns the trade opened by maker with
// the given nonce. The trade is stored at the condition address.
func Derive(programID, maker swapd.Address, nonce uint64) swapd.Condition {
	seed := make([]byte, 0, len(programID)+len(maker)+8)
	seed = append(seed, programID...)
	seed = append(seed, maker...)
	seed = binary.BigEndian.AppendUint64(seed, nonce)
	return swapd.NewCondition("swap", "escrow", seed)
}

// VaultCondition is the authority over the vault of the trade stored at
// escrow.
func VaultCondition(escrow swapd.Address) swapd.Condition {
	return swapd.NewCondition("swap", "vault", escrow)
}

// VaultAddress is where the deposit of the trade stored at escrow is held.
func VaultAddress(escrow swapd.Address) swapd.Address {
	return VaultCondition(escrow).Address()
}

// verifyProof re-derives the trade address from the stored terms. A record
// that does not belong to this program, or to this address, is rejected.
func verifyProof(programID, addr swapd.Address, e *Escrow) error {
	want := Derive(programID, e.Owner, e.Nonce)
	if !bytes.Equal(want, e.DerivationProof) {
		return errors.Wrap(errors.ErrUnauthorized, "derivation proof mismatch")
	}
	if !want.Address().Equals(addr) {
		return errors.Wrap(errors.ErrUnauthorized, "escrow stored at a foreign address")
	}
	return nil
}
