package app

import (
	amino "github.com/tendermint/go-amino"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/sigs"
	"github.com/swapvault/swapd/x/swap"
)

var cdc = MakeCodec()

// MakeCodec returns the codec for transactions. Every message the router
// can dispatch must be registered here under its path.
func MakeCodec() *amino.Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*swapd.Msg)(nil), nil)
	cdc.RegisterConcrete(&ledger.SendMsg{}, ledger.SendMsg{}.Path(), nil)
	cdc.RegisterConcrete(&sigs.BumpSequenceMsg{}, sigs.BumpSequenceMsg{}.Path(), nil)
	cdc.RegisterConcrete(&swap.OpenMsg{}, swap.OpenMsg{}.Path(), nil)
	cdc.RegisterConcrete(&swap.CancelMsg{}, swap.CancelMsg{}.Path(), nil)
	cdc.RegisterConcrete(&swap.FulfillMsg{}, swap.FulfillMsg{}.Path(), nil)
	cdc.Seal()
	return cdc
}

// Tx is a single message with the signatures authorizing it.
type Tx struct {
	Msg        swapd.Msg            `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

// make sure tx fulfills all interfaces
var _ swapd.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps msg in an unsigned transaction.
func NewTx(msg swapd.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (swapd.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetMsg() (swapd.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "unable to decode")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes come from the data itself, not previous signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends a signature of signer for the given sequence.
func (tx *Tx) Sign(signer *crypto.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction")
	}
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
