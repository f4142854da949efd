package sigs

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/swaptest"
)

// StdTx is a signed transaction whose sign bytes are a fixed payload.
type StdTx struct {
	swaptest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ swapd.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []swapd.Condition
}

var _ swapd.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &swapd.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &swapd.DeliverResult{}, nil
}
