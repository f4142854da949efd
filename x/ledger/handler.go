package ledger

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x"
)

// TransferEvent is emitted for every successful send.
const TransferEvent = "ledger.transfer"

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r swapd.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery exposes balances as "/balances" and asset declarations as
// "/assets".
func RegisterQuery(qr swapd.QueryRouter) {
	NewWalletBucket().Register("balances", qr)
	NewAssetBucket().Register("assets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ swapd.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and signed. Funds are only
// checked on delivery.
func (h SendHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	ev := swapd.NewEvent(TransferEvent,
		"source", msg.Source.String(),
		"destination", msg.Destination.String(),
		"amount", msg.Amount.String(),
	)
	return &swapd.DeliverResult{Events: []swapd.Event{ev}}, nil
}

func (h SendHandler) validate(ctx swapd.Context, tx swapd.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
