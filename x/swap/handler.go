package swap

import (
	"strconv"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x"
)

// Events emitted on successful transitions.
const (
	OpenedEvent    = "swap.opened"
	CancelledEvent = "swap.cancelled"
	FulfilledEvent = "swap.fulfilled"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r swapd.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(OpenMsg{}.Path(), OpenHandler{auth: auth, ctrl: ctrl})
	r.Handle(CancelMsg{}.Path(), CancelHandler{auth: auth, ctrl: ctrl})
	r.Handle(FulfillMsg{}.Path(), FulfillHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery exposes "/escrows", "/escrows/maker", "/vaults" and
// "/closed".
func RegisterQuery(qr swapd.QueryRouter) {
	NewEscrowBucket().Register("escrows", qr)
	NewVaultBucket().Register("vaults", qr)
	NewClosedBucket().Register("closed", qr)
}

// OpenHandler opens a trade.
type OpenHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swapd.Handler = OpenHandler{}

func (h OpenHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{}, nil
}

func (h OpenHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, e, err := h.ctrl.Open(ctx, db, msg.Maker, msg.Nonce, msg.Offered, msg.Requested)
	if err != nil {
		return nil, err
	}
	ev := swapd.NewEvent(OpenedEvent,
		"escrow", addr.String(),
		"maker", e.Owner.String(),
		"nonce", strconv.FormatUint(e.Nonce, 10),
		"offered", e.Offered().String(),
		"requested", e.Requested().String(),
	)
	return &swapd.DeliverResult{Data: addr, Events: []swapd.Event{ev}}, nil
}

func (h OpenHandler) validate(ctx swapd.Context, tx swapd.Tx) (*OpenMsg, error) {
	var msg OpenMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	return &msg, nil
}

// CancelHandler returns the deposit to the maker.
type CancelHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swapd.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	var msg CancelMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, err := h.ctrl.Load(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, e.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}
	return &swapd.CheckResult{}, nil
}

func (h CancelHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	var msg CancelMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, refund, err := h.ctrl.Cancel(ctx, db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	ev := swapd.NewEvent(CancelledEvent,
		"escrow", msg.Escrow.String(),
		"maker", e.Owner.String(),
		"refund", refund.String(),
	)
	return &swapd.DeliverResult{Events: []swapd.Event{ev}}, nil
}

// FulfillHandler settles a trade.
type FulfillHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swapd.Handler = FulfillHandler{}

func (h FulfillHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Load(db, msg.Escrow); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{}, nil
}

func (h FulfillHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, released, err := h.ctrl.Fulfill(ctx, db, msg.Escrow, msg.Taker)
	if err != nil {
		return nil, err
	}
	ev := swapd.NewEvent(FulfilledEvent,
		"escrow", msg.Escrow.String(),
		"maker", e.Owner.String(),
		"taker", msg.Taker.String(),
		"paid", e.Requested().String(),
		"released", released.String(),
	)
	return &swapd.DeliverResult{Events: []swapd.Event{ev}}, nil
}

func (h FulfillHandler) validate(ctx swapd.Context, tx swapd.Tx) (*FulfillMsg, error) {
	var msg FulfillMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if len(msg.Taker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
		}
		msg.Taker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	return &msg, nil
}
