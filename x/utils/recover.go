package utils

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Recovery converts a panic in any inner handler into ErrPanic and logs it,
// so a single bad message cannot take the daemon down.
type Recovery struct{}

var _ swapd.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (_ *swapd.CheckResult, err error) {
	defer recovered(ctx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (_ *swapd.DeliverResult, err error) {
	defer recovered(ctx, &err)
	return next.Deliver(ctx, db, tx)
}

func recovered(ctx swapd.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	swapd.GetLogger(ctx).Error("handler panic", "panic", r)
}
