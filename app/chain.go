package app

import (
	"reflect"

	"github.com/swapvault/swapd"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The first decorator added runs first.
type Decorators struct {
	stack []swapd.Decorator
}

// ChainDecorators starts a stack. Nil decorators, including typed nil
// pointers, are skipped so optional decorators can be passed inline:
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
func ChainDecorators(ds ...swapd.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new stack with ds appended. The receiver is not modified.
func (d Decorators) Chain(ds ...swapd.Decorator) Decorators {
	stack := make([]swapd.Decorator, 0, len(d.stack)+len(ds))
	stack = append(stack, d.stack...)
	for _, dec := range ds {
		if !isNil(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{stack: stack}
}

func isNil(d swapd.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h swapd.Handler) swapd.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = link{dec: d.stack[i], next: h}
	}
	return h
}

// link binds one decorator to the handler below it.
type link struct {
	dec  swapd.Decorator
	next swapd.Handler
}

var _ swapd.Handler = link{}

func (l link) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
