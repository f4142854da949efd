package app

import (
	"fmt"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Router dispatches a transaction to the handler registered for the path
// of its message.
type Router struct {
	routes map[string]swapd.Handler
}

var _ swapd.Registry = (*Router)(nil)
var _ swapd.Handler = (*Router)(nil)

// NewRouter returns a router with no routes.
func NewRouter() *Router {
	return &Router{routes: make(map[string]swapd.Handler, 10)}
}

// Handle registers h for path. It panics on a malformed path or a path
// that is already taken.
func (r *Router) Handle(path string, h swapd.Handler) {
	if err := swapd.ValidatePath(path); err != nil {
		panic(err)
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for path. A missing route
// resolves to a handler that always fails with ErrNotFound.
func (r *Router) Handler(path string) swapd.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFound(path)
}

// Paths lists every registered message path.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	return paths
}

func (r *Router) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

func (r *Router) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func (r *Router) route(tx swapd.Tx) (swapd.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty message")
	}
	return r.Handler(msg.Path()), nil
}

type notFound string

func (path notFound) Check(swapd.Context, swapd.KVStore, swapd.Tx) (*swapd.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFound) Deliver(swapd.Context, swapd.KVStore, swapd.Tx) (*swapd.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
