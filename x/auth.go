package x

import (
	"context"

	"github.com/swapvault/swapd"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(swapd.Context) []swapd.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(swapd.Context, swapd.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx swapd.Context) []swapd.Condition {
	var res []swapd.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx swapd.Context, auth Authenticator) []swapd.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]swapd.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx swapd.Context, auth Authenticator) swapd.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx swapd.Context, auth Authenticator, required []swapd.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx swapd.Context, auth Authenticator, required []swapd.Condition) bool {
	perms := auth.GetConditions(ctx)
	for _, r := range required {
		if !hasPerm(perms, r) {
			return false
		}
	}
	return true
}

func hasPerm(perms []swapd.Condition, perm swapd.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}

// ConditionAuth authenticates the single condition stored under its key.
// Extensions use it to grant a derived authority for the duration of one
// call, see WithCondition.
type ConditionAuth struct {
	key interface{}
}

var _ Authenticator = ConditionAuth{}

// NewConditionAuth returns an authenticator reading conditions stored
// with the given key. Use an unexported key type so that only the owning
// package can grant the condition.
func NewConditionAuth(key interface{}) ConditionAuth {
	return ConditionAuth{key: key}
}

// WithCondition returns a context in which cond is authenticated.
func (a ConditionAuth) WithCondition(ctx swapd.Context, cond swapd.Condition) swapd.Context {
	return context.WithValue(ctx, a.key, cond)
}

// GetConditions returns the condition previously set on this context
func (a ConditionAuth) GetConditions(ctx swapd.Context) []swapd.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(a.key).(swapd.Condition)
	if val == nil {
		return nil
	}
	return []swapd.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a ConditionAuth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
