package swaptest

import (
	"context"
	"fmt"

	"github.com/swapvault/swapd"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions. Signer and
// Signers are both considered.
type Auth struct {
	// Signer is a convenience attribute for a single signer.
	Signer swapd.Condition

	// Signers represents an authentication of multiple signers.
	Signers []swapd.Condition
}

func (a *Auth) GetConditions(swapd.Context) []swapd.Condition {
	if a.Signer != nil {
		return append([]swapd.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx swapd.Context, permissions ...swapd.Condition) swapd.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx swapd.Context) []swapd.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]swapd.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []swapd.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
