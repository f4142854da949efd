package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	ctx := swapd.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	db := store.MemStore()
	var h panicHandler

	assert.Panics(t, func() { h.Check(ctx, db, nil) })

	r := NewRecovery()
	_, err := r.Check(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "check panic")

	_, err = r.Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "panic=\"deliver panic\"")
}

type panicHandler struct{}

var _ swapd.Handler = panicHandler{}

func (panicHandler) Check(swapd.Context, swapd.KVStore, swapd.Tx) (*swapd.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(swapd.Context, swapd.KVStore, swapd.Tx) (*swapd.DeliverResult, error) {
	panic("deliver panic")
}
