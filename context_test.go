package swapd_test

import (
	"context"
	"testing"
	"time"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/swaptest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestChainID(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() { swapd.GetChainID(ctx) })
	assert.Panics(t, func() { swapd.WithChainID(ctx, "bad") })

	ctx = swapd.WithChainID(ctx, "swap-test")
	assert.Equal(t, "swap-test", swapd.GetChainID(ctx))

	assert.Panics(t, func() { swapd.WithChainID(ctx, "other-chain") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, ok := swapd.BlockTime(ctx); ok {
		t.Fatal("block time must not be set")
	}

	now := time.Date(2020, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	ctx = swapd.WithBlockTime(ctx, now)
	got, ok := swapd.BlockTime(ctx)
	if !ok || !got.Equal(now) {
		t.Fatalf("unexpected block time: %v", got)
	}
	assert.Equal(t, time.UTC, got.Location())
	assert.Panics(t, func() { swapd.WithBlockTime(ctx, now) })
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, swapd.DefaultLogger, swapd.GetLogger(ctx))

	logger := log.NewNopLogger()
	ctx = swapd.WithLogger(ctx, logger)
	assert.Equal(t, logger, swapd.GetLogger(ctx))

	ctx = swapd.WithRequestID(ctx, "req-1")
	id, ok := swapd.GetRequestID(ctx)
	if !ok || id != "req-1" {
		t.Fatalf("unexpected request id %q", id)
	}
}
