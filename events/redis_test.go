package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest/assert"
)

type publishCall struct {
	channel string
	payload []byte
}

type fakeRedis struct {
	calls []publishCall
	err   error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.calls = append(f.calls, publishCall{channel: channel, payload: message.([]byte)})
	return redis.NewIntResult(1, f.err)
}

func TestRedisSinkPublishesJSON(t *testing.T) {
	rdb := &fakeRedis{}
	sink := newRedisSink(rdb, "")
	at := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)

	err := sink.Send(context.Background(), []Message{
		{Type: "swap.opened", Attributes: map[string]string{"escrow": "swap1xyz"}, At: at},
		{Type: "swap.fulfilled", At: at},
	})
	assert.Nil(t, err)
	require.Len(t, rdb.calls, 2)
	assert.Equal(t, DefaultRedisChannel, rdb.calls[0].channel)

	var got Message
	require.NoError(t, json.Unmarshal(rdb.calls[0].payload, &got))
	assert.Equal(t, "swap.opened", got.Type)
	assert.Equal(t, "swap1xyz", got.Attributes["escrow"])
	assert.Equal(t, true, got.At.Equal(at))
	assert.Nil(t, sink.Close())
}

func TestRedisSinkFailure(t *testing.T) {
	rdb := &fakeRedis{err: redis.ErrClosed}
	sink := newRedisSink(rdb, "trades")

	err := sink.Send(context.Background(), []Message{{Type: "a"}, {Type: "b"}})
	assert.IsErr(t, errors.ErrDatabase, err)
	// Stops on the first failure.
	require.Len(t, rdb.calls, 1)
	assert.Equal(t, "trades", rdb.calls[0].channel)
}
