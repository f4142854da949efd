package events

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd/errors"
)

// BreakerConfig tunes the circuit breaker placed in front of a sink.
type BreakerConfig struct {
	// MinRequests is the number of requests in the current window
	// required before the failure ratio is considered.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before a probe.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig is used when no configuration is given.
var DefaultBreakerConfig = BreakerConfig{
	MinRequests:  10,
	FailureRatio: 0.6,
	OpenTimeout:  30 * time.Second,
}

// ErrSinkUnavailable is returned while the breaker of a sink is open.
var ErrSinkUnavailable = errors.Register(50, "sink unavailable")

type breakerSink struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps a sink so that once it fails often enough, sending is
// short-circuited for a while instead of waiting on a dead backend.
func WithBreaker(s Sink, conf BreakerConfig, logger log.Logger) Sink {
	if conf.FailureRatio == 0 {
		conf = DefaultBreakerConfig
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.With("sink", s.Name())
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    s.Name(),
		Timeout: conf.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= conf.MinRequests && ratio >= conf.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Error("sink seems down, stop sending")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				logger.Info("checking sink status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				logger.Info("sink seems ok, resume sending")
			}
		},
	})
	return &breakerSink{sink: s, cb: cb}
}

func (b *breakerSink) Name() string { return b.sink.Name() }

func (b *breakerSink) Send(ctx context.Context, msgs []Message) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sink.Send(ctx, msgs)
	})
	switch err {
	case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
		return errors.Wrap(ErrSinkUnavailable, err.Error())
	}
	return err
}
