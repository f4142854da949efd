package events

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// DefaultQueueSize is the number of batches a publisher buffers before it
// starts dropping.
const DefaultQueueSize = 1024

// Sink receives batches of messages from the publisher dispatcher. Send is
// never called concurrently for the same sink.
type Sink interface {
	Name() string
	Send(ctx context.Context, msgs []Message) error
}

// Publisher queues committed events and dispatches them to sinks.
type Publisher struct {
	queue   chan []Message
	sinks   []Sink
	logger  log.Logger
	clock   func() time.Time
	dropped uint64
}

// NewPublisher returns a publisher dispatching to all given sinks. A size
// below one is replaced with DefaultQueueSize.
func NewPublisher(size int, logger log.Logger, sinks ...Sink) *Publisher {
	if size < 1 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Publisher{
		queue:  make(chan []Message, size),
		sinks:  sinks,
		logger: logger.With("module", "events"),
		clock:  time.Now,
	}
}

// Publish queues events for dispatching. It never blocks: when the queue is
// full the batch is dropped and counted.
func (p *Publisher) Publish(ctx context.Context, evs []swapd.Event) {
	if len(evs) == 0 {
		return
	}
	select {
	case p.queue <- NewMessages(p.clock(), evs):
	default:
		atomic.AddUint64(&p.dropped, 1)
		p.logger.Error("event queue full, dropping batch", "events", len(evs))
	}
}

// Dropped returns how many batches were dropped because the queue was full.
func (p *Publisher) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// Run dispatches queued batches until the context is cancelled. Batches
// still queued at that point are flushed before Run returns.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case msgs := <-p.queue:
			p.dispatch(ctx, msgs)
		case <-ctx.Done():
			p.flush()
			return nil
		}
	}
}

func (p *Publisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case msgs := <-p.queue:
			p.dispatch(ctx, msgs)
		default:
			return
		}
	}
}

func (p *Publisher) dispatch(ctx context.Context, msgs []Message) {
	for _, s := range p.sinks {
		if err := s.Send(ctx, msgs); err != nil {
			p.logger.Error("cannot deliver events",
				"sink", s.Name(),
				"events", len(msgs),
				"err", errors.Wrap(err, s.Name()))
		}
	}
}
