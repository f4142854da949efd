package app

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// DefaultMaxAttempts bounds how many times a delivery is re-evaluated after
// losing a commit race.
const DefaultMaxAttempts = 3

// Publisher receives the events of every committed delivery.
type Publisher interface {
	Publish(ctx context.Context, events []swapd.Event)
}

// ExecutorConfig holds everything an executor is built from. Store,
// Decoder and Handler are required.
type ExecutorConfig struct {
	Store   swapd.CommitKVStore
	Decoder swapd.TxDecoder
	Handler swapd.Handler
	Queries swapd.QueryRouter

	// Publisher, if set, is given the events of committed deliveries.
	Publisher Publisher
	// Metrics, if set, records every processed transaction.
	Metrics *Metrics
	Logger  log.Logger
	// MaxAttempts defaults to DefaultMaxAttempts.
	MaxAttempts int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Executor runs transactions against the store. Every delivery is one unit
// of work: it is either committed as a whole or not at all. Units of work
// run concurrently. When two of them change the same state, the one that
// commits second is re-evaluated against the state the first one left.
type Executor struct {
	store     swapd.CommitKVStore
	decoder   swapd.TxDecoder
	handler   swapd.Handler
	queries   swapd.QueryRouter
	publisher Publisher
	metrics   *Metrics
	logger    log.Logger
	attempts  int
	clock     func() time.Time
	chainID   string
}

// NewExecutor returns an executor for a store that InitChain was already
// run on.
func NewExecutor(conf ExecutorConfig) (*Executor, error) {
	chainID, err := ChainID(conf.Store)
	if err != nil {
		return nil, err
	}
	if chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	e := &Executor{
		store:     conf.Store,
		decoder:   conf.Decoder,
		handler:   conf.Handler,
		queries:   conf.Queries,
		publisher: conf.Publisher,
		metrics:   conf.Metrics,
		logger:    conf.Logger,
		attempts:  conf.MaxAttempts,
		clock:     conf.Clock,
		chainID:   chainID,
	}
	if e.logger == nil {
		e.logger = log.NewNopLogger()
	}
	if e.attempts <= 0 {
		e.attempts = DefaultMaxAttempts
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	return e, nil
}

// ChainID returns the chain id the store was initialized with.
func (e *Executor) ChainID() string {
	return e.chainID
}

// CheckTx runs the checks of a transaction without changing any state.
func (e *Executor) CheckTx(ctx context.Context, raw []byte) (res *swapd.CheckResult, err error) {
	start := time.Now()
	path := "(missing)"
	defer func() { e.metrics.observe("check", path, errors.Code(err), start) }()

	tx, err := e.loadTx(raw)
	if err != nil {
		return nil, err
	}
	path = swapd.GetPath(tx)
	ctx = e.context(ctx, "check_tx", path)

	unit := e.store.CacheWrap()
	defer unit.Discard()
	return e.handler.Check(ctx, unit, tx)
}

// Simulate runs a delivery and throws its result away.
func (e *Executor) Simulate(ctx context.Context, raw []byte) (res *swapd.DeliverResult, err error) {
	start := time.Now()
	path := "(missing)"
	defer func() { e.metrics.observe("simulate", path, errors.Code(err), start) }()

	tx, err := e.loadTx(raw)
	if err != nil {
		return nil, err
	}
	path = swapd.GetPath(tx)
	ctx = e.context(ctx, "simulate", path)

	unit := e.store.CacheWrap()
	defer unit.Discard()
	return e.handler.Deliver(ctx, unit, tx)
}

// DeliverTx executes a transaction and commits its effects. The state
// written by a failing handler is committed too, which is how signature
// sequences advance on failed messages; savepoint decorators decide what
// else survives a failure.
//
// Events are published only after a successful commit.
func (e *Executor) DeliverTx(ctx context.Context, raw []byte) (res *swapd.DeliverResult, err error) {
	start := time.Now()
	path := "(missing)"
	defer func() { e.metrics.observe("deliver", path, errors.Code(err), start) }()

	tx, err := e.loadTx(raw)
	if err != nil {
		return nil, err
	}
	path = swapd.GetPath(tx)
	ctx = e.context(ctx, "deliver_tx", path)
	logger := swapd.GetLogger(ctx)

	for attempt := 1; ; attempt++ {
		res, err = e.deliver(ctx, tx)
		if !errors.ErrConflict.Is(err) {
			break
		}
		e.metrics.conflict(path)
		if attempt >= e.attempts {
			return nil, errors.Wrapf(err, "gave up after %d attempts", attempt)
		}
		logger.Debug("re-evaluating after commit conflict", "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}
	if e.publisher != nil && len(res.Events) > 0 {
		e.publisher.Publish(ctx, res.Events)
		e.metrics.emitted(len(res.Events))
	}
	return res, nil
}

// deliver runs a single attempt. A conflict on commit is returned as
// ErrConflict, no matter what the handler returned.
func (e *Executor) deliver(ctx swapd.Context, tx swapd.Tx) (*swapd.DeliverResult, error) {
	unit := e.store.CacheWrap()
	defer unit.Discard()

	res, err := e.handler.Deliver(ctx, unit, tx)
	if werr := unit.Write(); werr != nil {
		return nil, errors.Wrap(werr, "commit")
	}
	return res, err
}

// Query runs a read-only query on the committed state.
func (e *Executor) Query(path string, data []byte) ([]swapd.Model, error) {
	path, mod := swapd.ParseQueryPath(path)
	qh := e.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path)
	}
	return qh.Query(e.store, mod, data)
}

func (e *Executor) context(ctx context.Context, call, path string) swapd.Context {
	logger := e.logger.With("call", call, "path", path)
	if id, ok := swapd.GetRequestID(ctx); ok {
		logger = logger.With("request", id)
	}
	ctx = swapd.WithLogger(ctx, logger)
	ctx = swapd.WithChainID(ctx, e.chainID)
	return swapd.WithBlockTime(ctx, e.clock())
}

// loadTx calls the decoder, and capture any panics
func (e *Executor) loadTx(raw []byte) (tx swapd.Tx, err error) {
	defer errors.Recover(&err)
	return e.decoder(raw)
}
