package utils

import (
	"time"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Logging writes one entry per message with its path, duration and
// outcome. Failures are logged at error level, successful deliveries at
// info and successful checks at debug.
type Logging struct{}

var _ swapd.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	entry := outcome{call: "check", start: start, err: err}
	if err == nil {
		entry.log = res.Log
	}
	entry.write(ctx, tx)
	return res, err
}

func (Logging) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	entry := outcome{call: "deliver", start: start, err: err}
	if err == nil {
		entry.log = res.Log
		entry.events = len(res.Events)
	}
	entry.write(ctx, tx)
	return res, err
}

type outcome struct {
	call   string
	start  time.Time
	log    string
	events int
	err    error
}

func (o outcome) write(ctx swapd.Context, tx swapd.Tx) {
	logger := swapd.GetLogger(ctx).With("call", o.call, "duration", time.Since(o.start)/time.Microsecond)
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		logger = logger.With("path", msg.Path())
	}

	// An empty log still gets an entry, the keys carry the information.
	switch {
	case o.err != nil:
		logger.Error(o.log, "code", errors.Code(o.err), "err", o.err)
	case o.call == "check":
		logger.Debug(o.log)
	default:
		logger.Info(o.log, "events", o.events)
	}
}
