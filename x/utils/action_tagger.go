package utils

import (
	"github.com/swapvault/swapd"
)

// ActionTagger adds an `action = msg.Path()` attribute to every event
// emitted by a successful delivery, so subscribers can filter by the
// message that caused it.
type ActionTagger struct{}

var _ swapd.Decorator = ActionTagger{}

// ActionKey is the attribute set by ActionTagger.
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver tags the events of a successful result. An attribute set by the
// handler itself is kept.
func (ActionTagger) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	for i, ev := range res.Events {
		if _, ok := ev.Attributes[ActionKey]; ok {
			continue
		}
		if ev.Attributes == nil {
			ev.Attributes = make(map[string]string, 1)
		}
		ev.Attributes[ActionKey] = msg.Path()
		res.Events[i] = ev
	}
	return res, nil
}
