package events

import (
	"context"
	"sync"

	"github.com/swapvault/swapd/errors"
)

// recordingSink keeps every batch it was given.
type recordingSink struct {
	mu      sync.Mutex
	name    string
	err     error
	batches [][]Message
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(ctx context.Context, msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, msgs)
	return s.err
}

func (s *recordingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

var errBackend = errors.Wrap(errors.ErrDatabase, "backend down")
