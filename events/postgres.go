package events

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swapvault/swapd/errors"
)

const createEventsTableSQL = `
CREATE TABLE IF NOT EXISTS swap_events (
    id BIGSERIAL PRIMARY KEY,
    type TEXT NOT NULL,
    escrow TEXT,
    attributes JSONB NOT NULL,
    emitted_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS swap_events_escrow_idx ON swap_events (escrow);
`

const insertEventSQL = `INSERT INTO swap_events (type, escrow, attributes, emitted_at) VALUES ($1, $2, $3, $4)`

// execer is the part of a pgx pool the sink relies on.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink appends every message to the swap_events table, building an
// event history that outlives the process.
type PostgresSink struct {
	db    execer
	close func()
}

// NewPostgresSink connects to Postgres using the DSN and ensures the events
// table exists.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	if dsn == "" {
		return nil, errors.Wrap(errors.ErrInput, "postgres dsn is empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "postgres: connect: %s", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "postgres: ping: %s", err)
	}
	s := &PostgresSink{db: pool, close: pool.Close}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the events table if it does not exist yet.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createEventsTableSQL); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "postgres: create swap_events: %s", err)
	}
	return nil
}

func (PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Send(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		attrs, err := json.Marshal(m.Attributes)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		var escrow *string
		if a, ok := m.Attributes["escrow"]; ok {
			escrow = &a
		}
		if _, err := s.db.Exec(ctx, insertEventSQL, m.Type, escrow, attrs, m.At); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "postgres: insert %s: %s", m.Type, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() {
	if s.close != nil {
		s.close()
	}
}
