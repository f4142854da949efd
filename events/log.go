package events

import (
	"context"
	"sort"

	"github.com/tendermint/tendermint/libs/log"
)

// LogSink writes every message to a logger at info level.
type LogSink struct {
	logger log.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		kv := make([]interface{}, 0, 2*len(m.Attributes)+2)
		kv = append(kv, "type", m.Type)
		keys := make([]string, 0, len(m.Attributes))
		for k := range m.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv = append(kv, k, m.Attributes[k])
		}
		s.logger.Info("event", kv...)
	}
	return nil
}
