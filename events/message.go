package events

import (
	"encoding/json"
	"time"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// Message is the wire representation of a single event, as published to
// every sink.
type Message struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
	At         time.Time         `json:"at"`
}

// NewMessages stamps all events of one delivery with the same time.
func NewMessages(at time.Time, evs []swapd.Event) []Message {
	msgs := make([]Message, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, Message{
			Type:       ev.Type,
			Attributes: ev.Attributes,
			At:         at.UTC(),
		})
	}
	return msgs
}

// Marshal returns the JSON encoding of the message.
func (m Message) Marshal() ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}
