package swaptest

import "github.com/swapvault/swapd"

// Tx represents a transaction holding a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg swapd.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ swapd.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (swapd.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg represents a message with a configurable path.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ swapd.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
