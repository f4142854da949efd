package swaptest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/swapvault/swapd"
)

var condSeq uint64

// NewCondition returns a unique condition. Every call returns a condition
// that was not returned before within this process.
func NewCondition() swapd.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return swapd.NewCondition("test", "seq", data)
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) swapd.Address {
	t.Helper()

	addr, err := swapd.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
