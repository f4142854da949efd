package app

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapvault/swapd/swaptest"
)

func TestRoutesRegisterEveryMessage(t *testing.T) {
	r := Routes(swaptest.NewCondition().Address())
	paths := r.Paths()
	sort.Strings(paths)
	assert.Equal(t, []string{
		"ledger/send",
		"sigs/bump_sequence",
		"swap/cancel",
		"swap/fulfill",
		"swap/open",
	}, paths)

	// The full stack resolves without a second registration panicking.
	assert.NotNil(t, Stack(swaptest.NewCondition().Address()))
}
