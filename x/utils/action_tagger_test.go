package utils_test

import (
	"context"
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest"
	"github.com/swapvault/swapd/swaptest/assert"
	"github.com/swapvault/swapd/x/utils"
)

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		handler *swaptest.Handler
		err     *errors.Error
		want    []swapd.Event
	}{
		"no events": {
			handler: &swaptest.Handler{},
		},
		"passes through error": {
			handler: &swaptest.Handler{DeliverErr: errors.ErrHuman},
			err:     errors.ErrHuman,
		},
		"every event is tagged": {
			handler: &swaptest.Handler{
				DeliverResult: swapd.DeliverResult{Events: []swapd.Event{
					{Type: "first"},
					swapd.NewEvent("second", "escrow", "abc"),
				}},
			},
			want: []swapd.Event{
				swapd.NewEvent("first", utils.ActionKey, "swap/open"),
				swapd.NewEvent("second", "escrow", "abc", utils.ActionKey, "swap/open"),
			},
		},
		"attribute set by the handler wins": {
			handler: &swaptest.Handler{
				DeliverResult: swapd.DeliverResult{Events: []swapd.Event{
					swapd.NewEvent("first", utils.ActionKey, "custom"),
				}},
			},
			want: []swapd.Event{
				swapd.NewEvent("first", utils.ActionKey, "custom"),
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := swaptest.Decorate(tc.handler, utils.NewActionTagger())
			tx := &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "swap/open"}}

			res, err := h.Deliver(context.Background(), store.MemStore(), tx)
			if !tc.err.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.err != nil {
				return
			}
			assert.Equal(t, len(tc.want), len(res.Events))
			for i := range tc.want {
				assert.Equal(t, tc.want[i], res.Events[i])
			}
		})
	}
}
