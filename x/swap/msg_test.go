package swap

import (
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestOpenMsgValidate(t *testing.T) {
	maker := swaptest.NewCondition().Address()

	cases := map[string]struct {
		msg     OpenMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: OpenMsg{Maker: maker, Nonce: 1, Offered: coin.NewCoin(1, "XAU"), Requested: coin.NewCoin(2, "XAG")},
		},
		"nonce zero is a nonce": {
			msg: OpenMsg{Maker: maker, Offered: coin.NewCoin(1, "XAU"), Requested: coin.NewCoin(2, "XAG")},
		},
		"missing maker": {
			msg:     OpenMsg{Offered: coin.NewCoin(1, "XAU"), Requested: coin.NewCoin(2, "XAG")},
			wantErr: errors.ErrInput,
		},
		"nothing offered": {
			msg:     OpenMsg{Maker: maker, Offered: coin.NewCoin(0, "XAU"), Requested: coin.NewCoin(2, "XAG")},
			wantErr: errors.ErrAmount,
		},
		"nothing requested": {
			msg:     OpenMsg{Maker: maker, Offered: coin.NewCoin(1, "XAU"), Requested: coin.NewCoin(0, "XAG")},
			wantErr: errors.ErrAmount,
		},
		"invalid ticker": {
			msg:     OpenMsg{Maker: maker, Offered: coin.NewCoin(1, "xau"), Requested: coin.NewCoin(2, "XAG")},
			wantErr: errors.ErrCurrency,
		},
		"same asset on both sides": {
			msg:     OpenMsg{Maker: maker, Offered: coin.NewCoin(1, "XAU"), Requested: coin.NewCoin(2, "XAU")},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestFulfillMsgValidate(t *testing.T) {
	addr := swaptest.NewCondition().Address()

	cases := map[string]struct {
		msg     FulfillMsg
		wantErr *errors.Error
	}{
		"taker defaults to signer": {msg: FulfillMsg{Escrow: addr}},
		"explicit taker":           {msg: FulfillMsg{Escrow: addr, Taker: addr}},
		"missing escrow":           {msg: FulfillMsg{}, wantErr: errors.ErrInput},
		"short taker":              {msg: FulfillMsg{Escrow: addr, Taker: swapd.Address{1, 2}}, wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}

	var cancel CancelMsg
	assert.IsErr(t, errors.ErrInput, cancel.Validate())
}
