package app

import (
	"crypto/rand"
	"encoding/json"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
	"github.com/swapvault/swapd/x/swap"
)

// DevSupply is minted per asset to the account named in GenInitOptions.
const DevSupply = 123456789

// GenInitOptions produces the app_state for a development chain: one rich
// account holding every listed asset and a fresh program id. The first
// argument is the account address, the rest are asset tickers (XAU and
// XAG by default).
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "account address required")
	}
	addr, err := swapd.ParseAddress(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	tickers := args[1:]
	if len(tickers) == 0 {
		tickers = []string{"XAU", "XAG"}
	}

	gen := ledger.Genesis{
		Accounts: []ledger.GenesisAccount{{Address: addr}},
	}
	for _, t := range tickers {
		if !coin.IsCC(t) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", t)
		}
		gen.Assets = append(gen.Assets, ledger.Asset{Ticker: t, Name: t})
		gen.Accounts[0].Coins = append(gen.Accounts[0].Coins, coin.NewCoin(DevSupply, t))
	}

	programID := make(swapd.Address, swapd.AddressLength)
	if _, err := rand.Read(programID); err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}

	type dict map[string]interface{}
	return json.Marshal(dict{
		"ledger": gen,
		"conf": dict{
			"swap": swap.Config{ProgramID: programID},
			"rent": rent.Config{},
		},
	})
}
