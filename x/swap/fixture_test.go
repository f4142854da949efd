package swap

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/swaptest"
	"github.com/swapvault/swapd/swaptest/assert"
	"github.com/swapvault/swapd/x"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
)

var programID = swapd.NewAddress([]byte("program under test"))

// signers authenticates whatever the test puts in the context.
var signers = &swaptest.CtxAuth{Key: "signers"}

func signedBy(conds ...swapd.Condition) swapd.Context {
	return signers.SetConditions(context.Background(), conds...)
}

type fixture struct {
	ledger ledger.BaseController
	ctrl   Controller
}

// genesis returns the options of a chain with XAU, XAG and FEE declared.
// rentConf, if not empty, is the rent configuration.
func genesis(t testing.TB, rentConf string) swapd.Options {
	t.Helper()
	conf := `"swap": {"program_id": "` + programID.String() + `"}`
	if rentConf != "" {
		conf += `, "rent": ` + rentConf
	}
	raw := `{
		"ledger": {"assets": [{"ticker": "XAU", "decimals": 2}, {"ticker": "XAG"}, {"ticker": "FEE"}]},
		"conf": {` + conf + `}
	}`
	var opts swapd.Options
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))
	return opts
}

func initChain(t testing.TB, db swapd.KVStore, rentConf string) fixture {
	t.Helper()
	chain := swapd.ChainInitializers(ledger.Initializer{}, rent.Initializer{}, Initializer{})
	assert.Nil(t, chain.FromGenesis(genesis(t, rentConf), db))

	conf, err := LoadConfig(db)
	assert.Nil(t, err)

	l := ledger.NewController(x.ChainAuth(signers, Authenticate(), rent.Authenticate()))
	r := rent.NewController(l)
	return fixture{
		ledger: l,
		ctrl:   NewController(conf.ProgramID, signers, l, r),
	}
}

func (f fixture) fund(t testing.TB, db swapd.KVStore, addr swapd.Address, coins ...coin.Coin) {
	t.Helper()
	for _, c := range coins {
		assert.Nil(t, f.ledger.Issue(db, addr, c))
	}
}

func (f fixture) balance(t testing.TB, db swapd.ReadOnlyKVStore, addr swapd.Address, ticker string) uint64 {
	t.Helper()
	cs, err := f.ledger.Balance(db, addr)
	assert.Nil(t, err)
	return cs.Balance(ticker).Amount
}

func rentReserve(payer swapd.Condition) swapd.Address {
	return rent.ReserveAddress(payer.Address())
}
