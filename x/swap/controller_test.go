package swap

import (
	"testing"

	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestOpen(t *testing.T) {
	maker := swaptest.NewCondition()
	stranger := swaptest.NewCondition()

	cases := map[string]struct {
		funds     uint64
		signer    bool
		nonce     uint64
		offered   coin.Coin
		requested coin.Coin
		wantErr   *errors.Error
	}{
		"whole balance": {
			funds:     100,
			signer:    true,
			offered:   coin.NewCoin(100, "XAU"),
			requested: coin.NewCoin(50, "XAG"),
		},
		"part of the balance": {
			funds:     150,
			signer:    true,
			nonce:     7,
			offered:   coin.NewCoin(100, "XAU"),
			requested: coin.NewCoin(50, "XAG"),
		},
		"insufficient funds": {
			funds:     99,
			signer:    true,
			offered:   coin.NewCoin(100, "XAU"),
			requested: coin.NewCoin(50, "XAG"),
			wantErr:   errors.ErrInsufficientFunds,
		},
		"not signed by the maker": {
			funds:     100,
			offered:   coin.NewCoin(100, "XAU"),
			requested: coin.NewCoin(50, "XAG"),
			wantErr:   errors.ErrUnauthorized,
		},
		"nothing offered": {
			funds:     100,
			signer:    true,
			offered:   coin.NewCoin(0, "XAU"),
			requested: coin.NewCoin(50, "XAG"),
			wantErr:   errors.ErrAmount,
		},
		"unknown asset": {
			funds:     100,
			signer:    true,
			offered:   coin.NewCoin(10, "XPT"),
			requested: coin.NewCoin(50, "XAG"),
			wantErr:   errors.ErrCurrency,
		},
		"unknown requested asset": {
			funds:     100,
			signer:    true,
			offered:   coin.NewCoin(100, "XAU"),
			requested: coin.NewCoin(50, "NOPE"),
			wantErr:   errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			f := initChain(t, db, "")
			f.fund(t, db, maker.Address(), coin.NewCoin(tc.funds, "XAU"))

			ctx := signedBy(stranger)
			if tc.signer {
				ctx = signedBy(maker)
			}

			addr, e, err := f.ctrl.Open(ctx, db, maker.Address(), tc.nonce, tc.offered, tc.requested)
			assert.IsErr(t, tc.wantErr, err)

			wantAddr := Derive(programID, maker.Address(), tc.nonce).Address()
			if tc.wantErr != nil {
				// no partial escrow
				assert.Equal(t, tc.funds, f.balance(t, db, maker.Address(), "XAU"))
				assert.IsErr(t, errors.ErrNotFound, NewEscrowBucket().Has(db, wantAddr))
				assert.IsErr(t, errors.ErrNotFound, NewVaultBucket().Has(db, VaultAddress(wantAddr)))
				return
			}

			assert.Equal(t, wantAddr, addr)
			assert.Equal(t, tc.offered.Amount, f.balance(t, db, VaultAddress(addr), "XAU"))
			assert.Equal(t, tc.funds-tc.offered.Amount, f.balance(t, db, maker.Address(), "XAU"))

			loaded, err := f.ctrl.Load(db, addr)
			assert.Nil(t, err)
			assert.Equal(t, e, loaded)
			assert.Equal(t, tc.requested, loaded.Requested())
			assert.Equal(t, tc.offered, loaded.Offered())

			var v Vault
			assert.Nil(t, NewVaultBucket().One(db, VaultAddress(addr), &v))
			assert.Equal(t, Vault{Escrow: addr, Ticker: "XAU", Amount: tc.offered.Amount}, v)
		})
	}
}

func TestOpenSameNonceTwice(t *testing.T) {
	maker := swaptest.NewCondition()
	db := store.MemStore()
	f := initChain(t, db, "")
	f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"))
	ctx := signedBy(maker)

	addr, _, err := f.ctrl.Open(ctx, db, maker.Address(), 1, coin.NewCoin(10, "XAU"), coin.NewCoin(1, "XAG"))
	assert.Nil(t, err)

	_, _, err = f.ctrl.Open(ctx, db, maker.Address(), 1, coin.NewCoin(10, "XAU"), coin.NewCoin(1, "XAG"))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// a different nonce is a different trade
	other, _, err := f.ctrl.Open(ctx, db, maker.Address(), 2, coin.NewCoin(10, "XAU"), coin.NewCoin(1, "XAG"))
	assert.Nil(t, err)
	if addr.Equals(other) {
		t.Fatal("two nonces derived the same address")
	}
	assert.Equal(t, uint64(80), f.balance(t, db, maker.Address(), "XAU"))

	var open []*Escrow
	keys, err := NewEscrowBucket().ByIndex(db, "maker", maker.Address(), &open)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(keys))
}

func TestCancel(t *testing.T) {
	maker := swaptest.NewCondition()
	taker := swaptest.NewCondition()

	db := store.MemStore()
	f := initChain(t, db, "")
	f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"))
	f.fund(t, db, taker.Address(), coin.NewCoin(50, "XAG"))

	addr, _, err := f.ctrl.Open(signedBy(maker), db, maker.Address(), 3, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
	assert.Nil(t, err)

	// nobody but the maker can cancel
	_, _, err = f.ctrl.Cancel(signedBy(taker), db, addr)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.ctrl.Load(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), f.balance(t, db, VaultAddress(addr), "XAU"))

	e, refund, err := f.ctrl.Cancel(signedBy(maker), db, addr)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoin(100, "XAU")}, refund)
	assert.Equal(t, maker.Address(), e.Owner)
	assert.Equal(t, uint64(100), f.balance(t, db, maker.Address(), "XAU"))

	// vault and record are gone
	assert.IsErr(t, errors.ErrNotFound, NewEscrowBucket().Has(db, addr))
	assert.IsErr(t, errors.ErrNotFound, NewVaultBucket().Has(db, VaultAddress(addr)))
	cs, err := f.ledger.Balance(db, VaultAddress(addr))
	assert.Nil(t, err)
	assert.Equal(t, true, cs.IsEmpty())

	var tomb Closed
	assert.Nil(t, NewClosedBucket().One(db, addr, &tomb))
	assert.Equal(t, OutcomeCancelled, tomb.Outcome)

	// the trade is closed for good
	_, _, err = f.ctrl.Cancel(signedBy(maker), db, addr)
	assert.IsErr(t, errors.ErrAlreadyClosed, err)
	_, _, err = f.ctrl.Fulfill(signedBy(taker), db, addr, taker.Address())
	assert.IsErr(t, errors.ErrAlreadyClosed, err)
	_, _, err = f.ctrl.Open(signedBy(maker), db, maker.Address(), 3, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
	assert.IsErr(t, errors.ErrAlreadyClosed, err)

	assert.Equal(t, uint64(50), f.balance(t, db, taker.Address(), "XAG"))
}

func TestFulfill(t *testing.T) {
	maker := swaptest.NewCondition()
	taker := swaptest.NewCondition()

	cases := map[string]struct {
		takerXAG   uint64
		signer     bool
		wantErr    *errors.Error
		wantMaker  [2]uint64 // XAU, XAG
		wantTaker  [2]uint64
		wantClosed bool
	}{
		"taker pays": {
			takerXAG:   80,
			signer:     true,
			wantMaker:  [2]uint64{0, 50},
			wantTaker:  [2]uint64{100, 30},
			wantClosed: true,
		},
		"taker too poor": {
			takerXAG:  49,
			signer:    true,
			wantErr:   errors.ErrInsufficientFunds,
			wantMaker: [2]uint64{0, 0},
			wantTaker: [2]uint64{0, 49},
		},
		"taker did not sign": {
			takerXAG:  80,
			wantErr:   errors.ErrUnauthorized,
			wantMaker: [2]uint64{0, 0},
			wantTaker: [2]uint64{0, 80},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			f := initChain(t, db, "")
			f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"))
			f.fund(t, db, taker.Address(), coin.NewCoin(tc.takerXAG, "XAG"))

			addr, _, err := f.ctrl.Open(signedBy(maker), db, maker.Address(), 1, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
			assert.Nil(t, err)

			ctx := signedBy(maker)
			if tc.signer {
				ctx = signedBy(taker)
			}
			_, released, err := f.ctrl.Fulfill(ctx, db, addr, taker.Address())
			assert.IsErr(t, tc.wantErr, err)

			assert.Equal(t, tc.wantMaker[0], f.balance(t, db, maker.Address(), "XAU"))
			assert.Equal(t, tc.wantMaker[1], f.balance(t, db, maker.Address(), "XAG"))
			assert.Equal(t, tc.wantTaker[0], f.balance(t, db, taker.Address(), "XAU"))
			assert.Equal(t, tc.wantTaker[1], f.balance(t, db, taker.Address(), "XAG"))

			if !tc.wantClosed {
				_, err := f.ctrl.Load(db, addr)
				assert.Nil(t, err)
				assert.Equal(t, uint64(100), f.balance(t, db, VaultAddress(addr), "XAU"))
				return
			}
			assert.Equal(t, coin.Coins{coin.NewCoin(100, "XAU")}, released)
			_, err = f.ctrl.Load(db, addr)
			assert.IsErr(t, errors.ErrAlreadyClosed, err)
			assert.IsErr(t, errors.ErrNotFound, NewVaultBucket().Has(db, VaultAddress(addr)))
		})
	}
}

func TestFulfillReleasesEverythingHeldByTheVault(t *testing.T) {
	maker := swaptest.NewCondition()
	taker := swaptest.NewCondition()

	db := store.MemStore()
	f := initChain(t, db, "")
	f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"))
	f.fund(t, db, taker.Address(), coin.NewCoin(50, "XAG"))

	addr, _, err := f.ctrl.Open(signedBy(maker), db, maker.Address(), 1, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
	assert.Nil(t, err)

	// anybody can send to a vault address
	f.fund(t, db, VaultAddress(addr), coin.NewCoin(5, "FEE"))

	_, released, err := f.ctrl.Fulfill(signedBy(taker), db, addr, taker.Address())
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoin(5, "FEE"), coin.NewCoin(100, "XAU")}, released)
	assert.Equal(t, uint64(5), f.balance(t, db, taker.Address(), "FEE"))
}

func TestRentIsRefundedToTheMaker(t *testing.T) {
	maker := swaptest.NewCondition()
	taker := swaptest.NewCondition()

	db := store.MemStore()
	f := initChain(t, db, `{"ticker": "FEE", "base": 10, "per_byte": 1}`)
	f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"), coin.NewCoin(1000, "FEE"))
	f.fund(t, db, taker.Address(), coin.NewCoin(50, "XAG"))

	addr, _, err := f.ctrl.Open(signedBy(maker), db, maker.Address(), 1, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
	assert.Nil(t, err)

	paid := 1000 - f.balance(t, db, maker.Address(), "FEE")
	if paid <= 20 {
		t.Fatalf("want both record and vault charged, paid %d", paid)
	}
	assert.Equal(t, paid, f.balance(t, db, rentReserve(maker), "FEE"))

	_, _, err = f.ctrl.Fulfill(signedBy(taker), db, addr, taker.Address())
	assert.Nil(t, err)

	assert.Equal(t, uint64(1000), f.balance(t, db, maker.Address(), "FEE"))
	assert.Equal(t, uint64(0), f.balance(t, db, taker.Address(), "FEE"))
	assert.Equal(t, uint64(0), f.balance(t, db, rentReserve(maker), "FEE"))
}

func TestOpenWithoutRentFunds(t *testing.T) {
	maker := swaptest.NewCondition()

	db := store.MemStore()
	f := initChain(t, db, `{"ticker": "FEE", "base": 10}`)
	f.fund(t, db, maker.Address(), coin.NewCoin(100, "XAU"), coin.NewCoin(15, "FEE"))

	// enough for the record, not for the vault
	_, _, err := f.ctrl.Open(signedBy(maker), db, maker.Address(), 1, coin.NewCoin(100, "XAU"), coin.NewCoin(50, "XAG"))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
	assert.Equal(t, uint64(15), f.balance(t, db, maker.Address(), "FEE"))
	assert.Equal(t, uint64(100), f.balance(t, db, maker.Address(), "XAU"))
}
