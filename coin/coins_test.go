package coin

import (
	"testing"

	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestCoinsAddSubtract(t *testing.T) {
	cs, err := CombineCoins(NewCoin(5, "XAU"), NewCoin(3, "XAG"), NewCoin(2, "XAU"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoin(3, "XAG"), NewCoin(7, "XAU")}, cs)
	assert.Nil(t, cs.Validate())

	assert.Equal(t, true, cs.Contains(NewCoin(7, "XAU")))
	assert.Equal(t, false, cs.Contains(NewCoin(8, "XAU")))
	assert.Equal(t, false, cs.Contains(NewCoin(1, "USDC")))
	assert.Equal(t, NewCoin(0, "USDC"), cs.Balance("USDC"))

	left, err := cs.Subtract(NewCoin(3, "XAG"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoin(7, "XAU")}, left)

	// the original set is untouched
	assert.Equal(t, NewCoin(3, "XAG"), cs.Balance("XAG"))

	_, err = cs.Subtract(NewCoin(8, "XAU"))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
	_, err = cs.Subtract(NewCoin(1, "USDC"))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
	_, err = cs.Add(NewCoin(1, "bad"))
	assert.IsErr(t, errors.ErrCurrency, err)

	same, err := cs.Add(NewCoin(0, "USDC"))
	assert.Nil(t, err)
	assert.Equal(t, true, same.Equals(cs))
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"empty":    {coins: nil},
		"sorted":   {coins: Coins{NewCoin(1, "AAA"), NewCoin(1, "BBB")}},
		"unsorted": {coins: Coins{NewCoin(1, "BBB"), NewCoin(1, "AAA")}, wantErr: errors.ErrCurrency},
		"dupe":     {coins: Coins{NewCoin(1, "AAA"), NewCoin(1, "AAA")}, wantErr: errors.ErrCurrency},
		"zero":     {coins: Coins{NewCoin(0, "AAA")}, wantErr: errors.ErrAmount},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.coins.Validate())
		})
	}
}
