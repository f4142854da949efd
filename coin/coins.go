package coin

import (
	"sort"
	"strings"

	"github.com/swapvault/swapd/errors"
)

// Coins is a set of amounts of different assets. A normalized set is sorted
// by ticker, holds at most one coin per ticker and no zero amounts.
type Coins []Coin

// CombineCoins creates a normalized Coins from a list of coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		var err error
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Clone returns an independent copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	copy(res, cs)
	return res
}

// Balance returns the amount held of a single asset. An asset that is not
// held has a zero balance.
func (cs Coins) Balance(ticker string) Coin {
	if i, ok := cs.find(ticker); ok {
		return cs[i]
	}
	return NewCoin(0, ticker)
}

// Add returns a new set with c added.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	res := cs.Clone()
	if c.IsZero() {
		return res, nil
	}
	i, ok := res.find(c.Ticker)
	if !ok {
		res = append(res, Coin{})
		copy(res[i+1:], res[i:])
		res[i] = c
		return res, nil
	}
	sum, err := res[i].Add(c)
	if err != nil {
		return nil, err
	}
	res[i] = sum
	return res, nil
}

// Subtract returns a new set with c removed. It fails with
// ErrInsufficientFunds when the set does not contain c.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	res := cs.Clone()
	if c.IsZero() {
		return res, nil
	}
	i, ok := res.find(c.Ticker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "no %s", c.Ticker)
	}
	left, err := res[i].Subtract(c)
	if err != nil {
		return nil, err
	}
	if left.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i] = left
	return res, nil
}

// Contains returns true if there is at least that much
// coin in the set.
func (cs Coins) Contains(c Coin) bool {
	return cs.Balance(c.Ticker).IsGTE(c)
}

// IsEmpty returns if nothing is in the set
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold the same amounts.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// Validate requires the set to be normalized.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrCurrency, "not sorted or duplicated ticker")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// find returns the position of the ticker or where it should be inserted.
func (cs Coins) find(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}
