package coin

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/swapvault/swapd/errors"
)

// IsCC is the RegExp to ensure valid asset tickers
var IsCC = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,7}$`).MatchString

// MaxDecimals is the highest precision an asset can declare.
const MaxDecimals = 18

// Coin is an amount of a single asset, counted in the smallest indivisible
// unit of that asset.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// assets, or if the sum would overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// A zero coin without a ticker has no influence on the result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, carry := bits.Add64(c.Amount, o.Amount, 0)
	if carry != 0 {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	c.Amount = sum
	return c, nil
}

// Subtract given amount. The result can never be negative, so subtracting
// more than there is fails with ErrInsufficientFunds.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) && !(c.Ticker == "" && c.IsZero()) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientFunds, "%s < %s", c, o)
	}
	c.Amount -= o.Amount
	return c, nil
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true if the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same asset
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Validate ensures the ticker is valid. Zero amounts are accepted, so you
// may want to make other checks in your business logic
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker: %q", c.Ticker)
	}
	return nil
}

// String provides a human readable representation of the coin, in the
// smallest units. Use Format to take the asset decimals into account.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

// Format renders the amount scaled by the number of decimals of the asset,
// for example 1250 with 2 decimals is "12.5 XAU".
func (c Coin) Format(decimals int32) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(c.Amount), -decimals)
	return fmt.Sprintf("%s %s", d.String(), c.Ticker)
}

var humanCoinFormatRx = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Z][A-Z0-9]{2,7})$`)

// ParseHumanFormat parses "<amount> <ticker>" where amount is in the
// smallest units.
func ParseHumanFormat(h string) (Coin, error) {
	return Parse(h, 0)
}

// Parse parses "<amount>[.<fraction>] <ticker>" and scales the amount by
// decimals. A fraction finer than the asset precision is rejected.
func Parse(h string, decimals int32) (Coin, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return Coin{}, errors.Wrapf(errors.ErrInput, "decimals %d", decimals)
	}
	m := humanCoinFormatRx.FindStringSubmatch(strings.TrimSpace(h))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "amount: %s", err)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "%s has more than %d decimals", m[1], decimals)
	}
	n := scaled.BigInt()
	if !n.IsUint64() {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %s", m[1])
	}
	return NewCoin(n.Uint64(), m[2]), nil
}

// UnmarshalJSON accepts both the object form and the human readable
// "<amount> <ticker>" string.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// an alias drops the UnmarshalJSON method
	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrapf(errors.ErrInput, "coin: %s", err)
	}
	*c = Coin(p)
	return nil
}
