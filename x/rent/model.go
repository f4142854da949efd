package rent

import (
	"math/bits"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x"
)

const packageName = "rent"

// Config is the fee schedule. A zero configuration disables fees.
type Config struct {
	Ticker  string `json:"ticker"`
	Base    uint64 `json:"base"`
	PerByte uint64 `json:"per_byte"`
}

func (c *Config) Marshal() ([]byte, error) {
	return x.MarshalModel(c)
}

func (c *Config) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, c)
}

func (c *Config) Validate() error {
	if c.Base == 0 && c.PerByte == 0 {
		return nil
	}
	if !coin.IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "rent ticker %q", c.Ticker)
	}
	return nil
}

// Fee returns the allocation fee for an account of the given size.
func (c Config) Fee(size int) (coin.Coin, error) {
	if size < 0 {
		return coin.Coin{}, errors.Wrap(errors.ErrInput, "negative size")
	}
	hi, variable := bits.Mul64(c.PerByte, uint64(size))
	if hi != 0 {
		return coin.Coin{}, errors.Wrap(errors.ErrOverflow, "rent per byte")
	}
	total, carry := bits.Add64(c.Base, variable, 0)
	if carry != 0 {
		return coin.Coin{}, errors.Wrap(errors.ErrOverflow, "rent")
	}
	return coin.NewCoin(total, c.Ticker), nil
}

// Allocation records the fee held for one account, stored under the
// account address.
type Allocation struct {
	Payer swapd.Address `json:"payer"`
	Fee   coin.Coin     `json:"fee"`
}

var _ orm.Model = (*Allocation)(nil)

func (a *Allocation) Marshal() ([]byte, error) {
	return x.MarshalModel(a)
}

func (a *Allocation) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, a)
}

func (a *Allocation) Validate() error {
	if err := a.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if !a.Fee.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "fee must be positive")
	}
	return a.Fee.Validate()
}

// NewAllocationBucket returns the bucket of held fees.
func NewAllocationBucket() orm.ModelBucket {
	return orm.NewModelBucket(packageName, &Allocation{})
}

// ReserveCondition is the authority over the fees paid by payer.
func ReserveCondition(payer swapd.Address) swapd.Condition {
	return swapd.NewCondition(packageName, "reserve", payer)
}

// ReserveAddress is where the fees paid by payer are held.
func ReserveAddress(payer swapd.Address) swapd.Address {
	return ReserveCondition(payer).Address()
}
