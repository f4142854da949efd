package rent

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/gconf"
)

// RegisterQuery exposes held fees as "/rent".
func RegisterQuery(qr swapd.QueryRouter) {
	NewAllocationBucket().Register("rent", qr)
}

// Initializer saves the fee schedule from the "conf" section of the
// genesis file.
type Initializer struct{}

var _ swapd.Initializer = Initializer{}

// FromGenesis stores the rent configuration. A genesis without one runs
// without fees.
func (Initializer) FromGenesis(opts swapd.Options, db swapd.KVStore) error {
	err := gconf.InitConfig(db, opts, packageName, &Config{})
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
