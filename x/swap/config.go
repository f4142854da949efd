package swap

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/gconf"
	"github.com/swapvault/swapd/x"
)

const packageName = "swap"

// Config holds the identity of this program. It is set at genesis and
// never changes, because every trade address is derived from it.
type Config struct {
	ProgramID swapd.Address `json:"program_id"`
}

func (c *Config) Marshal() ([]byte, error) {
	return x.MarshalModel(c)
}

func (c *Config) Unmarshal(raw []byte) error {
	return x.UnmarshalModel(raw, c)
}

func (c *Config) Validate() error {
	return errors.Wrap(c.ProgramID.Validate(), "program id")
}

// LoadConfig reads the configuration saved at genesis.
func LoadConfig(db swapd.ReadOnlyKVStore) (Config, error) {
	var c Config
	err := gconf.Load(db, packageName, &c)
	return c, err
}

// Initializer stores the program identity from the "conf" section of the
// genesis file.
type Initializer struct{}

var _ swapd.Initializer = Initializer{}

func (Initializer) FromGenesis(opts swapd.Options, db swapd.KVStore) error {
	return gconf.InitConfig(db, opts, packageName, &Config{})
}
