package server

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
)

// ValidateGenesis runs every genesis file through the initializer against
// a throwaway store.
func ValidateGenesis(ini swapd.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini swapd.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
