package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// GenOptions can parse command-line arguments to generate the app_state
// of a genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitGenesis writes the genesis file at path. If the file already exists
// its chain id and other fields are kept and only app_state is replaced,
// otherwise a new file is created with chainID, or a random one if empty.
func InitGenesis(logger log.Logger, path, chainID string, gen GenOptions, args []string) error {
	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}

	if !fileExists(path) {
		if chainID == "" {
			chainID = fmt.Sprintf("swap-chain-%s", uuid.NewString()[:6])
		}
		if !swapd.IsValidChainID(chainID) {
			return errors.Wrapf(errors.ErrInput, "invalid chain id %q", chainID)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		doc := GenesisDoc{}
		doc["chain_id"], _ = json.Marshal(chainID)
		logger.Info("Generated genesis file", "path", path, "chain_id", chainID)
		return writeGenesis(path, doc, options)
	}

	logger.Info("Found genesis file", "path", path)
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", path, err)
	}
	return writeGenesis(path, doc, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc may carry fields this program does not know about, so it is
// kept in a raw object format and only app_state is touched.
type GenesisDoc map[string]json.RawMessage

func writeGenesis(filename string, doc GenesisDoc, options json.RawMessage) error {
	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

const appStateKey = "app_state"
