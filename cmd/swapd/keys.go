package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
)

const defaultKeyName = "default"

func (c *cli) keysCmd() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Manage local signing keys",
	}
	keys.AddCommand(&cobra.Command{
		Use:   "generate <name>",
		Short: "Create a new ed25519 key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := generateKey(c.config().keyFile(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, key.PublicKey().Address())
			return nil
		},
	}, &cobra.Command{
		Use:   "show <name>",
		Short: "Print the address of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(c.config().keyFile(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, key.PublicKey().Address())
			return nil
		},
	})
	return keys
}

// generateKey writes a new key to path. An existing key is never
// overwritten.
func generateKey(path string) (*crypto.PrivateKey, error) {
	if fileExists(path) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "key file %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	key := crypto.GenPrivKeyEd25519()
	if err := ioutil.WriteFile(path, []byte(hex.EncodeToString(key.Ed25519)), 0600); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return key, nil
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "key file: %s", err)
	}
	bin, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil || len(bin) != 64 {
		return nil, errors.Wrapf(errors.ErrInput, "malformed key file %s", path)
	}
	return &crypto.PrivateKey{Ed25519: bin}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
