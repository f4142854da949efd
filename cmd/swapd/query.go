package main

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/client"
	"github.com/swapvault/swapd/commands/server"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/orm"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
	"github.com/swapvault/swapd/x/sigs"
	"github.com/swapvault/swapd/x/swap"
)

// queryModels maps every query path onto the model it returns.
var queryModels = map[string]func() orm.Model{
	"/escrows":       func() orm.Model { return &swap.Escrow{} },
	"/escrows/maker": func() orm.Model { return &swap.Escrow{} },
	"/vaults":        func() orm.Model { return &swap.Vault{} },
	"/closed":        func() orm.Model { return &swap.Closed{} },
	"/balances":      func() orm.Model { return &ledger.Wallet{} },
	"/assets":        func() orm.Model { return &ledger.Asset{} },
	"/rent":          func() orm.Model { return &rent.Allocation{} },
	"/auth":          func() orm.Model { return &sigs.UserData{} },
}

type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func (c *cli) queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <path> [key]",
		Short: "Query the committed state, for example: query /escrows/maker swap1...",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			newModel, ok := queryModels[path]
			if !ok {
				return errors.Wrapf(errors.ErrNotFound, "unknown query path %q", path)
			}
			var key []byte
			if len(args) == 2 {
				var err error
				if key, err = server.ParseKey(args[1]); err != nil {
					return err
				}
			}
			prefix, _ := cmd.Flags().GetBool("prefix")

			cl := client.NewClient(c.config().Node)
			models, err := cl.Query(context.Background(), path, key, prefix)
			if err != nil {
				return err
			}
			return c.printJSON(decodeModels(models, newModel))
		},
	}
	cmd.Flags().Bool("prefix", false, "return every model whose key starts with the given key")
	return cmd
}

func decodeModels(models []swapd.Model, newModel func() orm.Model) []queryResult {
	res := make([]queryResult, 0, len(models))
	for _, m := range models {
		obj := newModel()
		var value interface{} = obj
		if err := obj.Unmarshal(m.Value); err != nil {
			value = hex.EncodeToString(m.Value)
		}
		res = append(res, queryResult{Key: hex.EncodeToString(m.Key), Value: value})
	}
	return res
}
