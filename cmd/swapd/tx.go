package main

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/client"
	"github.com/swapvault/swapd/coin"
	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/swap"
)

const fromFlag = "from"

func (c *cli) txCmd() *cobra.Command {
	tx := &cobra.Command{
		Use:   "tx",
		Short: "Sign and submit transactions",
	}
	tx.PersistentFlags().String(fromFlag, defaultKeyName, "name of the signing key")

	open := &cobra.Command{
		Use:   "open <nonce> <offered> <requested>",
		Short: `Open a trade, for example: open 1 "10.5 XAU" "200 XAG"`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nonce, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "nonce: %s", err)
			}
			return c.submit(cmd, func(ctx context.Context, cl *client.Client, key *crypto.PrivateKey) (swapd.Msg, error) {
				offered, err := parseAmount(ctx, cl, args[1])
				if err != nil {
					return nil, errors.Wrap(err, "offered")
				}
				requested, err := parseAmount(ctx, cl, args[2])
				if err != nil {
					return nil, errors.Wrap(err, "requested")
				}
				return &swap.OpenMsg{
					Maker:     key.PublicKey().Address(),
					Nonce:     nonce,
					Offered:   offered,
					Requested: requested,
				}, nil
			})
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel <escrow>",
		Short: "Cancel an open trade and return the deposit to the maker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			escrow, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return c.submit(cmd, func(context.Context, *client.Client, *crypto.PrivateKey) (swapd.Msg, error) {
				return &swap.CancelMsg{Escrow: escrow}, nil
			})
		},
	}

	fulfill := &cobra.Command{
		Use:   "fulfill <escrow> [taker]",
		Short: "Pay the requested amount and take the deposit",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			escrow, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			msg := &swap.FulfillMsg{Escrow: escrow}
			if len(args) == 2 {
				if msg.Taker, err = parseAddress(args[1]); err != nil {
					return err
				}
			}
			return c.submit(cmd, func(context.Context, *client.Client, *crypto.PrivateKey) (swapd.Msg, error) {
				return msg, nil
			})
		},
	}

	send := &cobra.Command{
		Use:   "send <destination> <amount> [memo]",
		Short: "Move assets to another account",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return c.submit(cmd, func(ctx context.Context, cl *client.Client, key *crypto.PrivateKey) (swapd.Msg, error) {
				amount, err := parseAmount(ctx, cl, args[1])
				if err != nil {
					return nil, err
				}
				msg := &ledger.SendMsg{
					Source:      key.PublicKey().Address(),
					Destination: dest,
					Amount:      amount,
				}
				if len(args) == 3 {
					msg.Memo = args[2]
				}
				return msg, nil
			})
		},
	}

	tx.AddCommand(open, cancel, fulfill, send)
	return tx
}

type msgBuilder func(ctx context.Context, cl *client.Client, key *crypto.PrivateKey) (swapd.Msg, error)

// submit builds the message, signs it with the --from key and prints the
// daemon response.
func (c *cli) submit(cmd *cobra.Command, build msgBuilder) error {
	conf := c.config()
	from, err := cmd.Flags().GetString(fromFlag)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	key, err := loadKey(conf.keyFile(from))
	if err != nil {
		return err
	}

	ctx := context.Background()
	cl := client.NewClient(conf.Node)
	msg, err := build(ctx, cl, key)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	res, err := cl.SignAndSubmit(ctx, msg, key)
	if err != nil {
		return err
	}
	return c.printJSON(res)
}

// parseAmount reads "<amount> <ticker>" using the precision of the asset.
func parseAmount(ctx context.Context, cl *client.Client, h string) (coin.Coin, error) {
	fields := strings.Fields(h)
	if len(fields) == 0 {
		return coin.Coin{}, errors.Wrap(errors.ErrInput, "empty amount")
	}
	ticker := fields[len(fields)-1]
	models, err := cl.Query(ctx, "/assets", []byte(ticker), false)
	if err != nil {
		return coin.Coin{}, err
	}
	var asset ledger.Asset
	if err := app.UnmarshalOneResult(models, &asset); err != nil {
		return coin.Coin{}, errors.Wrapf(err, "asset %s", ticker)
	}
	return coin.Parse(h, asset.Decimals)
}

func parseAddress(enc string) (swapd.Address, error) {
	addr, err := swapd.ParseAddress(enc)
	if err != nil {
		return nil, err
	}
	return addr, addr.Validate()
}

func (c *cli) printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = c.out.Write(append(out, '\n'))
	return err
}
