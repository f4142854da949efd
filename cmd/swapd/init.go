package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/commands/server"
)

func (c *cli) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [address] [ticker...]",
		Short: "Initialize app options in genesis file",
		Long: `Writes the genesis file of a development chain. The account at address
receives a large supply of every listed asset (XAU and XAG by default). When
no address is given, a "default" key is generated and funded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := c.config()
			logger, err := newLogger(c.out, conf.LogFmt, conf.LogLevel)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				key, err := loadKey(conf.keyFile(defaultKeyName))
				if err != nil {
					if key, err = generateKey(conf.keyFile(defaultKeyName)); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "generated key %q\n", defaultKeyName)
				}
				args = []string{key.PublicKey().Address().String()}
			}
			return server.InitGenesis(logger, conf.Genesis, conf.ChainID, app.GenInitOptions, args)
		},
	}
	cmd.Flags().String(chainIDKey, "", "chain id of a new genesis file, random if empty")
	_ = c.v.BindPFlag(chainIDKey, cmd.Flags().Lookup(chainIDKey))
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis...]",
		Short: "Check that genesis files can be loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{c.config().Genesis}
			}
			if err := server.ValidateGenesis(app.Initializers(), args); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "ok")
			return nil
		},
	}
}
