package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swapvault/swapd"
)

type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: newViper(), out: out}

	root := &cobra.Command{
		Use:           "swapd",
		Short:         "Two party asset swap escrow daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(c.v)
		},
	}
	root.SetOutput(out)

	flags := root.PersistentFlags()
	flags.String(homeKey, defaultHome, "directory to store files under")
	flags.String(nodeKey, "http://localhost:8080", "daemon to talk to")
	flags.String(logLevelKey, "info", "debug, info, error or none")
	flags.String(logFmtKey, "plain", "plain or json")
	flags.Bool(debugKey, false, "report stack traces of failures")
	for _, key := range []string{homeKey, nodeKey, logLevelKey, logFmtKey, debugKey} {
		_ = c.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		c.initCmd(),
		c.validateCmd(),
		c.startCmd(),
		c.keysCmd(),
		c.txCmd(),
		c.queryCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) config() Config {
	return loadConfig(c.v)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.out, swapd.Version)
		},
	}
}
