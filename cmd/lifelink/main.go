// Command lifelink serves the organ donation dashboards and manages the
// optional Postgres catalog behind them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lifelink.org/internal/config"
)

type rootFlags struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "lifelink",
		Short: "LifeLink organ donation dashboards",
		Long: `LifeLink serves role-gated dashboards for donors, hospitals and
administrators. Dashboards read from a built-in dataset unless a Postgres
catalog is configured with LIFELINK_PG_DSN.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(
		newServeCmd(flags),
		newMigrateCmd(flags),
		newVersionCmd(),
	)
	return root
}

func (f *rootFlags) load() (*config.Config, error) {
	return config.Load(f.configPath, f.envFile)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
