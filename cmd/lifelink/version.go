package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifelink.org/internal/obs"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lifelink %s (%s)\n", obs.Version, obs.Commit)
			return err
		},
	}
}
