package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Work with project dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Resolve versions and download every package into the package cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.DownloadDeps(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the packages recorded in manifest.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.ListDeps(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return cmd
}
