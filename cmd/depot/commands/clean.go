package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/depot/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the package cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, _ := cmd.Flags().GetBool("manifest")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Manifest: manifest})
		},
	}

	cmd.Flags().BoolP("manifest", "m", false, "Also remove manifest.toml so the next download resolves again")

	return cmd
}
