package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dem/internal/app"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Install and remove packages until the project matches its manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			_, err := c.app.Sync(cmd.Context(), app.SyncOptions{
				Dir:    projectDir(cmd),
				DryRun: dryRun,
			})
			return err
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the plan without installing or removing anything")
	return cmd
}

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what sync would install and remove",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Plan(cmd.Context(), projectDir(cmd))
			return err
		},
	}
}
