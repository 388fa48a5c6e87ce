package commands

import "github.com/spf13/cobra"

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the cache matches the manifest and the state of each package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Status(cmd.Context(), projectDir(cmd))
			return err
		},
	}
}
