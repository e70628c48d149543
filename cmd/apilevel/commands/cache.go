package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm [platforms...]",
		Short: "Build or validate the API databases ahead of time",
		Long: `Build or validate the API database for the configured platform and
for every additional platform given as an argument. Databases are
prepared concurrently.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.app.Warm(cmd.Context(), c.options(), args...)
			if err != nil {
				return err
			}
			p := c.printer(cmd.OutOrStdout())
			for _, r := range results {
				if err := p.warm(r); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [platforms...]",
		Short: "Remove cached API databases",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := c.app.Clean(cmd.Context(), c.options(), args...)
			p := c.printer(cmd.OutOrStdout())
			for _, path := range removed {
				if perr := p.removed(path); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func (c *CLI) newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print a text rendering of the whole API database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Dump(cmd.Context(), c.options(), cmd.OutOrStdout())
		},
	}
}
