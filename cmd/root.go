package cmd

import "github.com/spf13/cobra"

// NewRootCmd returns the variance command with all of its subcommands
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "variance [subcommand]",
		Short:        "variance infers the variance of the generic parameters of the items of a crate",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}
	root.AddCommand(NewInferCmd())
	root.AddCommand(NewDumpCmd())
	root.AddCommand(NewStatsCmd())
	return root
}
