package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatsCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "stats crate.yaml|crate.cue",
		Short: "Print how much work inferring the variances of a crate took",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			stats := s.Stats()
			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return json.NewEncoder(out).Encode(map[string]int{
					"terms":       stats.Terms,
					"constraints": stats.Constraints,
					"passes":      stats.Passes,
				})
			}
			_, err = fmt.Fprintf(out, "crate %s\nterms: %d\nconstraints: %d\npasses: %d\n",
				s.Crate().Name, stats.Terms, stats.Constraints, stats.Passes)
			return err
		},
		SilenceUsage: true,
	}
	opts.register(cmd)
	return cmd
}
