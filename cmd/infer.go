package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/frontend/variance"
	"github.com/spf13/cobra"
)

func NewInferCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "infer crate.yaml|crate.cue",
		Short: "Print the variances of every item of a crate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			return WriteVariances(cmd.OutOrStdout(), s, opts.format)
		},
		SilenceUsage: true,
	}
	opts.register(cmd)
	return cmd
}

type itemVariances struct {
	Item      ir.ItemID     `json:"item"`
	Variances []ir.Variance `json:"variances"`
}

// WriteVariances writes a line per item that has any variances, in crate order.
// In json format every line is a JSON object
func WriteVariances(w io.Writer, s *variance.Session, format string) error {
	enc := json.NewEncoder(w)
	for item := range s.Crate().Items() {
		if !variance.HasVariances(item.Kind) {
			continue
		}
		vs := s.VariancesOf(item.ID)
		if len(vs) == 0 {
			continue
		}
		var err error
		if format == "json" {
			err = enc.Encode(itemVariances{Item: item.ID, Variances: vs})
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", item.ID, ir.ShowVariances(vs))
		}
		if err != nil {
			return fmt.Errorf("could not write variances of %s: %w", item.ID, err)
		}
	}
	return nil
}
