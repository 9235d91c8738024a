package cmd

import (
	"fmt"
	"io"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/variance"
	"github.com/spf13/cobra"
)

func NewDumpCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "dump crate.yaml|crate.cue",
		Short: "Report the variances of the items inside #[" + variance.DumpAttr + "] as diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return WriteDiagnostics(out, variance.Dump(s), opts.useColor(out))
		},
		SilenceUsage: true,
	}
	opts.register(cmd)
	return cmd
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiCyan  = "\x1b[36m"
)

func WriteDiagnostics(w io.Writer, errs *ilerr.Errors, color bool) error {
	for _, e := range errs.Errors() {
		line := ilerr.FormatWithPos(e)
		if color {
			line = colorize(e)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("could not write diagnostic: %w", err)
		}
	}
	return nil
}

func colorize(e ilerr.IleError) string {
	codeColor := ansiRed
	if e.Code() == ilerr.VarianceDump {
		codeColor = ansiCyan
	}
	line := fmt.Sprintf("%s(E%03d)%s %s", codeColor, e.Code(), ansiReset, e.Error())
	if pos := e.Position(); pos.IsValid() {
		line = ansiBold + pos.String() + ":" + ansiReset + " " + line
	}
	return line
}
