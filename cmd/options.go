package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/cottand/variance/crate"
	"github.com/cottand/variance/frontend/variance"
	"github.com/cottand/variance/internal/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand
type options struct {
	logLevel          int
	parallelism       int
	constInvariant    bool
	unusedFnInvariant bool
	format            string
	color             string
}

func (o *options) register(cmd *cobra.Command) {
	defaults := variance.DefaultConfig()
	flags := cmd.Flags()
	flags.IntVarP(&o.logLevel, "log-level", "l", int(slog.LevelError), "log level")
	flags.IntVarP(&o.parallelism, "parallelism", "j", defaults.Parallelism, "items to generate constraints for concurrently")
	flags.BoolVar(&o.constInvariant, "const-invariant", defaults.ConstInvariant, "make const parameters invariant")
	flags.BoolVar(&o.unusedFnInvariant, "unused-fn-invariant", defaults.UnusedFnParamsInvariant, "make unused parameters of functions invariant")
	flags.StringVarP(&o.format, "format", "f", "text", "output format, text or json")
	flags.StringVar(&o.color, "color", "auto", "colour diagnostics: auto, always or never")
}

func (o *options) config() variance.Config {
	return variance.Config{
		Parallelism:             o.parallelism,
		ConstInvariant:          o.constInvariant,
		UnusedFnParamsInvariant: o.unusedFnInvariant,
	}
}

func (o *options) validate() error {
	if !slices.Contains([]string{"text", "json"}, o.format) {
		return fmt.Errorf("unknown format '%s', expected text or json", o.format)
	}
	if !slices.Contains([]string{"auto", "always", "never"}, o.color) {
		return fmt.Errorf("unknown colour mode '%s', expected auto, always or never", o.color)
	}
	return nil
}

// useColor decides whether diagnostics written to w are coloured
func (o *options) useColor(w io.Writer) bool {
	switch o.color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadSession loads the crate description at target. Errors in the
// description are printed to the standard error of cmd
func (o *options) loadSession(cmd *cobra.Command, target string) (*variance.Session, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	log.SetLevel(slog.Level(o.logLevel))

	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path of target: %w", err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("could not stat target: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a .yaml or .cue crate description", target)
	}

	c, errs, err := crate.LoadCrate(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return nil, fmt.Errorf("could not load crate: %w", err)
	}
	if errs.HasError() {
		stderr := cmd.ErrOrStderr()
		if err := WriteDiagnostics(stderr, errs, o.useColor(stderr)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%d errors found in crate %s", errs.Len(), c.Name)
	}
	return variance.NewSession(c, o.config()), nil
}
