// Command resdump inspects and merges compiled Win32 resource (.res) files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/pe-emit/emit"
	"github.com/wippyai/pe-emit/fatal"
	"github.com/wippyai/pe-emit/nopia"
	"github.com/wippyai/pe-emit/win32res"
)

type globalOptions struct {
	config  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalOptions
	cmd := &cobra.Command{
		Use:           "resdump",
		Short:         "Inspect and merge Win32 .res files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(g.verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(
		&g.config, "config", "c", "",
		"Emit options file (YAML)")
	cmd.PersistentFlags().BoolVarP(
		&g.verbose, "verbose", "v", false,
		"Log emission details to stderr")

	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newMergeCmd(&g))
	cmd.AddCommand(newBrowseCmd())
	return cmd
}

func setupLogging(verbose bool) error {
	if !verbose {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	win32res.SetLogger(log)
	nopia.SetLogger(log)
	emit.SetLogger(log)
	fatal.SetHandler(fatal.ZapHandler(log.Named("fatal")))
	return nil
}

func loadOptions(g *globalOptions) (emit.Options, error) {
	if g.config == "" {
		return emit.DefaultOptions(), nil
	}
	return emit.LoadOptions(g.config)
}

func readResources(path string) ([]win32res.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := win32res.ParseRES(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
