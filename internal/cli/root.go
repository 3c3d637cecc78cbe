package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/sipcall/internal/app"
	"github.com/PabloGalante/sipcall/internal/config"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json" | "yaml"
	Verbose    bool

	// app is set by tests to run commands against a shared in-memory App.
	app *app.App
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the sipcall CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sipcall",
		Short:         "Personal phone client: contacts, call history and calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./sipcall.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	// Add subcommands
	cmd.AddCommand(newContactsCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newCallCommand(opts))
	cmd.AddCommand(newIncomingCommand(opts))

	return cmd
}

// open returns the App the command runs against and a func releasing it.
func (o *RootOptions) open(ctx context.Context, cmd *cobra.Command) (*app.App, func(), error) {
	if o.app != nil {
		return o.app, func() {}, nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	if o.Verbose {
		observability.Setup(cmd.ErrOrStderr(), "text", cfg.LogLevel)
	} else {
		observability.Discard()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, func() { a.Close() }, nil
}

func (o *RootOptions) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(o.Format, cmd.OutOrStdout())
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sipcall: %v\n", err)
		return 1
	}
	return 0
}
