package cli

import (
	"github.com/spf13/cobra"

	"github.com/PabloGalante/sipcall/internal/app/history"
	"github.com/PabloGalante/sipcall/internal/domain"
)

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the call log",
	}

	cmd.AddCommand(newHistoryListCommand(opts))
	cmd.AddCommand(newHistoryRemoveCommand(opts))
	return cmd
}

func newHistoryListCommand(opts *RootOptions) *cobra.Command {
	var f history.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			records, err := a.History.List(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).Records(f.Apply(records), history.MissedCount(records))
		},
	}

	cmd.Flags().BoolVar(&f.MissedOnly, "missed", false, "only missed calls")
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "search by name or phone")
	return cmd
}

func newHistoryRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete one call record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			if err := a.History.DeleteOne(cmd.Context(), domain.CallRecordID(args[0])); err != nil {
				return err
			}
			return opts.printer(cmd).Done("deleted", args[0])
		},
	}
}
