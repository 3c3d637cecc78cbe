package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/domain"
)

func newContactsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage the contact directory",
	}

	cmd.AddCommand(newContactsAddCommand(opts))
	cmd.AddCommand(newContactsListCommand(opts))
	cmd.AddCommand(newContactsShowCommand(opts))
	cmd.AddCommand(newContactsFindCommand(opts))
	cmd.AddCommand(newContactsEditCommand(opts))
	cmd.AddCommand(newContactsRemoveCommand(opts))
	return cmd
}

func newContactsAddCommand(opts *RootOptions) *cobra.Command {
	var in directory.CreateContactInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			id, err := a.Directory.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return opts.printer(cmd).Done("created", string(id))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Name, "name", "", "contact name (required)")
	flags.StringVar(&in.Phone, "phone", "", "phone number (required)")
	flags.StringVar(&in.Email, "email", "", "email address")
	flags.StringVar(&in.Company, "company", "", "company")
	return cmd
}

func newContactsListCommand(opts *RootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, optionally filtered by name or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			contacts, err := a.Directory.List(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).Contacts(directory.Search(contacts, query))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search text")
	return cmd
}

func newContactsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			c, err := a.Directory.Get(cmd.Context(), domain.ContactID(args[0]))
			if err != nil {
				return err
			}
			return opts.printer(cmd).Contact(c)
		},
	}
}

func newContactsFindCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <phone>",
		Short: "Find the contact with exactly this phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			c, err := a.Directory.FindByPhone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("no contact with phone %q: %w", args[0], domain.ErrNotFound)
			}
			return opts.printer(cmd).Contact(c)
		},
	}
}

func newContactsEditCommand(opts *RootOptions) *cobra.Command {
	var name, phone, email, company string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change some fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			// only flags given on the command line are part of the patch
			var patch domain.ContactPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("phone") {
				patch.Phone = &phone
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("company") {
				patch.Company = &company
			}

			id := domain.ContactID(args[0])
			if err := a.Directory.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			return opts.printer(cmd).Done("updated", string(id))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "new name")
	flags.StringVar(&phone, "phone", "", "new phone number")
	flags.StringVar(&email, "email", "", "new email address")
	flags.StringVar(&company, "company", "", "new company")
	return cmd
}

func newContactsRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			if err := a.Directory.Delete(cmd.Context(), domain.ContactID(args[0])); err != nil {
				return err
			}
			return opts.printer(cmd).Done("deleted", args[0])
		},
	}
}
