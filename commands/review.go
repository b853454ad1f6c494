package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/IrakliAvdulaj/trek-fleet-apply/views"
	"github.com/spf13/cobra"
)

func ReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Admin: list and decide courier applications",
	}
	cmd.PersistentFlags().String("email", "", "admin email")
	cmd.PersistentFlags().String("password", "", "admin password")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every application, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminView(cmd, func(ctx context.Context, v *views.AdminView) error {
				return printListing(cmd, v)
			})
		},
	}

	decide := func(use, short string, approve bool) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " <application-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				notes, _ := cmd.Flags().GetString("notes")
				return withAdminView(cmd, func(ctx context.Context, v *views.AdminView) error {
					var err error
					if approve {
						err = v.Approve(ctx, args[0], notes)
					} else {
						err = v.Reject(ctx, args[0], notes)
					}
					if err != nil {
						return err
					}
					return printListing(cmd, v)
				})
			},
		}
		c.Flags().String("notes", "", "admin notes shown to the applicant")
		return c
	}

	cmd.AddCommand(list, decide("approve", "Approve a pending application", true), decide("reject", "Reject a pending application", false))
	return cmd
}

func withAdminView(cmd *cobra.Command, fn func(ctx context.Context, v *views.AdminView) error) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	email, password := credentials(cmd)
	store, err := a.session(ctx, email, password)
	if err != nil {
		return err
	}

	v := views.NewAdminView(a.applications, store, a.translator(), newConsoleNotifier(cmd.OutOrStdout()), a.log)
	if err := v.Mount(ctx); err != nil {
		return err
	}
	defer v.Unmount()
	return fn(ctx, v)
}

func printListing(cmd *cobra.Command, v *views.AdminView) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tVEHICLE\tSTATUS\tAPPLIED")
	for _, it := range v.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			it.ID, it.Email, it.FirstName, it.LastName, it.VehicleType, it.Status, it.AppliedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
