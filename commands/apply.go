package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/i18n"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/views"
	"github.com/spf13/cobra"
)

func ApplyCmd() *cobra.Command {
	var d services.ApplicationDraft
	var gender, vehicle string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit or update your courier application",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			out := cmd.OutOrStdout()
			tr := a.translator()
			view := views.NewApplicantView(a.applications, store, tr, newConsoleNotifier(out), a.log)
			if err := view.Mount(ctx); err != nil {
				return err
			}
			defer view.Unmount()

			switch view.State() {
			case views.StateNoApplication:
				_, err = view.StartApplication()
			case views.StateViewing:
				_, err = view.StartEdit()
			default:
				err = views.ErrInvalidState
			}
			if errors.Is(err, views.ErrNotPending) {
				printApplication(out, tr, view.Record())
				return errors.New(tr.T("application.not.editable"))
			}
			if err != nil {
				return err
			}

			d.Gender = entity.Gender(gender)
			d.VehicleType = entity.VehicleType(vehicle)
			if err := view.Submit(ctx, d); err != nil {
				return err
			}
			printApplication(out, tr, view.Record())
			return nil
		},
	}
	credentialFlags(cmd)
	f := cmd.Flags()
	f.StringVar(&d.FirstName, "first-name", "", "first name")
	f.StringVar(&d.LastName, "last-name", "", "last name")
	f.StringVar(&d.PhoneNumber, "phone", "", "phone number")
	f.IntVar(&d.Age, "age", 0, "age (18-70)")
	f.StringVar(&gender, "gender", "", "male|female|other|prefer_not_to_say")
	f.StringVar(&vehicle, "vehicle", "", "bicycle|motorcycle|car|scooter|e-bike")
	f.StringVar(&d.WorkingHours, "working-hours", "", "preferred working hours")
	return cmd
}

func printApplication(out io.Writer, tr i18n.Translator, app *entity.CourierApplication) {
	if app == nil {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", tr.T("application.status"), tr.T(string(app.Status)))
	fmt.Fprintf(out, "  %s %s, %s %d, %s\n", app.FirstName, app.LastName, tr.T("age"), app.Age, tr.T(string(app.VehicleType)))
	fmt.Fprintf(out, "  %s: %s\n", tr.T("applied.on"), app.AppliedAt.Format("2006-01-02 15:04"))
	if notes := app.Notes(); notes != "" {
		fmt.Fprintf(out, "  %s: %s\n", tr.T("admin.notes"), notes)
	}
}
