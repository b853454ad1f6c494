package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IrakliAvdulaj/trek-fleet-apply/views"
	"github.com/spf13/cobra"
)

func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show your application and wait for review decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.relay == nil {
				a.log.Warn("⚠️ REDIS_URL not set: only changes made by this process will be seen")
			}

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

			if view.State() == views.StateNoApplication {
				fmt.Fprintln(out, tr.T("application.form"), "-> courierd apply")
			}
			printApplication(out, tr, view.Record())

			<-ctx.Done()
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}
