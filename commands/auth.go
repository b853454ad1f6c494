package commands

import (
	"context"
	"fmt"

	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
}

func credentials(cmd *cobra.Command) (string, string) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	return email, password
}

func SignUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an applicant account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			email, password := credentials(cmd)
			store := session.NewStore(a.auth, nil, a.log)
			if _, err := store.SignUp(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.translator().T("signed.up"))
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			email, password := credentials(cmd)
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			store, err := a.session(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			snap := store.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", a.translator().T("signed.in"), snap.Identity.Email, snap.Identity.Role)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.redis == nil {
				a.log.Warn("⚠️ REDIS_URL not set: revocation stays in this process, a running server accepts the token until it expires")
			}
			store := session.NewStore(a.auth, session.NewFilePersister(a.cfg.SessionFile), a.log)
			if err := signOutStored(cmd.Context(), store, a.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.translator().T("signed.out"))
			return nil
		},
	}
}

// signOutStored เพิกถอน token ที่เก็บไว้แล้วลบไฟล์ session
func signOutStored(ctx context.Context, store *session.Store, log *logrus.Logger) error {
	if _, err := store.Restore(ctx); err != nil {
		// token เสียแล้วก็ลบไฟล์ต่อได้
		log.WithError(err).Warn("⚠️ stored session could not be restored")
	}
	return store.SignOut(ctx)
}
