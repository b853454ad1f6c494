package commands

import (
	"fmt"

	"github.com/IrakliAvdulaj/trek-fleet-apply/configs"
	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := openDB()
			if err != nil {
				return err
			}
			if err := configs.SetupDatabase(db); err != nil {
				return err
			}
			log.Info("✅ schema up to date")
			return nil
		},
	}
}

func SeedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account from ADMIN_EMAIL/ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := openDB()
			if err != nil {
				return err
			}
			if err := configs.SetupDatabase(db); err != nil {
				return err
			}
			return configs.SeedAdmin(db, cfg, log)
		},
	}
}

func PromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Change the role of an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			_, _, db, err := openDB()
			if err != nil {
				return err
			}
			u, err := configs.PromoteUser(db, email, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("role", entity.RoleAdmin, "new role (admin|applicant)")
	return cmd
}
