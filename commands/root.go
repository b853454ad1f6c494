package commands

import (
	"github.com/IrakliAvdulaj/trek-fleet-apply/configs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "courierd",
		Short:         "Courier recruitment service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		SeedAdminCmd(),
		PromoteCmd(),
		SignUpCmd(),
		LoginCmd(),
		LogoutCmd(),
		ApplyCmd(),
		WatchCmd(),
		ReviewCmd(),
	)
	return root
}

// openDB สำหรับคำสั่งที่ต้องการแค่ DB
func openDB() (*configs.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := configs.NewLogger(cfg)
	db, err := configs.ConnectionDB(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
