package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"staffhive/internal/platform/config"
	"staffhive/internal/platform/db"
)

var migrateRollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.StorageDriver != config.DriverPostgres || cfg.DatabaseURL == "" {
			return errors.New("migrate needs STORAGE_DRIVER=postgres and DATABASE_URL")
		}
		if migrateRollback {
			if err := db.Rollback(cmd.Context(), cfg.DatabaseURL); err != nil {
				return err
			}
			slog.Info("rolled back latest migration")
			return nil
		}
		if err := db.Migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
}
