package cmd

import (
	"errors"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/pkg/log"
)

// migrateCmd applies the database schema manually, normally auto migration
// handles this on startup.
func migrateCmd() *cobra.Command {
	var downAll bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, errConfig := config.Read()
			if errConfig != nil {
				return errConfig
			}

			action := database.MigrationAction(database.MigrateUp)
			if downAll {
				action = database.MigrateDn
			}

			db := database.New(conf.Database.DSN, false, conf.Database.LogQueries)
			if errMigrate := db.Migrate(cmd.Context(), action, conf.Database.DSN); errMigrate != nil {
				if errors.Is(errMigrate, migrate.ErrNoChange) {
					slog.Info("Migration already at latest version")

					return nil
				}

				slog.Error("Could not migrate schema", log.ErrAttr(errMigrate))

				return errMigrate
			}

			slog.Info("Migration complete")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&downAll, "down", "d", false, "Fully reverts all migrations")

	return cmd
}
