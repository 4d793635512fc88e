package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ezistra/internal/infrastructure/migration"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить или откатить миграции PostgreSQL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.DB.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI is not set")
		}
		m := migration.NewMigration(cfg.DB, migration.DefaultEngine)
		if migrateDown {
			if err := m.Down(); err != nil {
				return err
			}
			log.Info("migrations rolled back", "path", cfg.DB.Migrations)
			return nil
		}
		if err := m.Up(); err != nil {
			return err
		}
		log.Info("migrations applied", "path", cfg.DB.Migrations)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "откатить все миграции")
}
