package cli

import (
	"fmt"

	"github.com/Eursukkul/regdesk/config"
	"github.com/Eursukkul/regdesk/pkg/database"
	"github.com/Eursukkul/regdesk/pkg/logger"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			db, err := database.NewPostgresDB(cfg.DSN())
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Str("database", cfg.DBName).Msg("schema up to date")
			return nil
		},
	}
}
