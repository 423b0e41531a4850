// Command migrate applies the embedded goose migrations to PostgreSQL.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"library-backend/internal/config"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/logger"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the library PostgreSQL schema",
	PersistentPreRun: func(*cobra.Command, []string) {
		_ = godotenv.Load()
		logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	},
	SilenceUsage: true,
}

func migrationCommand(use, short string, run func(*database.Migrator, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDatabaseConfig()
			if err != nil {
				return err
			}

			m, err := database.OpenMigrator(dbCfg)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(m, ctx)
		},
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Deadline for the whole migration run")

	rootCmd.AddCommand(
		migrationCommand("up", "Apply every pending migration", (*database.Migrator).Up),
		migrationCommand("down", "Roll back the latest migration", (*database.Migrator).Down),
		migrationCommand("status", "Print applied and pending migrations", (*database.Migrator).Status),
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
