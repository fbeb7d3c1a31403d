package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/verbenas-api/internal/config"
	"github.com/zapponejosh/verbenas-api/internal/database"
	"github.com/zapponejosh/verbenas-api/internal/logger"
)

var (
	dbPath string
	cfg    *config.Config
	log    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verbenas",
	Short: "Verbenas event continuity CLI",
	Long: `verbenas works directly against the events database.

Check which of last year's dances have been booked again, look up the
Carnival dates for a year, or fill a database with demo data.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: $DATABASE_PATH or ./data/verbenas.db)")

	rootCmd.AddCommand(checkCmd, seedCmd, carnivalCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = &config.Config{
			Env:          config.EnvDevelopment,
			DatabasePath: "./data/verbenas.db",
			LogLevel:     "warn",
			LogFormat:    "text",
		}
	}

	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	// Command output goes to stdout; keep logs out of the way.
	log = logger.SetupWriter(cfg, os.Stderr)
	return nil
}

// openDB opens and migrates the database named by --db.
func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}
