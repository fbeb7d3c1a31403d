package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/verbenas-api/internal/database"
	"github.com/zapponejosh/verbenas-api/internal/seed"
)

var (
	seedYear   int
	seedCount  int
	seedRebook float64
	seedSeed   int64
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo events",
	Long: `Generate two seasons of demo events: --count events in the year before
--year, most of them booked again in --year, plus a few new ones.

Events already booked in the same slot are skipped.

Examples:
  verbenas seed --year 2024
  verbenas seed --year 2024 --count 500 --rebook 0.6 --seed 42`,
	RunE: runSeed,
}

func init() {
	defaults := seed.DefaultOptions(time.Now().Year())

	seedCmd.Flags().IntVar(&seedYear, "year", defaults.Year, "current season; the previous year is generated too")
	seedCmd.Flags().IntVar(&seedCount, "count", defaults.Count, "events in the previous season")
	seedCmd.Flags().Float64Var(&seedRebook, "rebook", defaults.RebookRate, "share of events booked again, 0-1")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (default: time based)")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "generate but do not write")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", seedCount)
	}
	if seedRebook < 0 || seedRebook > 1 {
		return fmt.Errorf("--rebook must be between 0 and 1, got %g", seedRebook)
	}

	opts := seed.DefaultOptions(seedYear)
	opts.Count = seedCount
	opts.RebookRate = seedRebook
	if seedSeed != 0 {
		opts.Seed = seedSeed
	}

	records := seed.Generate(opts)
	printInfo("Generated %d events for %d-%d (seed %d)", len(records), seedYear-1, seedYear, opts.Seed)

	if seedDryRun {
		printWarn("Dry run: nothing written")
		return nil
	}

	ctx := cmd.Context()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, skipped := 0, 0
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		for i := range records {
			err := tx.CreateEvent(ctx, &records[i])
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, database.ErrDuplicate):
				skipped++
			default:
				return fmt.Errorf("create event %s/%s: %w", records[i].Day, records[i].Municipio, err)
			}
		}
		return nil
	})
	if err != nil {
		printError("Seeding failed: %v", err)
		return err
	}

	log.Debug("seed complete", slog.Int("inserted", inserted), slog.Int("skipped", skipped))
	printSuccess("Inserted %d events into %s (%d duplicates skipped)", inserted, dbPath, skipped)
	return nil
}
