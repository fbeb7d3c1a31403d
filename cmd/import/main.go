// Command import loads events from a JSON or YAML file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/verbenas-2024.yaml -db data/verbenas.db
//
// The format is chosen from the file extension (.json, .yaml or .yml):
//
//	source: Programa de fiestas 2024
//	events:
//	  - day: 2024-06-08
//	    municipio: Adeje
//	    lugar: Plaza Central
//	    orquesta: Orquesta Acapulco, Grupo Aragua
//	    tipo: Baile Normal
//	    hora: "23:00"
//
// All events are written in a single transaction. Events already booked in
// the same slot are skipped, so the import can be re-run on a growing file.
// Invalid events are skipped and reported.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/verbenas-api/internal/database"
)

func main() {
	// Parse command line flags
	filePath := flag.String("file", "data/events.json", "Path to JSON or YAML events file")
	dbPath := flag.String("db", "data/verbenas.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*filePath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse the events file
	// =========================================================================
	logger.Info("reading events file", slog.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read events file: %w", err)
	}

	file, err := parseImportFile(filePath, data)
	if err != nil {
		return err
	}

	logger.Info("parsed events file",
		slog.Int("events", len(file.Events)),
		slog.String("source", file.Source),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import events in a transaction
	// =========================================================================
	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importEvents(ctx, tx, file.Events, logger, &stats)
	})
	if err != nil {
		return fmt.Errorf("import events: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	dbStats, err := db.GetEventStats(ctx)
	if err != nil {
		return fmt.Errorf("get event stats: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("total_events", dbStats.TotalEvents),
		slog.Int("municipalities", dbStats.Municipalities),
		slog.String("earliest_day", dbStats.EarliestDay),
		slog.String("latest_day", dbStats.LatestDay),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Events imported:     %d\n", stats.Imported)
	fmt.Printf("Duplicates skipped:  %d\n", stats.Duplicates)
	fmt.Printf("Invalid skipped:     %d\n", stats.Invalid)
	fmt.Printf("Events in database:  %d\n", dbStats.TotalEvents)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported   int
	Duplicates int
	Invalid    int
}

// parseImportFile decodes data according to the extension of path.
func parseImportFile(path string, data []byte) (*database.ImportFile, error) {
	var file database.ImportFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file extension %q: use .json, .yaml or .yml", ext)
	}

	return &file, nil
}

// eventCreator is implemented by *database.Tx.
type eventCreator interface {
	CreateEvent(ctx context.Context, r *database.EventRecord) error
}

// importEvents writes events, skipping duplicates and invalid records.
func importEvents(ctx context.Context, tx eventCreator, events []database.EventRecord, logger *slog.Logger, stats *ImportStats) error {
	for i := range events {
		e := events[i]
		e.ID = 0

		err := tx.CreateEvent(ctx, &e)
		switch {
		case err == nil:
			stats.Imported++
			logger.Debug("imported event",
				slog.Int64("id", e.ID),
				slog.String("day", e.Day),
				slog.String("municipio", e.Municipio))
		case errors.Is(err, database.ErrDuplicate):
			stats.Duplicates++
			logger.Debug("skipped duplicate event",
				slog.Int("index", i),
				slog.String("day", e.Day),
				slog.String("municipio", e.Municipio))
		case errors.Is(err, database.ErrInvalidEvent):
			stats.Invalid++
			logger.Warn("skipped invalid event",
				slog.Int("index", i),
				slog.String("error", err.Error()))
		default:
			return fmt.Errorf("create event %d (%s/%s): %w", i+1, e.Day, e.Municipio, err)
		}
	}
	return nil
}
