package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/zapponejosh/verbenas-api/internal/continuity"
	"github.com/zapponejosh/verbenas-api/internal/metrics"
)

// querier is satisfied by both *DB and *Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns the zero time if parsing fails.
func parseTimestamp(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return t
		}
	}

	return time.Time{}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

const eventColumns = `id, day, municipio, lugar, orquesta, tipo, hora, created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*EventRecord, error) {
	var r EventRecord
	var createdAt, updatedAt sql.NullString

	if err := s.Scan(
		&r.ID,
		&r.Day,
		&r.Municipio,
		&r.Lugar,
		&r.Orquesta,
		&r.Tipo,
		&r.Hora,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	r.CreatedAt = parseTimestamp(createdAt)
	r.UpdatedAt = parseTimestamp(updatedAt)
	return &r, nil
}

// =============================================================================
// Event Writes
// =============================================================================

// CreateEvent validates and inserts an event, setting its ID and timestamps.
// Returns ErrInvalidEvent or ErrDuplicate (same day, municipio, lugar, hora).
func (db *DB) CreateEvent(ctx context.Context, r *EventRecord) error {
	return createEvent(ctx, db, r)
}

// CreateEvent inserts an event inside the transaction.
func (tx *Tx) CreateEvent(ctx context.Context, r *EventRecord) error {
	return createEvent(ctx, tx, r)
}

func createEvent(ctx context.Context, q querier, r *EventRecord) error {
	r.Clean()
	if err := r.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (day, municipio, lugar, orquesta, tipo, hora)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at
	`

	var createdAt, updatedAt sql.NullString
	err := q.QueryRowContext(ctx, query,
		r.Day, r.Municipio, r.Lugar, r.Orquesta, r.Tipo, r.Hora,
	).Scan(&r.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert event: %w", err)
	}

	r.CreatedAt = parseTimestamp(createdAt)
	r.UpdatedAt = parseTimestamp(updatedAt)
	return nil
}

// UpdateEvent replaces every editable field of the event with r.ID.
// Returns ErrNotFound, ErrInvalidEvent or ErrDuplicate.
func (db *DB) UpdateEvent(ctx context.Context, r *EventRecord) error {
	r.Clean()
	if err := r.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE events
		SET day = ?, municipio = ?, lugar = ?, orquesta = ?, tipo = ?, hora = ?,
			updated_at = datetime('now')
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		r.Day, r.Municipio, r.Lugar, r.Orquesta, r.Tipo, r.Hora, r.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	updated, err := db.GetEvent(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("reload event: %w", err)
	}
	*r = *updated
	return nil
}

// DeleteEvent removes an event by ID.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// =============================================================================
// Event Reads
// =============================================================================

// GetEvent retrieves an event by ID.
func (db *DB) GetEvent(ctx context.Context, id int64) (*EventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	r, err := scanEvent(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query event: %w", err)
	}
	return r, nil
}

// ListEvents returns events ordered by day, hour and ID.
// Returns an empty slice if nothing matches.
func (db *DB) ListEvents(ctx context.Context, f EventFilter) ([]EventRecord, error) {
	var where []string
	var args []any

	if f.From != "" {
		where = append(where, "day >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "day <= ?")
		args = append(args, f.To)
	}
	if f.Municipality != "" {
		where = append(where, "municipio = ?")
		args = append(args, f.Municipality)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY day ASC, hora ASC, id ASC`

	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	return db.queryEvents(ctx, query, args...)
}

// ListEventsForYears returns every event whose day falls in the years
// fromYear..toYear, converted for the continuity matcher, in store order.
//
// Rows whose day does not parse are kept with calendar.Epoch as their date
// and reported in the log; the matcher never selects them.
func (db *DB) ListEventsForYears(ctx context.Context, fromYear, toYear int) ([]continuity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE substr(day, 1, 4) BETWEEN ? AND ?
		ORDER BY day ASC, hora ASC, id ASC`

	records, err := db.queryEvents(ctx, query,
		fmt.Sprintf("%04d", fromYear),
		fmt.Sprintf("%04d", toYear),
	)
	if err != nil {
		return nil, err
	}

	events := make([]continuity.Event, 0, len(records))
	invalid := 0
	for i := range records {
		e, ok := records[i].ToEvent()
		if !ok {
			invalid++
			db.logger.Warn("event has unparseable day",
				slog.Int64("id", records[i].ID),
				slog.String("day", records[i].Day),
			)
		}
		events = append(events, e)
	}
	if invalid > 0 {
		metrics.InvalidDaysTotal.Add(float64(invalid))
	}

	return events, nil
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]EventRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []EventRecord{}
	for rows.Next() {
		r, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		records = append(records, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return records, nil
}

// ListMunicipalities returns the distinct municipalities, sorted.
func (db *DB) ListMunicipalities(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT municipio FROM events ORDER BY municipio ASC`)
	if err != nil {
		return nil, fmt.Errorf("query municipalities: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate municipalities: %w", err)
	}

	return names, nil
}

// GetEventStats returns counts and the date span of the store.
func (db *DB) GetEventStats(ctx context.Context) (*EventStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT municipio),
			COALESCE(MIN(day), ''),
			COALESCE(MAX(day), '')
		FROM events
	`

	var stats EventStats
	err := db.QueryRowContext(ctx, query).Scan(
		&stats.TotalEvents,
		&stats.Municipalities,
		&stats.EarliestDay,
		&stats.LatestDay,
	)
	if err != nil {
		return nil, fmt.Errorf("query event stats: %w", err)
	}

	return &stats, nil
}
