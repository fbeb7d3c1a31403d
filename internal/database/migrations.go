package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1Events,
	2: migrationV2MunicipalityIndex,
}

// migrationV1Events creates the events table.
//
// Column names follow the operators' own vocabulary (day, municipio, lugar,
// orquesta, tipo, hora) because import files and the admin UI use them.
const migrationV1Events = `
-- ============================================================================
-- Table: events
-- ============================================================================
-- One row per booked dance/music event.
-- ============================================================================
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Calendar date, YYYY-MM-DD, no time zone
    day TEXT NOT NULL,

    municipio TEXT NOT NULL,

    -- Empty means the default town-centre location
    lugar TEXT NOT NULL DEFAULT '',

    -- Comma-separated performer names, in billing order
    orquesta TEXT NOT NULL DEFAULT '',

    tipo TEXT NOT NULL DEFAULT '',

    -- Local start time, HH:MM, may be empty
    hora TEXT NOT NULL DEFAULT '',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    -- The same slot cannot be booked twice
    UNIQUE (day, municipio, lugar, hora)
);

-- Range scans by date (year snapshots, listings)
CREATE INDEX IF NOT EXISTS idx_events_day
    ON events(day);
`

// migrationV2MunicipalityIndex speeds up per-municipality listings.
const migrationV2MunicipalityIndex = `
CREATE INDEX IF NOT EXISTS idx_events_municipio_day
    ON events(municipio, day);
`
