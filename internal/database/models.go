package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
)

// hourLayout is the format of EventRecord.Hora.
const hourLayout = "15:04"

// EventRecord is a stored event, using the store's own field names.
type EventRecord struct {
	ID        int64     `json:"id" yaml:"-"`
	Day       string    `json:"day" yaml:"day"`             // YYYY-MM-DD
	Municipio string    `json:"municipio" yaml:"municipio"` // municipality
	Lugar     string    `json:"lugar" yaml:"lugar"`         // venue, may be empty
	Orquesta  string    `json:"orquesta" yaml:"orquesta"`   // comma-separated performers
	Tipo      string    `json:"tipo" yaml:"tipo"`           // event type
	Hora      string    `json:"hora" yaml:"hora"`           // HH:MM, may be empty
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Clean trims surrounding whitespace from every text field.
func (r *EventRecord) Clean() {
	r.Day = strings.TrimSpace(r.Day)
	r.Municipio = strings.TrimSpace(r.Municipio)
	r.Lugar = strings.TrimSpace(r.Lugar)
	r.Orquesta = continuity.JoinPerformers(continuity.SplitPerformers(r.Orquesta))
	r.Tipo = strings.TrimSpace(r.Tipo)
	r.Hora = strings.TrimSpace(r.Hora)
}

// Validate checks the fields the store depends on.
func (r *EventRecord) Validate() error {
	if _, ok := calendar.ParseDay(r.Day); !ok {
		return fmt.Errorf("%w: day %q is not a YYYY-MM-DD date", ErrInvalidEvent, r.Day)
	}
	if r.Municipio == "" {
		return fmt.Errorf("%w: municipio is required", ErrInvalidEvent)
	}
	if r.Hora != "" {
		if _, err := time.Parse(hourLayout, r.Hora); err != nil {
			return fmt.Errorf("%w: hora %q is not HH:MM", ErrInvalidEvent, r.Hora)
		}
	}
	return nil
}

// ToEvent converts the record for the continuity matcher. A day that does
// not parse becomes calendar.Epoch and the second result is false.
func (r *EventRecord) ToEvent() (continuity.Event, bool) {
	date, ok := calendar.ParseDay(r.Day)
	return continuity.Event{
		ID:           r.ID,
		Date:         date,
		Municipality: r.Municipio,
		Venue:        r.Lugar,
		Performers:   continuity.SplitPerformers(r.Orquesta),
		Type:         r.Tipo,
		StartTime:    r.Hora,
	}, ok
}

// EventFilter narrows ListEvents. Zero values mean "no constraint".
type EventFilter struct {
	From         string // inclusive YYYY-MM-DD
	To           string // inclusive YYYY-MM-DD
	Municipality string // exact match
	Limit        int
	Offset       int
}

// ImportFile is the layout of JSON/YAML files accepted by cmd/import.
type ImportFile struct {
	Source string        `json:"source,omitempty" yaml:"source,omitempty"`
	Events []EventRecord `json:"events" yaml:"events"`
}

// EventStats summarises the store.
type EventStats struct {
	TotalEvents    int    `json:"total_events"`
	Municipalities int    `json:"municipalities"`
	EarliestDay    string `json:"earliest_day"`
	LatestDay      string `json:"latest_day"`
}
