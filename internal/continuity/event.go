// Package continuity matches last year's bookings for a month against this
// year's calendar so operators can spot traditions that have not been
// re-booked yet.
//
// The core (BuildPool, References, Score, Match, Aggregate, Check) is pure:
// it performs no I/O, keeps no state between calls and cannot fail.
package continuity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

// Event is a single booking as seen by the matcher. It is read-only here;
// the event store owns it.
type Event struct {
	ID           int64
	Date         time.Time // civil date, see calendar.Date
	Municipality string
	Venue        string // empty means the default town-centre location
	Performers   []string
	Type         string
	StartTime    string // HH:MM, passed through untouched
}

// eventJSON mirrors the field names used by the event store.
type eventJSON struct {
	ID        int64  `json:"id,omitempty"`
	Day       string `json:"day"`
	Municipio string `json:"municipio"`
	Lugar     string `json:"lugar"`
	Orquesta  string `json:"orquesta"`
	Tipo      string `json:"tipo"`
	Hora      string `json:"hora"`
}

// MarshalJSON encodes the event with the store's field names.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		ID:        e.ID,
		Day:       calendar.FormatDay(e.Date),
		Municipio: e.Municipality,
		Lugar:     e.Venue,
		Orquesta:  JoinPerformers(e.Performers),
		Tipo:      e.Type,
		Hora:      e.StartTime,
	})
}

// UnmarshalJSON decodes an event written by MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, _ := calendar.ParseDay(raw.Day)
	*e = Event{
		ID:           raw.ID,
		Date:         date,
		Municipality: raw.Municipio,
		Venue:        raw.Lugar,
		Performers:   SplitPerformers(raw.Orquesta),
		Type:         raw.Tipo,
		StartTime:    raw.Hora,
	}
	return nil
}

// SplitPerformers splits the comma-separated performer list used upstream.
// Blank entries are dropped.
func SplitPerformers(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// JoinPerformers is the inverse of SplitPerformers.
func JoinPerformers(names []string) string {
	return strings.Join(names, ", ")
}
