package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/config"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
	"github.com/zapponejosh/verbenas-api/internal/database"
	"github.com/zapponejosh/verbenas-api/internal/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500

	// Years outside this range have no meaningful Gregorian Easter.
	minCarnivalYear = 1583
	maxCarnivalYear = 9999
)

// EventStore is the subset of the database the handlers use.
type EventStore interface {
	Health(ctx context.Context) error
	CreateEvent(ctx context.Context, r *database.EventRecord) error
	GetEvent(ctx context.Context, id int64) (*database.EventRecord, error)
	UpdateEvent(ctx context.Context, r *database.EventRecord) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEvents(ctx context.Context, f database.EventFilter) ([]database.EventRecord, error)
	ListEventsForYears(ctx context.Context, fromYear, toYear int) ([]continuity.Event, error)
	ListMunicipalities(ctx context.Context) ([]string, error)
	GetEventStats(ctx context.Context) (*database.EventStats, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db         EventStore
	continuity *continuity.Service
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db EventStore, svc *continuity.Service, cfg *config.Config, log *slog.Logger) *Handlers {
	if svc == nil {
		svc = continuity.NewService(nil, log)
	}
	return &Handlers{
		db:         db,
		continuity: svc,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// ListEvents handles GET /api/v1/events?from=&to=&municipio=&limit=&offset=
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := database.EventFilter{
		From:         q.Get("from"),
		To:           q.Get("to"),
		Municipality: q.Get("municipio"),
		Limit:        defaultListLimit,
	}

	for name, value := range map[string]string{"from": filter.From, "to": filter.To} {
		if value == "" {
			continue
		}
		if _, ok := calendar.ParseDay(value); !ok {
			WriteBadRequest(w, fmt.Sprintf("Invalid %s date: %s. Use YYYY-MM-DD", name, value))
			return
		}
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		WriteBadRequest(w, "from must be before or equal to to")
		return
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit"), defaultListLimit, 1, maxListLimit); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid limit: %v", err))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0, 0, -1); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid offset: %v", err))
		return
	}

	events, err := h.db.ListEvents(r.Context(), filter)
	if err != nil {
		h.log(r).Error("failed to list events", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	WriteSuccess(w, map[string]any{
		"events": events,
		"count":  len(events),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	event, err := h.db.GetEvent(r.Context(), id)
	if err != nil {
		if writeStoreError(w, err) {
			return
		}
		h.log(r).Error("failed to get event", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve event")
		return
	}

	WriteSuccess(w, event)
}

// CreateEvent handles POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var record database.EventRecord
	if err := decodeJSON(r, &record); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	record.ID = 0

	if err := h.db.CreateEvent(r.Context(), &record); err != nil {
		if writeStoreError(w, err) {
			return
		}
		h.log(r).Error("failed to create event", slog.Any("error", err))
		WriteInternalError(w, "Failed to create event")
		return
	}

	h.log(r).Info("event created",
		slog.Int64("id", record.ID),
		slog.String("day", record.Day),
		slog.String("municipio", record.Municipio),
	)
	WriteCreated(w, record)
}

// UpdateEvent handles PUT /api/v1/events/{id}
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var record database.EventRecord
	if err := decodeJSON(r, &record); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	record.ID = id

	if err := h.db.UpdateEvent(r.Context(), &record); err != nil {
		if writeStoreError(w, err) {
			return
		}
		h.log(r).Error("failed to update event", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to update event")
		return
	}

	WriteSuccess(w, record)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteEvent(r.Context(), id); err != nil {
		if writeStoreError(w, err) {
			return
		}
		h.log(r).Error("failed to delete event", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMunicipalities handles GET /api/v1/municipalities
func (h *Handlers) ListMunicipalities(w http.ResponseWriter, r *http.Request) {
	names, err := h.db.ListMunicipalities(r.Context())
	if err != nil {
		h.log(r).Error("failed to list municipalities", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve municipalities")
		return
	}

	WriteSuccess(w, names)
}

// GetStats handles GET /api/v1/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetEventStats(r.Context())
	if err != nil {
		h.log(r).Error("failed to get stats", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve stats")
		return
	}

	WriteSuccess(w, stats)
}

// GetContinuity handles GET /api/v1/continuity?month=0..11&year=YYYY&municipio=
//
// month is zero-based (0 = January). year defaults to the current year.
func (h *Handlers) GetContinuity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	monthStr := q.Get("month")
	if monthStr == "" {
		WriteBadRequest(w, "month parameter is required (0-11)")
		return
	}
	month, err := intParam(monthStr, 0, 0, 11)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %v", err))
		return
	}

	year, err := intParam(q.Get("year"), h.now().Year(), 1, maxCarnivalYear)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %v", err))
		return
	}

	events, err := h.db.ListEventsForYears(r.Context(), year-1, year)
	if err != nil {
		h.log(r).Error("failed to load events for continuity",
			slog.Int("year", year),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	if municipio := q.Get("municipio"); municipio != "" {
		events = continuity.FilterMunicipality(events, municipio)
	}

	report := h.continuity.Check(r.Context(), events, year, time.Month(month+1))
	WriteSuccess(w, report)
}

// GetCarnival handles GET /api/v1/carnival/{year}
func (h *Handlers) GetCarnival(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(chi.URLParam(r, "year"), 0, minCarnivalYear, maxCarnivalYear)
	if err != nil || year == 0 {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: use %d-%d", minCarnivalYear, maxCarnivalYear))
		return
	}

	WriteSuccess(w, map[string]any{
		"year":              year,
		"easter_sunday":     calendar.FormatDay(calendar.EasterSunday(year)),
		"carnival_saturday": calendar.FormatDay(calendar.CarnivalSaturday(year)),
		"carnival_tuesday":  calendar.FormatDay(calendar.CarnivalTuesday(year)),
		"ash_wednesday":     calendar.FormatDay(calendar.AshWednesday(year)),
	})
}

// pathID parses the {id} path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, fmt.Sprintf("Invalid event ID: %s", idStr))
		return 0, false
	}
	return id, true
}

// intParam parses an optional integer parameter. An empty value yields def.
// A negative hi means no upper bound.
func intParam(value string, def, lo, hi int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	if n < lo || (hi >= 0 && n > hi) {
		if hi < 0 {
			return 0, fmt.Errorf("%d must be at least %d", n, lo)
		}
		return 0, fmt.Errorf("%d is outside %d-%d", n, lo, hi)
	}
	return n, nil
}
