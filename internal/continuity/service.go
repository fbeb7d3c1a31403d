package continuity

import (
	"context"
	"log/slog"
	"time"

	"github.com/zapponejosh/verbenas-api/internal/metrics"
)

// Service memoises Check on its input. Caching is an optimisation only: a
// failing cache is logged and the report is computed again.
type Service struct {
	cache  Cache
	logger *slog.Logger
}

// NewService creates a Service. A nil cache disables memoisation.
func NewService(cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: cache, logger: logger}
}

// Check returns the continuity report for the given snapshot and period.
func (s *Service) Check(ctx context.Context, events []Event, year int, month time.Month) *Report {
	if s.cache == nil {
		metrics.ContinuityChecksTotal.WithLabelValues("disabled").Inc()
		return s.compute(events, year, month)
	}

	key := Fingerprint(events, year, month)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		s.logger.WarnContext(ctx, "continuity cache read failed", slog.Any("error", err))
	}
	if ok {
		metrics.ContinuityChecksTotal.WithLabelValues("hit").Inc()
		return cached
	}

	metrics.ContinuityChecksTotal.WithLabelValues("miss").Inc()
	report := s.compute(events, year, month)

	if err := s.cache.Set(ctx, key, report); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
		s.logger.WarnContext(ctx, "continuity cache write failed", slog.Any("error", err))
	}

	return report
}

func (s *Service) compute(events []Event, year int, month time.Month) *Report {
	report := Check(events, year, month)

	metrics.ContinuityReferencesTotal.WithLabelValues(string(KindFound)).Add(float64(report.FoundCount))
	metrics.ContinuityReferencesTotal.WithLabelValues(string(KindMissing)).Add(float64(report.MissingCount))

	s.logger.Debug("continuity computed",
		slog.String("period", report.Period),
		slog.Int("events", len(events)),
		slog.Int("found", report.FoundCount),
		slog.Int("missing", report.MissingCount),
		slog.Int("coverage_percent", report.CoveragePercent),
	)

	return &report
}
