package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
)

func TestGenerate_Deterministic(t *testing.T) {
	opts := Options{Year: 2024, Count: 50, RebookRate: 0.8, Seed: 42}

	assert.Equal(t, Generate(opts), Generate(opts))
}

func TestGenerate_Shape(t *testing.T) {
	opts := Options{Year: 2024, Count: 200, RebookRate: 0.8, Seed: 7}
	records := Generate(opts)

	var prev, curr int
	for _, r := range records {
		require.NoError(t, r.Validate(), "record %+v", r)

		day, ok := calendar.ParseDay(r.Day)
		require.True(t, ok)

		switch day.Year() {
		case 2023:
			prev++
		case 2024:
			curr++
		default:
			t.Fatalf("record outside both seasons: %+v", r)
		}

		e, _ := r.ToEvent()
		if continuity.IsCarnival(e) {
			assert.Equal(t, calendar.CarnivalSaturday(day.Year()), day, "carnival on Carnival Saturday")
		} else {
			assert.Contains(t, []time.Weekday{time.Friday, time.Saturday}, day.Weekday())
		}
	}

	assert.Equal(t, 200, prev)
	// Rebooked plus new events; with 80% rebooking well over half return.
	assert.Greater(t, curr, 100)
}

func TestGenerate_RebookedEventsAreFound(t *testing.T) {
	opts := Options{Year: 2024, Count: 100, RebookRate: 1, Seed: 3}
	records := Generate(opts)

	events := make([]continuity.Event, 0, len(records))
	for _, r := range records {
		e, ok := r.ToEvent()
		require.True(t, ok)
		events = append(events, e)
	}

	found, total := 0, 0
	for m := time.January; m <= time.December; m++ {
		report := continuity.Check(events, 2024, m)
		found += report.FoundCount
		total += report.Total
	}

	require.Equal(t, 100, total)
	// Every reference is rebooked; only late-December ones can fall out of
	// the season, and slot collisions are rare.
	assert.Greater(t, found, 75)
}

func TestGenerate_NoRebooking(t *testing.T) {
	records := Generate(Options{Year: 2024, Count: 30, RebookRate: 0, Seed: 1})

	curr := 0
	for _, r := range records {
		if r.Day[:4] == "2024" {
			curr++
		}
	}
	assert.Equal(t, 3, curr, "only new events in the current season")
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions(2025)
	assert.Equal(t, 2025, opts.Year)
	assert.Positive(t, opts.Count)
	assert.InDelta(t, 0.8, opts.RebookRate, 1e-9)
}
