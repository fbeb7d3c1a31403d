package continuity

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
)

// ev builds an event from a YYYY-MM-DD day.
func ev(id int64, day, municipality, venue, eventType string) Event {
	date, ok := calendar.ParseDay(day)
	if !ok {
		panic("bad test date " + day)
	}
	return Event{
		ID:           id,
		Date:         date,
		Municipality: municipality,
		Venue:        venue,
		Type:         eventType,
		Performers:   []string{"Orquesta Acapulco", "Grupo Aragua"},
		StartTime:    "23:00",
	}
}

func ids(events []Event) []int64 {
	out := make([]int64, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

// -----------------------------------------------------------------
// Normalisation
// -----------------------------------------------------------------

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Adeje", "adeje"},
		{"  Güímar ", "guimar"},
		{"SANTA CRUZ", "santa cruz"},
		{"La Orotava", "la orotava"},
		{"Icod de los Vinos", "icod de los vinos"},
		{"Candelária", "candelaria"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIsCarnival(t *testing.T) {
	assert.True(t, IsCarnival(Event{Type: "Carnaval"}))
	assert.True(t, IsCarnival(Event{Type: "Baile de Carnával"}))
	assert.True(t, IsCarnival(Event{Type: "Baile Normal", Venue: "Recinto del CARNAVAL"}))
	assert.False(t, IsCarnival(Event{Type: "Baile Normal", Venue: "Plaza Central"}))
	assert.False(t, IsCarnival(Event{}))
}

func TestFilterMunicipality(t *testing.T) {
	events := []Event{
		ev(1, "2024-06-08", "Güímar", "", "Baile Normal"),
		ev(2, "2024-06-08", "Arona", "", "Baile Normal"),
		ev(3, "2024-06-15", "guimar ", "", "Baile Normal"),
	}

	got := FilterMunicipality(events, "GUIMAR")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Empty(t, FilterMunicipality(events, "Adeje"))
}

// -----------------------------------------------------------------
// Candidate pool
// -----------------------------------------------------------------

func TestWindow(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		from, to string
	}{
		{"june", 2024, time.June, "2024-05-17", "2024-07-15"},
		{"january clamps look-back", 2024, time.January, "2024-01-01", "2024-02-15"},
		{"leap february", 2024, time.February, "2024-01-17", "2024-03-15"},
		{"december", 2024, time.December, "2024-11-16", "2025-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := Window(tt.year, tt.month)
			assert.Equal(t, tt.from, calendar.FormatDay(from))
			assert.Equal(t, tt.to, calendar.FormatDay(to))
		})
	}
}

func TestBuildPool(t *testing.T) {
	events := []Event{
		ev(1, "2024-07-15", "Adeje", "", "Baile Normal"), // last day of window
		ev(2, "2024-07-16", "Adeje", "", "Baile Normal"), // outside
		ev(3, "2024-05-17", "Adeje", "", "Baile Normal"), // first day of window
		ev(4, "2024-05-16", "Adeje", "", "Baile Normal"), // outside
		ev(5, "2023-06-10", "Adeje", "", "Baile Normal"), // wrong year
		ev(6, "2024-06-08", "Arona", "", "Baile Normal"),
		ev(7, "2024-06-08", "Adeje", "", "Baile Normal"), // same date as 6, later in source
	}

	pool := BuildPool(events, 2024, time.June)
	assert.Equal(t, []int64{3, 6, 7, 1}, ids(pool))
}

func TestBuildPool_JanuaryAndDecember(t *testing.T) {
	events := []Event{
		ev(1, "2023-12-28", "Adeje", "", "Baile Normal"),
		ev(2, "2024-01-01", "Adeje", "", "Baile Normal"),
		ev(3, "2024-12-30", "Adeje", "", "Baile Normal"),
		ev(4, "2025-01-04", "Adeje", "", "Baile Normal"),
	}

	assert.Equal(t, []int64{2}, ids(BuildPool(events, 2024, time.January)))
	assert.Equal(t, []int64{3}, ids(BuildPool(events, 2024, time.December)))
}

func TestBuildPool_DoesNotReorderInput(t *testing.T) {
	events := []Event{
		ev(1, "2024-06-20", "Adeje", "", "Baile Normal"),
		ev(2, "2024-06-01", "Adeje", "", "Baile Normal"),
	}

	pool := BuildPool(events, 2024, time.June)
	assert.Equal(t, []int64{2, 1}, ids(pool))
	assert.Equal(t, []int64{1, 2}, ids(events))
}

func TestReferences(t *testing.T) {
	events := []Event{
		ev(1, "2023-06-24", "Adeje", "", "Baile Normal"),
		ev(2, "2023-06-10", "Adeje", "", "Baile Normal"),
		ev(3, "2023-07-01", "Adeje", "", "Baile Normal"),
		ev(4, "2024-06-08", "Adeje", "", "Baile Normal"),
		ev(5, "2022-06-11", "Adeje", "", "Baile Normal"),
	}

	assert.Equal(t, []int64{2, 1}, ids(References(events, 2024, time.June)))
	assert.Empty(t, References(events, 2024, time.August))
}

// -----------------------------------------------------------------
// Scoring
// -----------------------------------------------------------------

func TestScore(t *testing.T) {
	ref := ev(1, "2023-06-10", "Adeje", "Plaza Central", "Baile Normal")

	tests := []struct {
		name         string
		cand         Event
		wantEligible bool
		wantDistance int
	}{
		{"exactly 52 weeks", ev(2, "2024-06-08", "Adeje", "Plaza Central", "Baile Normal"), true, 0},
		{"53 weeks", ev(3, "2024-06-15", "Adeje", "Plaza Central", "Baile Normal"), true, 7},
		{"54 weeks", ev(4, "2024-06-22", "Adeje", "Plaza Central", "Baile Normal"), true, 14},
		{"municipality folded", ev(5, "2024-06-08", " ADEJE ", "plaza central", "Baile Normal"), true, 0},
		{"other municipality", ev(6, "2024-06-08", "Arona", "Plaza Central", "Baile Normal"), false, 0},
		{"other weekday", ev(7, "2024-06-07", "Adeje", "Plaza Central", "Baile Normal"), false, 0},
		{"other venue", ev(8, "2024-06-08", "Adeje", "Playa de Fañabé", "Baile Normal"), false, 0},
		{"candidate venue empty", ev(9, "2024-06-08", "Adeje", "  ", "Baile Normal"), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, eligible := Score(ref, tt.cand)
			assert.Equal(t, tt.wantEligible, eligible)
			if tt.wantEligible {
				assert.Equal(t, tt.wantDistance, distance)
			}
		})
	}
}

func TestScore_EmptyReferenceVenueMatchesAnyVenue(t *testing.T) {
	ref := ev(1, "2023-06-10", "Adeje", "", "Baile Normal")

	for _, venue := range []string{"", "Plaza Central", "Campo de Fútbol"} {
		distance, eligible := Score(ref, ev(2, "2024-06-08", "Adeje", venue, "Baile Normal"))
		assert.True(t, eligible, "venue %q", venue)
		assert.Equal(t, 0, distance, "venue %q", venue)
	}
}

func TestScore_CarnivalFollowsEaster(t *testing.T) {
	// Carnival Tuesday: 2023-02-21, 2024-02-13. The reference is three days
	// before it.
	ref := ev(1, "2023-02-18", "Santa Cruz", "", "Carnaval")

	distance, eligible := Score(ref, ev(2, "2024-02-10", "Santa Cruz", "", "Carnaval"))
	require.True(t, eligible)
	assert.Equal(t, 0, distance)

	// 364 days later is a week off relative to Carnival.
	distance, eligible = Score(ref, ev(3, "2024-02-17", "Santa Cruz", "", "Carnaval"))
	require.True(t, eligible)
	assert.Equal(t, 7, distance)

	// 371 days later would be acceptable for an ordinary event but is two
	// weeks off relative to Carnival.
	distance, eligible = Score(ref, ev(4, "2024-02-24", "Santa Cruz", "", "Carnaval"))
	require.True(t, eligible)
	assert.Equal(t, 14, distance)
	assert.False(t, Acceptable(distance))
}

func TestScore_CarnivalOverridesFixedShift(t *testing.T) {
	// Carnival Tuesday: 2024-02-13, 2025-03-04. The calendar gap between
	// these two bookings is 385 days, 21 away from 52 weeks.
	ref := ev(1, "2024-02-10", "Santa Cruz", "", "Carnaval")
	cand := ev(2, "2025-03-01", "Santa Cruz", "", "Carnaval")

	require.Equal(t, 385, calendar.DaysBetween(cand.Date, ref.Date))

	distance, eligible := Score(ref, cand)
	require.True(t, eligible)
	assert.Equal(t, 0, distance)

	ordinary := ref
	ordinary.Type = "Baile Normal"
	distance, eligible = Score(ordinary, cand)
	require.True(t, eligible)
	assert.Equal(t, 21, distance)
}

// -----------------------------------------------------------------
// Matching
// -----------------------------------------------------------------

func TestMatch_PicksSmallestDistance(t *testing.T) {
	ref := ev(1, "2023-06-10", "Adeje", "Plaza Central", "Baile Normal")
	pool := []Event{
		ev(2, "2024-06-15", "Adeje", "Plaza Central", "Baile Normal"), // distance 7
		ev(3, "2024-06-08", "Adeje", "Plaza Central", "Baile Normal"), // distance 0
	}

	results := Match([]Event{ref}, pool)
	require.Len(t, results, 1)
	assert.Equal(t, KindFound, results[0].Kind)
	require.NotNil(t, results[0].Matched)
	assert.Equal(t, int64(3), results[0].Matched.ID)
	assert.Equal(t, 0, results[0].Distance)
	assert.False(t, results[0].IsCarnival)
}

func TestMatch_TieGoesToFirstInPool(t *testing.T) {
	ref := ev(1, "2023-06-10", "Adeje", "", "Baile Normal")
	early := ev(2, "2024-06-01", "Adeje", "", "Baile Normal") // distance 7
	late := ev(3, "2024-06-15", "Adeje", "", "Baile Normal")  // distance 7

	results := Match([]Event{ref}, []Event{early, late})
	require.Equal(t, KindFound, results[0].Kind)
	assert.Equal(t, int64(2), results[0].Matched.ID)

	results = Match([]Event{ref}, []Event{late, early})
	require.Equal(t, KindFound, results[0].Kind)
	assert.Equal(t, int64(3), results[0].Matched.ID)
}

func TestMatch_CandidateUsedOnce(t *testing.T) {
	// Both references would accept the single candidate; the earlier
	// reference is processed first and takes it.
	refs := []Event{
		ev(2, "2023-06-10", "Adeje", "", "Baile Normal"),
		ev(1, "2023-06-03", "Adeje", "", "Baile Normal"),
	}
	pool := []Event{ev(10, "2024-06-08", "Adeje", "", "Baile Normal")}

	results := Match(refs, pool)
	require.Len(t, results, 2)

	assert.Equal(t, int64(1), results[0].Reference.ID)
	assert.Equal(t, KindFound, results[0].Kind)
	assert.Equal(t, 7, results[0].Distance)

	assert.Equal(t, int64(2), results[1].Reference.ID)
	assert.Equal(t, KindMissing, results[1].Kind)
	assert.Nil(t, results[1].Matched)

	// The caller's slices are left alone.
	assert.Equal(t, []int64{2, 1}, ids(refs))
	assert.Equal(t, []int64{10}, ids(pool))
}

func TestMatch_NoCandidates(t *testing.T) {
	ref := ev(1, "2023-06-10", "Adeje", "", "Baile Normal")

	results := Match([]Event{ref}, nil)
	require.Len(t, results, 1)
	assert.Equal(t, KindMissing, results[0].Kind)

	assert.Empty(t, Match(nil, []Event{ev(2, "2024-06-08", "Adeje", "", "Baile Normal")}))
}

func TestMatch_CarnivalFlag(t *testing.T) {
	ref := ev(1, "2023-02-18", "Santa Cruz", "", "Carnaval")
	results := Match([]Event{ref}, nil)
	assert.True(t, results[0].IsCarnival)
}

// -----------------------------------------------------------------
// Aggregation
// -----------------------------------------------------------------

func TestAggregate(t *testing.T) {
	found := MatchResult{Kind: KindFound}
	missing := MatchResult{Kind: KindMissing}

	tests := []struct {
		name     string
		results  []MatchResult
		found    int
		missing  int
		coverage int
	}{
		{"empty", nil, 0, 0, 0},
		{"all found", []MatchResult{found, found}, 2, 0, 100},
		{"all missing", []MatchResult{missing, missing, missing}, 0, 3, 0},
		{"two of three", []MatchResult{found, missing, found}, 2, 1, 67},
		{"one of three", []MatchResult{found, missing, missing}, 1, 2, 33},
		{"half rounds up", []MatchResult{found, missing, missing, missing, missing, missing, missing, missing}, 1, 7, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(tt.results)
			assert.Equal(t, tt.found, report.FoundCount)
			assert.Equal(t, tt.missing, report.MissingCount)
			assert.Equal(t, report.FoundCount+report.MissingCount, report.Total)
			assert.Equal(t, tt.coverage, report.CoveragePercent)
			assert.Len(t, report.Found, tt.found)
			assert.Len(t, report.Missing, tt.missing)
			assert.NotNil(t, report.Found)
			assert.NotNil(t, report.Missing)
		})
	}
}

// -----------------------------------------------------------------
// Full check
// -----------------------------------------------------------------

// season builds two years of bookings for a handful of municipalities.
// Most 2023 bookings are repeated 52 weeks later; every fifth is not.
func season() []Event {
	municipalities := []string{"Adeje", "Arona", "Güímar", "La Orotava"}
	venues := []string{"", "Plaza Central", "Plaza de la Iglesia"}

	var events []Event
	id := int64(1)
	start := calendar.Date(2023, time.May, 6) // a Saturday
	for week := 0; week < 12; week++ {
		for i, m := range municipalities {
			date := start.AddDate(0, 0, 7*week)
			venue := venues[(week+i)%len(venues)]
			events = append(events, Event{ID: id, Date: date, Municipality: m, Venue: venue, Type: "Baile Normal"})
			id++
			if (week+i)%5 != 0 {
				events = append(events, Event{ID: id, Date: date.AddDate(0, 0, YearShift), Municipality: m, Venue: venue, Type: "Baile Normal"})
				id++
			}
		}
	}
	return events
}

func TestCheck_Scenarios(t *testing.T) {
	events := []Event{
		ev(1, "2023-06-10", "Adeje", "Plaza Central", "Baile Normal"),
		ev(2, "2023-06-17", "Arona", "", "Baile Normal"),
		ev(3, "2024-06-15", "Adeje", "Plaza Central", "Baile Normal"),
		ev(4, "2024-06-08", "Adeje", "Plaza Central", "Baile Normal"),
		ev(5, "2024-06-15", "Arona", "Playa de Las Vistas", "Baile Normal"),
		ev(6, "2023-06-24", "Granadilla", "", "Baile Normal"),
	}

	report := Check(events, 2024, time.June)

	assert.Equal(t, "2024-06", report.Period)
	assert.Equal(t, "2023-06", report.ReferencePeriod)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.FoundCount)
	assert.Equal(t, 1, report.MissingCount)
	assert.Equal(t, 67, report.CoveragePercent)

	require.Len(t, report.Found, 2)
	assert.Equal(t, int64(4), report.Found[0].Matched.ID)
	assert.Equal(t, int64(5), report.Found[1].Matched.ID)

	require.Len(t, report.Missing, 1)
	assert.Equal(t, int64(6), report.Missing[0].Reference.ID)
}

func TestCheck_Carnival(t *testing.T) {
	events := []Event{
		ev(1, "2023-02-18", "Santa Cruz", "", "Carnaval"),
		ev(2, "2024-02-17", "Santa Cruz", "", "Carnaval"),
		ev(3, "2024-02-10", "Santa Cruz", "", "Carnaval"),
	}

	report := Check(events, 2024, time.February)
	require.Equal(t, 1, report.FoundCount)
	assert.True(t, report.Found[0].IsCarnival)
	assert.Equal(t, int64(3), report.Found[0].Matched.ID)
}

func TestCheck_CarnivalAcrossMonths(t *testing.T) {
	// Carnival 2025 falls in March; the window around February reaches it.
	events := []Event{
		ev(1, "2024-02-10", "Santa Cruz", "", "Carnaval"),
		ev(2, "2025-03-01", "Santa Cruz", "", "Carnaval"),
	}

	report := Check(events, 2025, time.February)
	require.Equal(t, 1, report.FoundCount)
	assert.Equal(t, int64(2), report.Found[0].Matched.ID)
}

func TestCheck_Empty(t *testing.T) {
	report := Check(nil, 2024, time.June)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.CoveragePercent)
	assert.Empty(t, report.Found)
	assert.Empty(t, report.Missing)
}

func TestCheck_ZeroCandidates(t *testing.T) {
	report := Check([]Event{ev(1, "2023-06-10", "Adeje", "", "Baile Normal")}, 2024, time.June)
	assert.Equal(t, 0, report.FoundCount)
	assert.Equal(t, 1, report.MissingCount)
	assert.Equal(t, 0, report.CoveragePercent)
}

func TestCheck_Injective(t *testing.T) {
	events := season()
	// Extra bookings on the same dates compete for the same candidates.
	events = append(events, References(events, 2024, time.June)...)

	for month := time.May; month <= time.August; month++ {
		report := Check(events, 2024, month)

		seen := make(map[int64]bool)
		for _, r := range report.Found {
			require.NotNil(t, r.Matched)
			assert.False(t, seen[r.Matched.ID], "candidate %d matched twice in %s", r.Matched.ID, month)
			seen[r.Matched.ID] = true
		}
		assert.Equal(t, len(References(events, 2024, month)), report.Total)
		assert.GreaterOrEqual(t, report.CoveragePercent, 0)
		assert.LessOrEqual(t, report.CoveragePercent, 100)
	}
}

func TestCheck_Deterministic(t *testing.T) {
	events := season()

	first, err := json.Marshal(Check(events, 2024, time.June))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Check(events, 2024, time.June))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again), fmt.Sprintf("run %d", i))
	}
}

func TestEventJSON(t *testing.T) {
	e := ev(7, "2024-06-08", "Adeje", "Plaza Central", "Baile Normal")

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"day": "2024-06-08",
		"municipio": "Adeje",
		"lugar": "Plaza Central",
		"orquesta": "Orquesta Acapulco, Grupo Aragua",
		"tipo": "Baile Normal",
		"hora": "23:00"
	}`, string(data))

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e, back)
}

func TestSplitPerformers(t *testing.T) {
	assert.Equal(t, []string{"Orquesta Acapulco", "Grupo Aragua"}, SplitPerformers("Orquesta Acapulco, Grupo Aragua,"))
	assert.Nil(t, SplitPerformers(""))
	assert.Nil(t, SplitPerformers(" , "))
}
