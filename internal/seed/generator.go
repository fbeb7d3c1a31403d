// Package seed generates plausible two-season event data for development
// and demos.
package seed

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
	"github.com/zapponejosh/verbenas-api/internal/database"
)

var (
	municipalities = []string{
		"Adeje", "Arona", "Granadilla de Abona", "Güímar", "Candelaria",
		"Santa Cruz de Tenerife", "San Cristóbal de La Laguna", "La Orotava",
		"Los Realejos", "Icod de los Vinos", "Tacoronte", "Puerto de la Cruz",
	}

	venues = []string{
		"Plaza de la Iglesia", "Plaza del Ayuntamiento", "Recinto Ferial",
		"Polideportivo Municipal", "Parque Municipal", "",
	}

	bandPrefixes = []string{"Orquesta", "Grupo", "Conjunto"}

	eventTypes = []string{"Baile Normal", "Baile Normal", "Baile Normal", "Baile de Magos", "Fiestas Patronales"}

	hours = []string{"21:30", "22:00", "22:30", "23:00", "23:30"}

	// Rebooked dates usually land on the same weekday; sometimes a week off.
	rebookJitter = []int{0, 0, 0, 0, 7, -7}
)

// Options controls Generate.
type Options struct {
	Year       int     // current season; the reference season is Year-1
	Count      int     // events in the reference season
	RebookRate float64 // share of reference events booked again, 0..1
	Seed       int64   // same seed, same output
}

// DefaultOptions returns options for a realistic data set.
func DefaultOptions(year int) Options {
	return Options{
		Year:       year,
		Count:      120,
		RebookRate: 0.8,
		Seed:       time.Now().UnixNano(),
	}
}

// Generate returns events for Year-1 followed by events for Year.
//
// Each reference event is a weekend dance in a random municipality. Most
// are booked again the next year 364 days later, keeping the weekday, with
// occasional one-week jitter. Carnival events follow Easter instead. A few
// new events appear in Year with no predecessor.
func Generate(opts Options) []database.EventRecord {
	faker := gofakeit.New(opts.Seed)
	prev := opts.Year - 1

	bands := make([]string, 0, 24)
	for i := 0; i < 24; i++ {
		bands = append(bands, faker.RandomString(bandPrefixes)+" "+faker.LastName())
	}

	reference := make([]database.EventRecord, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		reference = append(reference, randomEvent(faker, prev, bands))
	}

	current := make([]database.EventRecord, 0, opts.Count)
	for _, r := range reference {
		if faker.Float64Range(0, 1) >= opts.RebookRate {
			continue
		}
		if next, ok := rebook(faker, r, opts.Year, bands); ok {
			current = append(current, next)
		}
	}

	for i := 0; i < max(opts.Count/10, 1); i++ {
		current = append(current, randomEvent(faker, opts.Year, bands))
	}

	return append(reference, current...)
}

// randomEvent builds a Friday or Saturday event in year. About one in
// fifteen is a Carnival dance on Carnival Saturday.
func randomEvent(faker *gofakeit.Faker, year int, bands []string) database.EventRecord {
	r := database.EventRecord{
		Municipio: faker.RandomString(municipalities),
		Lugar:     faker.RandomString(venues),
		Orquesta:  performers(faker, bands),
		Tipo:      faker.RandomString(eventTypes),
		Hora:      faker.RandomString(hours),
	}

	if faker.Number(1, 15) == 1 {
		r.Tipo = "Carnaval"
		r.Day = calendar.FormatDay(calendar.CarnivalSaturday(year))
		return r
	}

	day := calendar.Date(year, time.January, 1).AddDate(0, 0, faker.Number(0, 357))
	target := time.Saturday
	if faker.Number(1, 4) == 1 {
		target = time.Friday
	}
	for day.Weekday() != target {
		day = day.AddDate(0, 0, 1)
	}
	r.Day = calendar.FormatDay(day)
	return r
}

// rebook moves a reference event into year, returning false when the new
// date would fall outside it.
func rebook(faker *gofakeit.Faker, r database.EventRecord, year int, bands []string) (database.EventRecord, bool) {
	next := r
	next.ID = 0

	// Bands change more often than venues.
	if faker.Number(1, 3) == 1 {
		next.Orquesta = performers(faker, bands)
	}

	ref, ok := r.ToEvent()
	if !ok {
		return next, false
	}

	var day time.Time
	if continuity.IsCarnival(ref) {
		day = calendar.CarnivalSaturday(year)
	} else {
		day = ref.Date.AddDate(0, 0, continuity.YearShift+faker.RandomInt(rebookJitter))
	}

	if day.Year() != year {
		return next, false
	}
	next.Day = calendar.FormatDay(day)
	return next, true
}

func performers(faker *gofakeit.Faker, bands []string) string {
	n := faker.Number(1, 2)
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, faker.RandomString(bands))
	}
	return continuity.JoinPerformers(names)
}
