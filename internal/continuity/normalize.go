package continuity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const carnivalKeyword = "carnaval"

// Normalize trims, lower-cases and strips diacritics so that "Güímar",
// "guimar " and "GUIMAR" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// IsCarnival reports whether an event belongs to the Carnival season,
// judged by its type or venue text.
func IsCarnival(e Event) bool {
	return strings.Contains(Normalize(e.Type), carnivalKeyword) ||
		strings.Contains(Normalize(e.Venue), carnivalKeyword)
}

// FilterMunicipality returns the events held in the named municipality,
// compared after Normalize, keeping their order.
func FilterMunicipality(events []Event, name string) []Event {
	want := Normalize(name)
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if Normalize(e.Municipality) == want {
			out = append(out, e)
		}
	}
	return out
}
