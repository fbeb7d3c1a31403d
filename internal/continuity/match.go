package continuity

import (
	"slices"
)

// Kind classifies a reference event after matching.
type Kind string

const (
	KindFound   Kind = "found"
	KindMissing Kind = "missing"
)

// MatchResult is the outcome for one reference event.
type MatchResult struct {
	Kind       Kind   `json:"kind"`
	Reference  Event  `json:"reference"`
	Matched    *Event `json:"matched,omitempty"` // nil when missing
	Distance   int    `json:"distance"`          // 0 when missing
	IsCarnival bool   `json:"is_carnival"`
}

// Match pairs each reference with at most one candidate from pool.
//
// References are processed in date order. For each one every unconsumed
// candidate is scored, and the acceptable candidate with the smallest
// distance wins; on equal distance the one earlier in pool wins. A chosen
// candidate is consumed and cannot match a later reference.
//
// This is a greedy, single-pass assignment. When two references compete for
// the same best candidate the earlier reference takes it, even if a
// different pairing would match more references overall.
func Match(refs, pool []Event) []MatchResult {
	ordered := slices.Clone(refs)
	sortByDate(ordered)

	consumed := make([]bool, len(pool))
	results := make([]MatchResult, 0, len(ordered))

	for _, ref := range ordered {
		best, bestDistance := -1, 0
		for i, cand := range pool {
			if consumed[i] {
				continue
			}
			distance, eligible := Score(ref, cand)
			if !eligible || !Acceptable(distance) {
				continue
			}
			if best < 0 || distance < bestDistance {
				best, bestDistance = i, distance
			}
		}

		result := MatchResult{
			Kind:       KindMissing,
			Reference:  ref,
			IsCarnival: IsCarnival(ref),
		}
		if best >= 0 {
			consumed[best] = true
			matched := pool[best]
			result.Kind = KindFound
			result.Matched = &matched
			result.Distance = bestDistance
		}
		results = append(results, result)
	}

	return results
}
