package spam

import (
	"cmp"
	"slices"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Clamp bounds a point total to [MinScore, MaxScore].
func Clamp(total int) int {
	if total < MinScore {
		return MinScore
	}
	if total > MaxScore {
		return MaxScore
	}
	return total
}

// VerdictFor maps a score to its band. Bands are closed-open except the top,
// which includes 100: [0,20) [20,40) [40,60) [60,80) [80,100].
func VerdictFor(score int) Verdict {
	switch s := Clamp(score); {
	case s >= 80:
		return VerdictHighlyLikelySpam
	case s >= 60:
		return VerdictLikelySpam
	case s >= 40:
		return VerdictSuspicious
	case s >= 20:
		return VerdictSomewhatSuspicious
	default:
		return VerdictLegitimate
	}
}

// ComputeResult derives the clamped score and verdict from matches. The
// matches are reported in evaluation order of their categories; matches of
// one category keep their relative order. The caller's slice is not modified.
func ComputeResult(matches []Match) Result {
	matches = slices.Clone(matches)
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Rule.order(), b.Rule.order())
	})
	r := Result{Matches: matches}
	r.Score = Clamp(r.Total())
	r.Verdict = VerdictFor(r.Score)
	return r
}
