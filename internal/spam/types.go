// Package spam scores parsed profiles for spam likelihood. Scoring is a pure
// function of the profile and an immutable, compiled rule set.
package spam

import "math"

// Match is one triggered rule instance.
type Match struct {
	Rule   Category `json:"rule"`
	Label  string   `json:"label"`
	Points int      `json:"points"`
	Field  Field    `json:"field"`
}

// Result is the outcome of scoring one profile.
type Result struct {
	Score   int     `json:"score"`
	Matches []Match `json:"reasons"`
	Verdict Verdict `json:"verdict"`
}

// Total returns the unclamped sum of match points. The sum saturates at
// the int bounds instead of wrapping.
func (r Result) Total() int {
	total := 0
	for _, m := range r.Matches {
		switch {
		case m.Points > 0 && total > math.MaxInt-m.Points:
			total = math.MaxInt
		case m.Points < 0 && total < math.MinInt-m.Points:
			total = math.MinInt
		default:
			total += m.Points
		}
	}
	return total
}

// Reasons returns the match labels in evaluation order.
func (r Result) Reasons() []string {
	reasons := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		reasons = append(reasons, m.Label)
	}
	return reasons
}
