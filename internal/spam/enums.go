package spam

import "strings"

// Verdict is the human-facing band a score falls into.
type Verdict string

const (
	VerdictLegitimate         Verdict = "PROBABLY_LEGITIMATE"
	VerdictSomewhatSuspicious Verdict = "SOMEWHAT_SUSPICIOUS"
	VerdictSuspicious         Verdict = "SUSPICIOUS"
	VerdictLikelySpam         Verdict = "LIKELY_SPAM"
	VerdictHighlyLikelySpam   Verdict = "HIGHLY_LIKELY_SPAM"
)

// Verdicts lists every verdict from least to most severe.
var Verdicts = []Verdict{
	VerdictLegitimate,
	VerdictSomewhatSuspicious,
	VerdictSuspicious,
	VerdictLikelySpam,
	VerdictHighlyLikelySpam,
}

func (v Verdict) Valid() bool {
	switch v {
	case VerdictLegitimate, VerdictSomewhatSuspicious, VerdictSuspicious,
		VerdictLikelySpam, VerdictHighlyLikelySpam:
		return true
	}
	return false
}

// Rank orders verdicts by severity, 0 for Probably Legitimate. Invalid
// verdicts rank -1.
func (v Verdict) Rank() int {
	for i, x := range Verdicts {
		if x == v {
			return i
		}
	}
	return -1
}

// Label returns the display label, e.g. "Likely Spam".
func (v Verdict) Label() string {
	switch v {
	case VerdictLegitimate:
		return "Probably Legitimate"
	case VerdictSomewhatSuspicious:
		return "Somewhat Suspicious"
	case VerdictSuspicious:
		return "Suspicious"
	case VerdictLikelySpam:
		return "Likely Spam"
	case VerdictHighlyLikelySpam:
		return "Highly Likely Spam"
	}
	return string(v)
}

func (v Verdict) Emoji() string {
	switch v {
	case VerdictLegitimate:
		return "✅"
	case VerdictSomewhatSuspicious:
		return "😐"
	case VerdictSuspicious:
		return "🤔"
	case VerdictLikelySpam:
		return "⚠️"
	case VerdictHighlyLikelySpam:
		return "🚨"
	}
	return ""
}

// Recommendation is the suggested action on the connection request.
func (v Verdict) Recommendation() string {
	switch v {
	case VerdictLegitimate:
		return "Safe to accept"
	case VerdictSomewhatSuspicious, VerdictSuspicious:
		return "Review manually"
	case VerdictLikelySpam, VerdictHighlyLikelySpam:
		return "Decline"
	}
	return ""
}

// ParseVerdict accepts a verdict constant, its label, or a dashed form
// ("likely-spam"), case-insensitively.
func ParseVerdict(s string) (Verdict, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	v := Verdict(norm)
	return v, v.Valid()
}

// Category identifies the rule family a match came from.
type Category string

const (
	CategoryKeyword             Category = "KEYWORD"
	CategoryPhrase              Category = "PHRASE"
	CategoryEmoji               Category = "EMOJI"
	CategoryCaps                Category = "CAPS"
	CategoryLowConnections      Category = "LOW_CONNECTIONS"
	CategoryTitleLowConnections Category = "TITLE_LOW_CONNECTIONS"
	CategoryIncome              Category = "INCOME"
	CategoryGeneric             Category = "GENERIC"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryKeyword, CategoryPhrase, CategoryEmoji, CategoryCaps,
		CategoryLowConnections, CategoryTitleLowConnections,
		CategoryIncome, CategoryGeneric:
		return true
	}
	return false
}

// order returns the evaluation position of the category.
func (c Category) order() int {
	switch c {
	case CategoryKeyword:
		return 0
	case CategoryPhrase:
		return 1
	case CategoryEmoji:
		return 2
	case CategoryCaps:
		return 3
	case CategoryLowConnections:
		return 4
	case CategoryTitleLowConnections:
		return 5
	case CategoryIncome:
		return 6
	case CategoryGeneric:
		return 7
	default:
		return 8
	}
}

// Field is the profile field a match was found in.
type Field string

const (
	FieldHeadline    Field = "headline"
	FieldSummary     Field = "summary"
	FieldConnections Field = "connections"
)

func (f Field) Valid() bool {
	switch f {
	case FieldHeadline, FieldSummary, FieldConnections:
		return true
	}
	return false
}
