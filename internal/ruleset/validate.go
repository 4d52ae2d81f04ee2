package ruleset

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxPoints bounds every single weight in a rule set.
const MaxPoints = 100

// ValidationError describes a single rule set problem.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a rule set for structural validity. Keyword and phrase
// weights must be at least the generic weight: a new keyword hit suppresses
// the generic signal, and the score must not drop when it does.
func (rs *RuleSet) Validate() []ValidationError {
	var errs []ValidationError

	if rs.Name == "" {
		errs = append(errs, ValidationError{"name", "required"})
	}
	if rs.Version < 1 {
		errs = append(errs, ValidationError{"version", "must be >= 1"})
	}

	errs = append(errs, validateTerms("keywords", rs.Keywords, rs.Generic.Points)...)
	errs = append(errs, validateTerms("phrases", rs.Phrases, rs.Generic.Points)...)

	// keyword and phrase forms must not overlap
	keywordForms := make(map[string]string)
	for _, t := range rs.Keywords {
		for _, f := range t.Forms() {
			keywordForms[normalizeTerm(f)] = t.Term
		}
	}
	for i, t := range rs.Phrases {
		for _, f := range t.Forms() {
			if kw, ok := keywordForms[normalizeTerm(f)]; ok {
				errs = append(errs, ValidationError{
					fmt.Sprintf("phrases[%d]", i),
					fmt.Sprintf("%q is also a form of keyword %q", f, kw),
				})
			}
		}
	}

	errs = append(errs, validateTiers("emoji.tiers", rs.Emoji.Tiers)...)

	if rs.Caps.MinWordLength < 2 {
		errs = append(errs, ValidationError{"caps.min_word_length", "must be >= 2"})
	}
	if pe := checkPoints("caps.points", rs.Caps.Points); pe != nil {
		errs = append(errs, *pe)
	}

	if rs.Connections.Low.Below <= 0 {
		errs = append(errs, ValidationError{"connections.low.below", "must be > 0"})
	}
	if pe := checkPoints("connections.low.points", rs.Connections.Low.Points); pe != nil {
		errs = append(errs, *pe)
	}
	if rs.Connections.TitleLow.Below <= 0 {
		errs = append(errs, ValidationError{"connections.title_low.below", "must be > 0"})
	}
	if pe := checkPoints("connections.title_low.points", rs.Connections.TitleLow.Points); pe != nil {
		errs = append(errs, *pe)
	}
	if len(rs.Connections.TitleLow.Titles) == 0 {
		errs = append(errs, ValidationError{"connections.title_low.titles", "at least one title required"})
	}
	for i, title := range rs.Connections.TitleLow.Titles {
		if strings.TrimSpace(title) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("connections.title_low.titles[%d]", i), "empty title"})
		}
	}

	if len(rs.Income.Patterns) == 0 {
		errs = append(errs, ValidationError{"income.patterns", "at least one pattern required"})
	}
	names := make(map[string]bool)
	for i, p := range rs.Income.Patterns {
		path := fmt.Sprintf("income.patterns[%d]", i)
		if p.Name == "" {
			errs = append(errs, ValidationError{path + ".name", "required"})
		} else if names[p.Name] {
			errs = append(errs, ValidationError{path + ".name", fmt.Sprintf("duplicate name %q", p.Name)})
		}
		names[p.Name] = true
		if p.Pattern == "" {
			errs = append(errs, ValidationError{path + ".pattern", "required"})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, ValidationError{path + ".pattern", err.Error()})
		}
	}
	errs = append(errs, validateTiers("income.tiers", rs.Income.Tiers)...)
	// a scoring income claim suppresses the generic signal
	if len(rs.Income.Tiers) > 0 && rs.Income.Tiers[0].Points < rs.Generic.Points {
		errs = append(errs, ValidationError{"income.tiers[0].points", fmt.Sprintf("must be >= generic.points (%d)", rs.Generic.Points)})
	}

	if pe := checkPoints("generic.points", rs.Generic.Points); pe != nil {
		errs = append(errs, *pe)
	}
	if len(rs.Generic.Terms) == 0 {
		errs = append(errs, ValidationError{"generic.terms", "at least one term required"})
	}

	return errs
}

func validateTerms(path string, terms []Term, minPoints int) []ValidationError {
	var errs []ValidationError
	if len(terms) == 0 {
		errs = append(errs, ValidationError{path, "at least one term required"})
	}
	seen := make(map[string]int)
	for i, t := range terms {
		p := fmt.Sprintf("%s[%d]", path, i)
		if pe := checkPoints(p+".points", t.Points); pe != nil {
			errs = append(errs, *pe)
		} else if t.Points < minPoints {
			errs = append(errs, ValidationError{p + ".points", fmt.Sprintf("must be >= generic.points (%d)", minPoints)})
		}
		for _, f := range t.Forms() {
			n := normalizeTerm(f)
			if n == "" {
				errs = append(errs, ValidationError{p, "empty term"})
				continue
			}
			if j, dup := seen[n]; dup && j != i {
				errs = append(errs, ValidationError{p, fmt.Sprintf("%q duplicates %s[%d]", f, path, j)})
			}
			seen[n] = i
		}
	}
	return errs
}

func validateTiers(path string, tiers []Tier) []ValidationError {
	var errs []ValidationError
	if len(tiers) == 0 {
		errs = append(errs, ValidationError{path, "at least one tier required"})
		return errs
	}
	for i, t := range tiers {
		p := fmt.Sprintf("%s[%d]", path, i)
		if t.Min < 1 {
			errs = append(errs, ValidationError{p + ".min", "must be >= 1"})
		}
		if pe := checkPoints(p+".points", t.Points); pe != nil {
			errs = append(errs, *pe)
		}
		if i > 0 {
			prev := tiers[i-1]
			if t.Min <= prev.Min {
				errs = append(errs, ValidationError{p + ".min", "tiers must have strictly increasing min"})
			}
			if t.Points < prev.Points {
				errs = append(errs, ValidationError{p + ".points", "tiers must not decrease in points"})
			}
		}
	}
	return errs
}

// checkPoints reports a weight outside (0, MaxPoints].
func checkPoints(path string, points int) *ValidationError {
	switch {
	case points <= 0:
		return &ValidationError{path, "must be > 0"}
	case points > MaxPoints:
		return &ValidationError{path, fmt.Sprintf("must be <= %d", MaxPoints)}
	}
	return nil
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
