package spam

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rollingchair63/EntrepreNO/internal/match"
	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
)

// Engine is a compiled rule set. It is immutable after New and safe for
// concurrent use.
type Engine struct {
	rules *ruleset.RuleSet

	keywords termSet
	phrases  termSet

	emojiTiers []ruleset.Tier
	caps       ruleset.CapsRule
	low        ruleset.Threshold
	titleLow   ruleset.Threshold
	titles     []string

	income      []incomePattern
	incomeTiers []ruleset.Tier

	generic       *match.Dictionary
	genericPoints int
}

type incomePattern struct {
	name string
	re   *regexp.Regexp
}

// New validates and compiles rs. The rule set must not be modified afterwards.
func New(rs *ruleset.RuleSet) (*Engine, error) {
	if rs == nil {
		return nil, fmt.Errorf("spam.New: nil rule set")
	}
	if errs := rs.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("spam.New: invalid rule set %q: %s", rs.Name, strings.Join(msgs, "; "))
	}

	e := &Engine{
		rules:      rs,
		keywords:   newTermSet(rs.Keywords),
		phrases:    newTermSet(rs.Phrases),
		emojiTiers: append([]ruleset.Tier(nil), rs.Emoji.Tiers...),
		caps: ruleset.CapsRule{
			MinWordLength: rs.Caps.MinWordLength,
			Points:        rs.Caps.Points,
			Acronyms:      append([]string(nil), rs.Caps.Acronyms...),
		},
		low:           rs.Connections.Low,
		titleLow:      ruleset.Threshold{Below: rs.Connections.TitleLow.Below, Points: rs.Connections.TitleLow.Points},
		incomeTiers:   append([]ruleset.Tier(nil), rs.Income.Tiers...),
		generic:       match.NewDictionary(rs.Generic.Terms),
		genericPoints: rs.Generic.Points,
	}
	for _, t := range rs.Connections.TitleLow.Titles {
		e.titles = append(e.titles, match.Fold(strings.TrimSpace(t)))
	}
	for _, p := range rs.Income.Patterns {
		// income patterns match whole words of case-folded text
		re, err := regexp.Compile(`(?:^|[^\pL\pN])(?:` + p.Pattern + `)(?:$|[^\pL\pN])`)
		if err != nil {
			return nil, fmt.Errorf("spam.New: income pattern %q: %w", p.Name, err)
		}
		e.income = append(e.income, incomePattern{name: p.Name, re: re})
	}
	return e, nil
}

// Default compiles the default builtin rule set.
func Default() *Engine {
	e, err := New(ruleset.Default())
	if err != nil {
		panic(err)
	}
	return e
}

// RuleSet returns the rule set the engine was compiled from.
func (e *Engine) RuleSet() *ruleset.RuleSet {
	return e.rules
}

// Score evaluates every rule category against r, in order: keywords,
// phrases, emoji, caps, connection rules, income claims, generic language.
func (e *Engine) Score(r profile.Record) Result {
	headline := match.Fold(r.Headline)
	summary := match.Fold(r.Summary)
	matches := make([]Match, 0, 8)

	specific := false
	for _, c := range []struct {
		rule  Category
		set   termSet
		label string
	}{
		{CategoryKeyword, e.keywords, "Spam keyword %q"},
		{CategoryPhrase, e.phrases, "Red-flag phrase %q"},
	} {
		inHeadline := c.set.matched(headline)
		inSummary := c.set.matched(summary)
		for i, t := range c.set.terms {
			var field Field
			switch {
			case inHeadline[i]:
				field = FieldHeadline
			case inSummary[i]:
				field = FieldSummary
			default:
				continue
			}
			specific = true
			matches = append(matches, Match{
				Rule:   c.rule,
				Label:  fmt.Sprintf(c.label, t.Term),
				Points: t.Points,
				Field:  field,
			})
		}
	}

	if n := match.CountEmoji(r.Headline); n > 0 {
		if points := ruleset.TierPoints(e.emojiTiers, n); points > 0 {
			matches = append(matches, Match{
				Rule:   CategoryEmoji,
				Label:  fmt.Sprintf("Excessive emoji in headline (%d found)", n),
				Points: points,
				Field:  FieldHeadline,
			})
		}
	}

	if match.Shouting(r.Headline, e.caps.MinWordLength, e.caps.Acronyms) {
		matches = append(matches, Match{
			Rule:   CategoryCaps,
			Label:  "Headline is all caps (shouting)",
			Points: e.caps.Points,
			Field:  FieldHeadline,
		})
	}

	if n, ok := r.ConnectionCount(); ok {
		if n < e.low.Below {
			matches = append(matches, Match{
				Rule:   CategoryLowConnections,
				Label:  fmt.Sprintf("Low connection count (%d)", n),
				Points: e.low.Points,
				Field:  FieldConnections,
			})
		}
		if title := e.claimedTitle(headline); title != "" && n < e.titleLow.Below {
			matches = append(matches, Match{
				Rule:   CategoryTitleLowConnections,
				Label:  fmt.Sprintf("Claims %q title with low connections (%d)", title, n),
				Points: e.titleLow.Points,
				Field:  FieldConnections,
			})
		}
	}

	claims, claimField := e.incomeClaims(headline, summary)
	if points := ruleset.TierPoints(e.incomeTiers, claims); points > 0 {
		specific = true
		matches = append(matches, Match{
			Rule:   CategoryIncome,
			Label:  fmt.Sprintf("Multiple income claims (%d found)", claims),
			Points: points,
			Field:  claimField,
		})
	}

	// weak signal, only when nothing more specific was found in the text
	if summary != "" && !specific {
		if hits := e.generic.Find(summary); len(hits) > 0 {
			matches = append(matches, Match{
				Rule:   CategoryGeneric,
				Label:  fmt.Sprintf("Generic money/success language in summary (%q)", e.generic.Term(hits[0].Term)),
				Points: e.genericPoints,
				Field:  FieldSummary,
			})
		}
	}

	return ComputeResult(matches)
}

// claimedTitle returns the first configured title found in the folded headline.
func (e *Engine) claimedTitle(headline string) string {
	if headline == "" {
		return ""
	}
	for _, t := range e.titles {
		if match.Contains(headline, t) {
			return t
		}
	}
	return ""
}

// incomeClaims counts the distinct income patterns matched across both
// fields. The field is where the first matching pattern, in rule set order,
// was found; the headline wins when that pattern matched both.
func (e *Engine) incomeClaims(headline, summary string) (int, Field) {
	n := 0
	field := FieldSummary
	for _, p := range e.income {
		inHeadline := headline != "" && p.re.MatchString(headline)
		if !inHeadline && (summary == "" || !p.re.MatchString(summary)) {
			continue
		}
		if n == 0 && inHeadline {
			field = FieldHeadline
		}
		n++
	}
	return n, field
}

// termSet is a keyword or phrase list compiled into one dictionary of all
// term forms.
type termSet struct {
	terms []ruleset.Term
	dict  *match.Dictionary
	owner []int // dictionary form index -> term index
}

func newTermSet(terms []ruleset.Term) termSet {
	var forms []string
	var owner []int
	for i, t := range terms {
		for _, f := range t.Forms() {
			forms = append(forms, f)
			owner = append(owner, i)
		}
	}
	return termSet{
		terms: append([]ruleset.Term(nil), terms...),
		dict:  match.NewDictionary(forms),
		owner: owner,
	}
}

// matched reports, per term, whether folded contains an occurrence of the
// term that is not covered by a longer occurrence of another term.
func (ts termSet) matched(folded string) []bool {
	out := make([]bool, len(ts.terms))
	hits := ts.dict.Find(folded)
	if len(hits) == 0 {
		return out
	}

	spans := make([][]match.Span, len(ts.terms))
	for _, h := range hits {
		i := ts.owner[h.Term]
		spans[i] = append(spans[i], h.Spans...)
	}
	for i := range spans {
		for _, s := range spans[i] {
			if !covered(spans, i, s) {
				out[i] = true
				break
			}
		}
	}
	return out
}

func covered(spans [][]match.Span, self int, s match.Span) bool {
	for j, other := range spans {
		if j == self {
			continue
		}
		for _, o := range other {
			if o.Len() > s.Len() && o.Contains(s) {
				return true
			}
		}
	}
	return false
}
