// Package match provides the text predicates the scoring engine is built on:
// whole-word dictionary matching, emoji counting and all-caps analysis.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes s for case-insensitive comparison: NFKC, then Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// Span is a half-open byte range [Start, End) in folded text.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Hit records every whole-word occurrence of one dictionary term.
type Hit struct {
	Term  int // index into the dictionary's term list
	Spans []Span
}

// Dictionary matches a fixed, ordered list of terms against text.
// Candidates come from an Aho-Corasick automaton; each candidate is then
// verified against word boundaries. A Dictionary is immutable and safe for
// concurrent use.
type Dictionary struct {
	terms   []string
	matcher *ahocorasick.Matcher
}

// NewDictionary folds and compiles terms. Term order is preserved in Find results.
func NewDictionary(terms []string) *Dictionary {
	folded := make([]string, len(terms))
	for i, t := range terms {
		folded[i] = Fold(strings.TrimSpace(t))
	}
	return &Dictionary{
		terms:   folded,
		matcher: ahocorasick.NewStringMatcher(folded),
	}
}

// Len returns the number of terms.
func (d *Dictionary) Len() int { return len(d.terms) }

// Term returns the folded form of term i.
func (d *Dictionary) Term(i int) string { return d.terms[i] }

// Find returns the whole-word hits in folded text, ordered by term index.
// Terms with no whole-word occurrence are omitted.
func (d *Dictionary) Find(folded string) []Hit {
	if folded == "" || len(d.terms) == 0 {
		return nil
	}
	candidates := d.matcher.MatchThreadSafe([]byte(folded))
	if len(candidates) == 0 {
		return nil
	}

	seen := make([]bool, len(d.terms))
	for _, c := range candidates {
		seen[c] = true
	}

	var hits []Hit
	for i, term := range d.terms {
		if !seen[i] || term == "" {
			continue
		}
		spans := wordSpans(folded, term)
		if len(spans) > 0 {
			hits = append(hits, Hit{Term: i, Spans: spans})
		}
	}
	return hits
}

// Contains reports whether term occurs in folded as a whole word or phrase.
func Contains(folded, term string) bool {
	return len(wordSpans(folded, Fold(term))) > 0
}

func wordSpans(text, term string) []Span {
	var spans []Span
	offset := 0
	for offset <= len(text)-len(term) {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			spans = append(spans, Span{Start: start, End: end})
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return spans
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
