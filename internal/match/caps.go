package match

import (
	"strings"
	"unicode"
)

// Caps summarizes the letter casing of a piece of text.
type Caps struct {
	Letters  int      // alphabetic runes
	Upper    int      // uppercase alphabetic runes
	Shouting []string // fully uppercase words that are not known acronyms
}

// UpperMajority reports whether uppercase letters are a strict majority.
func (c Caps) UpperMajority() bool {
	return c.Letters > 0 && c.Upper*2 > c.Letters
}

// AnalyzeCaps scans s word by word. A word is shouting when it has at least
// minLen letters, none of them lowercase, and is not in acronyms (compared
// case-insensitively).
func AnalyzeCaps(s string, minLen int, acronyms []string) Caps {
	known := make(map[string]bool, len(acronyms))
	for _, a := range acronyms {
		known[Fold(a)] = true
	}

	var c Caps
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		letters, upper := 0, 0
		for _, r := range w {
			if !unicode.IsLetter(r) {
				continue
			}
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
		c.Letters += letters
		c.Upper += upper
		if letters >= minLen && upper == letters && !known[Fold(w)] {
			c.Shouting = append(c.Shouting, w)
		}
	}
	return c
}

// Shouting reports whether s reads as all-caps shouting: at least one
// shouting word and an uppercase majority overall.
func Shouting(s string, minLen int, acronyms []string) bool {
	c := AnalyzeCaps(s, minLen, acronyms)
	return len(c.Shouting) > 0 && c.UpperMajority()
}
