package profile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lowercase particles allowed inside personal names
var nameParticles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true, "del": true,
	"della": true, "da": true, "di": true, "du": true, "la": true, "le": true,
	"dos": true, "das": true, "bin": true, "ibn": true, "al": true, "el": true,
	"ter": true, "ten": true, "y": true,
}

// words that make a capitalised line a job title rather than a name
var titleWords = map[string]bool{
	"ceo": true, "cto": true, "cfo": true, "coo": true, "founder": true,
	"co-founder": true, "cofounder": true, "owner": true, "president": true,
	"director": true, "manager": true, "engineer": true, "developer": true,
	"consultant": true, "coach": true, "entrepreneur": true, "investor": true,
	"officer": true, "specialist": true, "analyst": true, "designer": true,
	"recruiter": true, "senior": true, "junior": true, "lead": true,
	"head": true, "partner": true, "advisor": true, "mentor": true,
	"trader": true, "expert": true, "strategist": true, "architect": true,
}

// LooksLikeName reports whether s reads as a personal name: two to four
// words, each capitalised (name particles excepted), with no digits, no
// markup such as "|", "@", "$", "#" or links, and no job-title words.
func LooksLikeName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "|@$#&/") || strings.Contains(strings.ToLower(s), "http") {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for i, w := range words {
		lower := strings.ToLower(w)
		if titleWords[strings.Trim(lower, ",.")] {
			return false
		}
		if i > 0 && i < len(words)-1 && nameParticles[lower] {
			continue
		}
		if !nameWord(w) {
			return false
		}
	}
	return true
}

// nameWord reports whether w is a capitalised word of letters, allowing
// inner hyphens, apostrophes and a trailing period for initials.
func nameWord(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(r) {
		return false
	}
	letters, upper := 0, 0
	for _, r := range w {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case r == '-' || r == '\'' || r == '’' || r == '.':
		default:
			return false
		}
	}
	// "JOHN" reads as shouting, "J." and "McDonald" do not
	return letters > 0 && (letters < 3 || upper < letters)
}
