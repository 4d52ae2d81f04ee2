// Package redact replaces contact details in profile text with [REDACTED]
// before the text is logged or echoed back in a report.
package redact

import "regexp"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// E-mail addresses
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		// Links with a scheme or www prefix
		`(?i)\b(?:https?://|www\.)[^\s<>"')\]]+`,
		// Bare links to profile and messaging hosts
		`(?i)\b(?:linkedin\.com|wa\.me|t\.me|calendly\.com|bit\.ly|linktr\.ee)/[^\s<>"')\]]*`,
		// International phone numbers: +44 20 7946 0958
		`\+\d{1,3}[\s.\-]?\(?\d{1,4}\)?(?:[\s.\-]?\d{2,4}){2,4}`,
		// North American phone numbers: (555) 123-4567, 555.123.4567
		`\(?\b\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces contact detail patterns in text with [REDACTED].
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}
