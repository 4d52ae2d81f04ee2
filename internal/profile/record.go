// Package profile turns free-form profile text into a structured Record.
// Parsing is total: any input yields a Record, with fields that could not be
// recognized left unset and unrecognized lines kept in the summary.
package profile

import "strings"

// Record is a parsed profile. Empty strings mean unset; a nil Connections
// means the count is unknown. A Record never holds a negative count.
type Record struct {
	Name        string `json:"name,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Connections *int   `json:"connections,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// ConnectionCount returns the connection count and whether it is set.
func (r Record) ConnectionCount() (int, bool) {
	if r.Connections == nil {
		return 0, false
	}
	return *r.Connections, true
}

// IsEmpty reports whether no field is set.
func (r Record) IsEmpty() bool {
	return r.Name == "" && r.Headline == "" && r.Connections == nil && r.Summary == ""
}

// FromValues builds a Record from typed values. Text is trimmed and a
// negative count is treated as unknown.
func FromValues(name, headline string, connections *int, summary string) Record {
	r := Record{
		Name:     strings.TrimSpace(name),
		Headline: strings.TrimSpace(headline),
		Summary:  strings.TrimSpace(summary),
	}
	if connections != nil && *connections >= 0 {
		n := *connections
		r.Connections = &n
	}
	return r
}

// FromFields builds a Record from separately supplied text fields. The
// connections field accepts the same free text as a pasted profile
// ("500+", "1,234 connections"); anything unparsable leaves it unset.
func FromFields(name, headline, connections, summary string) Record {
	r := FromValues(name, headline, nil, summary)
	if n, ok := ParseCount(connections); ok {
		r.Connections = &n
	}
	return r
}

func intPtr(n int) *int { return &n }
