package ruleset

import (
	"fmt"
	"strings"
)

// Format renders the rule set as plain text for display.
func Format(rs *RuleSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Rule set: %s (v%d)\n\n", rs.Name, rs.Version)
	if rs.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(rs.Description))
	}

	if len(rs.Keywords) > 0 {
		b.WriteString("### Keywords\n\n")
		writeTerms(&b, rs.Keywords)
		b.WriteString("\n")
	}

	if len(rs.Phrases) > 0 {
		b.WriteString("### Red-flag phrases\n\n")
		writeTerms(&b, rs.Phrases)
		b.WriteString("\n")
	}

	b.WriteString("### Headline\n\n")
	fmt.Fprintf(&b, "- emoji: %s\n", formatTiers(rs.Emoji.Tiers))
	fmt.Fprintf(&b, "- all caps (words of %d+ letters): %d\n", rs.Caps.MinWordLength, rs.Caps.Points)
	if len(rs.Caps.Acronyms) > 0 {
		fmt.Fprintf(&b, "  acronyms ignored: %s\n", strings.Join(rs.Caps.Acronyms, ", "))
	}
	b.WriteString("\n")

	b.WriteString("### Connections\n\n")
	fmt.Fprintf(&b, "- fewer than %d: %d\n", rs.Connections.Low.Below, rs.Connections.Low.Points)
	fmt.Fprintf(&b, "- %s with fewer than %d: %d\n",
		strings.Join(rs.Connections.TitleLow.Titles, "/"), rs.Connections.TitleLow.Below, rs.Connections.TitleLow.Points)
	b.WriteString("\n")

	if len(rs.Income.Patterns) > 0 {
		b.WriteString("### Income claims\n\n")
		fmt.Fprintf(&b, "- distinct patterns: %s\n", formatTiers(rs.Income.Tiers))
		for _, p := range rs.Income.Patterns {
			fmt.Fprintf(&b, "  - %s: `%s`\n", p.Name, p.Pattern)
		}
		b.WriteString("\n")
	}

	if len(rs.Generic.Terms) > 0 {
		b.WriteString("### Generic language (summary)\n\n")
		fmt.Fprintf(&b, "- %d when no other red flag: %s\n\n", rs.Generic.Points, strings.Join(rs.Generic.Terms, ", "))
	}

	return b.String()
}

func writeTerms(b *strings.Builder, terms []Term) {
	for _, t := range terms {
		fmt.Fprintf(b, "- %q: %d", t.Term, t.Points)
		if len(t.Aliases) > 0 {
			fmt.Fprintf(b, " (also %s)", strings.Join(t.Aliases, ", "))
		}
		b.WriteString("\n")
	}
}

func formatTiers(tiers []Tier) string {
	parts := make([]string, 0, len(tiers))
	for _, t := range tiers {
		parts = append(parts, fmt.Sprintf("%d+ → %d", t.Min, t.Points))
	}
	return strings.Join(parts, ", ")
}
