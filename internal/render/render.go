// Package render produces the user-facing forms of a spam analysis: a chat
// style text message, a Markdown report and a JSON report.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/redact"
	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

const noIndicators = "No obvious spam indicators detected"

// Options controls what the rendered output echoes back.
type Options struct {
	Redact  bool   // scrub contact details from echoed profile text
	Source  string // input file, "-" for stdin
	Hash    string // content hash of the input
	RuleSet string
}

// Report is the JSON form of an analysis, shared by the CLI and the HTTP API.
type Report struct {
	ID             string         `json:"id,omitempty"`
	Profile        profile.Record `json:"profile"`
	Score          int            `json:"score"`
	Verdict        spam.Verdict   `json:"verdict"`
	Label          string         `json:"label"`
	Emoji          string         `json:"emoji"`
	Recommendation string         `json:"recommendation"`
	Reasons        []spam.Match   `json:"reasons"`
	RuleSet        string         `json:"rule_set,omitempty"`
	Source         string         `json:"source,omitempty"`
	Hash           string         `json:"hash,omitempty"`
}

// NewReport builds the JSON report. Reasons is never nil.
func NewReport(rec profile.Record, res spam.Result, opts Options) Report {
	reasons := res.Matches
	if reasons == nil {
		reasons = []spam.Match{}
	}
	return Report{
		Profile:        echoed(rec, opts),
		Score:          res.Score,
		Verdict:        res.Verdict,
		Label:          res.Verdict.Label(),
		Emoji:          res.Verdict.Emoji(),
		Recommendation: res.Verdict.Recommendation(),
		Reasons:        reasons,
		RuleSet:        opts.RuleSet,
		Source:         opts.Source,
		Hash:           opts.Hash,
	}
}

// JSON renders the report as indented JSON with a trailing newline.
func JSON(rep Report) ([]byte, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render.JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Text renders a chat-style message: profile, score bar, verdict, reasons
// and a recommendation.
func Text(rec profile.Record, res spam.Result, opts Options) string {
	rec = echoed(rec, opts)
	var b strings.Builder

	if rec.Name != "" {
		fmt.Fprintf(&b, "👤 Name: %s\n", rec.Name)
	}
	if rec.Headline != "" {
		fmt.Fprintf(&b, "💼 Headline: %s\n", oneLine(rec.Headline))
	}
	if n, ok := rec.ConnectionCount(); ok {
		fmt.Fprintf(&b, "🔗 Connections: %d\n", n)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "📊 Spam Score: %d%%\n", res.Score)
	fmt.Fprintf(&b, "[%s] %d%%\n\n", Bar(res.Score), res.Score)
	fmt.Fprintf(&b, "%s %s\n\n", res.Verdict.Emoji(), res.Verdict.Label())

	b.WriteString("📋 Reasons:\n")
	if len(res.Matches) == 0 {
		fmt.Fprintf(&b, "  • %s\n", noIndicators)
	}
	for _, m := range res.Matches {
		fmt.Fprintf(&b, "  • %s (+%d)\n", m.Label, m.Points)
	}

	fmt.Fprintf(&b, "\n💡 Recommendation: %s\n", res.Verdict.Recommendation())
	return b.String()
}

// Bar draws a ten-cell progress bar for a 0-100 score.
func Bar(score int) string {
	filled := spam.Clamp(score) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// Markdown renders a Markdown report.
func Markdown(rec profile.Record, res spam.Result, opts Options) string {
	rec = echoed(rec, opts)
	var b strings.Builder

	b.WriteString("# EntrepreNO Report\n\n")
	fmt.Fprintf(&b, "**Verdict:** %s %s\n", res.Verdict.Emoji(), res.Verdict.Label())
	fmt.Fprintf(&b, "**Score:** %d / 100\n", res.Score)
	fmt.Fprintf(&b, "**Recommendation:** %s\n\n", res.Verdict.Recommendation())

	b.WriteString("## Profile\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Name | %s |\n", cell(rec.Name))
	fmt.Fprintf(&b, "| Headline | %s |\n", cell(rec.Headline))
	if n, ok := rec.ConnectionCount(); ok {
		fmt.Fprintf(&b, "| Connections | %d |\n", n)
	} else {
		b.WriteString("| Connections | _unknown_ |\n")
	}
	fmt.Fprintf(&b, "| Summary | %s |\n\n", cell(rec.Summary))

	b.WriteString("## Reasons\n\n")
	if len(res.Matches) == 0 {
		fmt.Fprintf(&b, "%s.\n\n", noIndicators)
	} else {
		b.WriteString("| # | Rule | Field | Points | Reason |\n|---|---|---|---|---|\n")
		for i, m := range res.Matches {
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n", i+1, ruleTitle(m.Rule), m.Field, m.Points, cell(m.Label))
		}
		if total := res.Total(); total != res.Score {
			fmt.Fprintf(&b, "\nPoints total %d, capped at %d.\n", total, res.Score)
		}
		b.WriteString("\n")
	}

	if opts.Source != "" || opts.RuleSet != "" {
		b.WriteString("## Input\n\n")
		if opts.Source != "" {
			fmt.Fprintf(&b, "- Source: %s", opts.Source)
			if opts.Hash != "" {
				fmt.Fprintf(&b, " (%s)", opts.Hash)
			}
			b.WriteString("\n")
		}
		if opts.RuleSet != "" {
			fmt.Fprintf(&b, "- Rule set: %s\n", opts.RuleSet)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func echoed(rec profile.Record, opts Options) profile.Record {
	if !opts.Redact {
		return rec
	}
	rec.Name = redact.Redact(rec.Name)
	rec.Headline = redact.Redact(rec.Headline)
	rec.Summary = redact.Redact(rec.Summary)
	return rec
}

// ruleTitle turns TITLE_LOW_CONNECTIONS into "Title Low Connections".
func ruleTitle(c spam.Category) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(string(c)), "_", " "))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(s string) string {
	if s == "" {
		return "_unset_"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
}
