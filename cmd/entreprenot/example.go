package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/render"
	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

// demo is a sample connection request shown by the example command.
type demo struct {
	spam   bool
	record profile.Record
}

func demoProfile(isSpam bool, name, headline string, connections int, summary string) demo {
	return demo{spam: isSpam, record: profile.FromValues(name, headline, &connections, summary)}
}

var demos = []demo{
	demoProfile(true, "Rick Money",
		"💰💰 Entrepreneur | CEO | Financial Freedom Coach | DM Me! 🚀", 156,
		"I quit my 9-5! Multiple income streams! Ask me how!"),
	demoProfile(true, "John Crypto",
		"FOREX TRADER | CRYPTO INVESTOR | MAKE MONEY ONLINE 💎", 89,
		"Trading changed my life. DM for my proven strategy."),
	demoProfile(true, "Sarah Success",
		"Life Coach | Passive Income Expert | Network Marketing Pro 🌟", 2456,
		"Proven system for success. Limited spots available!"),
	demoProfile(false, "Alice Johnson",
		"Senior Software Engineer at Google | Python, Go, Kubernetes", 847,
		"Building scalable systems and ML applications."),
	demoProfile(false, "Bob Smith",
		"Product Manager at Microsoft | B2B SaaS | Growth Strategy", 1523,
		"Experienced PM focused on data-driven product decisions."),
	demoProfile(false, "Maria Garcia",
		"Founder & CEO at TechStartup | Series A | Building AI Solutions", 945,
		"Building innovative healthcare AI. Ex-Amazon, Stanford PhD."),
	demoProfile(false, "Chris Lee",
		"Entrepreneur | Startup Advisor | Angel Investor", 3421,
		"Helping early-stage startups grow. Former VP at Facebook."),
}

func newExampleCmd(load configLoader) *cobra.Command {
	var rules, format string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Score built-in sample profiles, spam and legitimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rules") {
				rules = cfg.Rules
			}
			return runExample(rules, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&rules, "rules", ruleset.DefaultName, "Rule set: builtin name or YAML path")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func runExample(rules, format string, w io.Writer) error {
	if format != "text" && format != "json" {
		return exitError(3, "unknown format: %s", format)
	}
	rs, err := ruleset.Resolve(rules)
	if err != nil {
		return exitError(3, "failed to load rule set: %v", err)
	}
	engine, err := spam.New(rs)
	if err != nil {
		return exitError(3, "%v", err)
	}
	opts := render.Options{RuleSet: rs.Name}

	if format == "json" {
		reports := make([]render.Report, 0, len(demos))
		for _, d := range demos {
			reports = append(reports, render.NewReport(d.record, engine.Score(d.record), opts))
		}
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
		return nil
	}

	rule := strings.Repeat("=", 60)
	for i, d := range demos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		kind := "LEGITIMATE"
		if d.spam {
			kind = "SPAM"
		}
		fmt.Fprintf(w, "%s\nExample %d of %d (%s)\n%s\n", rule, i+1, len(demos), kind, rule)
		fmt.Fprint(w, render.Text(d.record, engine.Score(d.record), opts))
	}
	return nil
}
