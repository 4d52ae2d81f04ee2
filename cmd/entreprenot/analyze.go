package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/render"
	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

type analyzeFlags struct {
	name        string
	headline    string
	connections string
	summary     string
	rules       string
	format      string
	out         string
	failOn      string
	redact      bool
	verbose     bool
}

func (f *analyzeFlags) hasFields() bool {
	return f.name != "" || f.headline != "" || f.connections != "" || f.summary != ""
}

func newAnalyzeCmd(load configLoader) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [profile-file|-]",
		Short: "Score a profile from a text file, stdin or individual fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rules") {
				f.rules = cfg.Rules
			}
			if !cmd.Flags().Changed("redact") {
				f.redact = cfg.Redact
			}
			return runAnalyze(args, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "Profile name")
	flags.StringVar(&f.headline, "headline", "", "Profile headline")
	flags.StringVar(&f.connections, "connections", "", `Connection count, e.g. "500+" or "1,234"`)
	flags.StringVar(&f.summary, "summary", "", "Profile summary / about text")
	flags.StringVar(&f.rules, "rules", ruleset.DefaultName, "Rule set: builtin name or YAML path")
	flags.StringVar(&f.format, "format", "text", "Output format: text, md or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit 2 if the verdict is at or above this level (e.g. suspicious)")
	flags.BoolVar(&f.redact, "redact", false, "Redact contact details in echoed profile text")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runAnalyze(args []string, f *analyzeFlags, stdout, stderr io.Writer) error {
	logger := log.New(stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}

	// Check options before doing any work
	if !validFormat(f.format) {
		return exitError(3, "unknown format: %s", f.format)
	}
	var threshold spam.Verdict
	if f.failOn != "" {
		v, ok := spam.ParseVerdict(f.failOn)
		if !ok {
			return exitError(3, "unknown --fail-on level %q (want one of %s)", f.failOn, verdictNames())
		}
		threshold = v
	}

	// 1. Input
	var (
		rec  profile.Record
		opts render.Options
	)
	switch {
	case len(args) == 1 && f.hasFields():
		return exitError(3, "use either a profile file or --name/--headline/--connections/--summary, not both")
	case len(args) == 1:
		verbose("Loading profile: %s", args[0])
		src, err := profile.Load(args[0])
		if err != nil {
			return exitError(3, "failed to load profile: %v", err)
		}
		rec = src.Record()
		opts.Source = sourceName(src.FilePath)
		opts.Hash = src.Hash
		verbose("Read %d lines (%s)", len(src.Lines), src.Hash)
	case f.hasFields():
		rec = profile.FromFields(f.name, f.headline, f.connections, f.summary)
	default:
		return exitError(3, "no profile given: pass a file, - for stdin, or field flags")
	}
	verbose("Parsed profile: name=%q headline=%q connections=%s", rec.Name, oneLine(rec.Headline), countString(rec))

	// 2. Rules
	verbose("Loading rule set: %s", f.rules)
	rs, err := ruleset.Resolve(f.rules)
	if err != nil {
		return exitError(3, "failed to load rule set: %v", err)
	}
	engine, err := spam.New(rs)
	if err != nil {
		return exitError(3, "%v", err)
	}
	opts.RuleSet = rs.Name
	opts.Redact = f.redact

	// 3. Score
	res := engine.Score(rec)
	verbose("Score %d (%s), %d reasons", res.Score, res.Verdict, len(res.Matches))

	// 4. Output
	output, err := renderOutput(f.format, rec, res, opts)
	if err != nil {
		return err
	}
	if f.out != "" {
		verbose("Writing output to %s", f.out)
		if err := os.WriteFile(f.out, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprint(stdout, output)
	}

	// 5. Exit code based on --fail-on
	if threshold != "" && meetsThreshold(res.Verdict, threshold) {
		return exitError(2, "verdict %s meets fail threshold %s", res.Verdict, threshold)
	}
	return nil
}

func renderOutput(format string, rec profile.Record, res spam.Result, opts render.Options) (string, error) {
	switch format {
	case "text":
		return render.Text(rec, res, opts), nil
	case "md":
		return render.Markdown(rec, res, opts), nil
	case "json":
		data, err := render.JSON(render.NewReport(rec, res, opts))
		if err != nil {
			return "", fmt.Errorf("failed to marshal output: %w", err)
		}
		return string(data), nil
	default:
		return "", exitError(3, "unknown format: %s", format)
	}
}

func validFormat(format string) bool {
	switch format {
	case "text", "md", "json":
		return true
	}
	return false
}

func meetsThreshold(v, threshold spam.Verdict) bool {
	return v.Valid() && threshold.Valid() && v.Rank() >= threshold.Rank()
}

func verdictNames() string {
	names := make([]string, len(spam.Verdicts))
	for i, v := range spam.Verdicts {
		names[i] = strings.ToLower(string(v))
	}
	return strings.Join(names, ", ")
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}

func countString(rec profile.Record) string {
	if n, ok := rec.ConnectionCount(); ok {
		return fmt.Sprint(n)
	}
	return "unset"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
