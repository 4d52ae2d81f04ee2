package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List, show and validate rule sets",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List builtin rule sets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runRulesList(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "show [name|path]",
			Short: "Print a rule set's terms and weights",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ref := ruleset.DefaultName
				if len(args) == 1 {
					ref = args[0]
				}
				return runRulesShow(ref, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "validate <path>",
			Short: "Check a rule set file for errors",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runRulesValidate(args[0], cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func runRulesList(w io.Writer) error {
	names, err := ruleset.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		rs, err := ruleset.LoadBuiltin(name)
		if err != nil {
			return err
		}
		marker := " "
		if name == ruleset.DefaultName {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-10s v%d  %d keywords, %d phrases\n", marker, name, rs.Version, len(rs.Keywords), len(rs.Phrases))
	}
	return nil
}

func runRulesShow(ref string, w io.Writer) error {
	rs, err := ruleset.Resolve(ref)
	if err != nil {
		return exitError(3, "failed to load rule set: %v", err)
	}
	fmt.Fprint(w, ruleset.Format(rs))
	return nil
}

func runRulesValidate(path string, w io.Writer) error {
	rs, err := ruleset.Load(path)
	if err != nil {
		return exitError(3, "failed to load rule set: %v", err)
	}
	errs := rs.Validate()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return exitError(3, "rule set %q has %d error(s)", rs.Name, len(errs))
	}
	fmt.Fprintf(w, "OK: %s (v%d)\n", rs.Name, rs.Version)
	return nil
}
