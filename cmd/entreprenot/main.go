package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rollingchair63/EntrepreNO/internal/config"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "entreprenot",
		Short:         "Score LinkedIn-style profiles for spam likelihood",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	load := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, exitError(3, "failed to load config: %v", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		newAnalyzeCmd(load),
		newExampleCmd(load),
		newRulesCmd(),
		newServeCmd(load),
	)
	return root
}

// configLoader defers config loading until a command runs, after flags
// are parsed.
type configLoader func() (config.Config, error)

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
