package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rollingchair63/EntrepreNO/internal/observability"
	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
	"github.com/rollingchair63/EntrepreNO/internal/server"
	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

func newServeCmd(load configLoader) *cobra.Command {
	var addr, rules string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("rules") {
				cfg.Rules = rules
			}

			logger := observability.InitLogger(observability.LogConfig{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})

			rs, err := ruleset.Resolve(cfg.Rules)
			if err != nil {
				return exitError(3, "failed to load rule set: %v", err)
			}
			engine, err := spam.New(rs)
			if err != nil {
				return exitError(3, "%v", err)
			}

			srv, err := server.New(server.Options{
				Engine:       engine,
				Metrics:      observability.NewMetrics(),
				Logger:       logger,
				Redact:       cfg.Redact,
				MaxBodyBytes: cfg.MaxBodyBytes,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVar(&rules, "rules", "", "Rule set: builtin name or YAML path")
	return cmd
}
