package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/notes-news/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	srv, err := server.New(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("configuration loaded",
		slog.String("env", a.cfg.Env),
		slog.String("addr", a.cfg.HTTP.Addr()),
		slog.String("database", a.cfg.Database.Driver),
		slog.Bool("github", a.cfg.Auth.GitHubEnabled()),
	)
	return srv.Start(ctx)
}
