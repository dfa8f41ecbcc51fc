package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"vinylvault/internal/server"
	"vinylvault/internal/shared"
)

// Serve runs the catalog API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.config = r.loadConfig(cmd)

	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}

	db, repo, feed, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	if r.config.Server.AdminToken == "" {
		r.logger.Warn("no admin token configured, write API is disabled")
	}

	srv := server.New(r.config, repo, feed, r.covers, shared.WithLogger(r.logger, "component", "server"))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
