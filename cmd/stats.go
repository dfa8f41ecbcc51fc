package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"vinylvault/internal/catalog"
	"vinylvault/internal/formatter"
	"vinylvault/internal/models"
)

// Stats prints the dashboard aggregation for the whole collection. Spend
// figures only appear with --costs.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	r.config = r.loadConfig(cmd)

	db, repo, _, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.List(map[string]any{})
	if err != nil {
		return err
	}

	session := models.Session{}
	if cmd.Bool("costs") {
		session = models.AdminSession("cli")
	}

	summary := catalog.Summarize(records, time.Now(), session)

	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	formatter.RenderSummary(r.output, summary)
	return nil
}
