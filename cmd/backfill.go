package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"vinylvault/internal/shared"
)

// Backfill resolves cover art for records that have none, oldest first.
//
// The batch is deliberately slow: one record at a time with a delay between
// lookups, on top of the MusicBrainz client's own rate limit. Failures skip
// the record and move on, so a partial run leaves the catalog strictly better
// than it started.
func (r *Runner) Backfill(ctx context.Context, cmd *cli.Command) error {
	r.config = r.loadConfig(cmd)

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	logger := shared.WithLogger(r.logger, "task", "backfill")

	limit := r.config.Backfill.BatchSize
	flagLimit := int(cmd.Int("limit"))
	if flagLimit < 0 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidFlag)
	}
	if flagLimit > 0 {
		limit = flagLimit
	}
	dryRun := cmd.Bool("dry-run")
	delay := time.Duration(r.config.Backfill.DelayMS) * time.Millisecond

	db, repo, _, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.List(map[string]any{
		"missing_cover": true,
		"order_by":      "sequence",
		"limit":         limit,
	})
	if err != nil {
		return err
	}

	logger.Info("starting cover backfill", "records", len(records), "dry_run", dryRun)

	resolved, missed, failed := 0, 0, 0
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}

		url, err := r.covers.Resolve(ctx, rec.Artist(), rec.Album())
		switch {
		case err != nil:
			failed++
			logger.Warn("cover lookup failed", "artist", rec.Artist(), "album", rec.Album(), "error", err)
		case url == "":
			missed++
			logger.Debug("no cover found", "artist", rec.Artist(), "album", rec.Album())
		default:
			resolved++
			logger.Info("cover resolved", "artist", rec.Artist(), "album", rec.Album(), "url", url)
			if !dryRun {
				if err := repo.SetCoverURL(rec.ID(), url); err != nil {
					logger.Warn("failed to save cover", "id", rec.ID(), "error", err)
				}
			}
		}

		if i < len(records)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	r.writePlain("Backfill done: %d resolved, %d without art, %d failed (of %d)\n",
		resolved, missed, failed, len(records))
	return nil
}
