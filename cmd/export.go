package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"vinylvault/internal/catalog"
	"vinylvault/internal/formatter"
)

// Export writes the collection to stdout or a file, one line per record by
// default, CSV with --csv. Records come out in artist order.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
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

	view := catalog.Apply(records, catalog.DefaultControls())

	var w io.Writer = r.output
	if path := cmd.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if cmd.Bool("csv") {
		data, err := formatter.ExportToCSV(view)
		if err != nil {
			return fmt.Errorf("failed to export records: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	for _, rec := range view {
		formatter.RenderRecord(w, rec)
	}
	return nil
}
