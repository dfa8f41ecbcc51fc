package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"vinylvault/internal/shared"
)

// Cover looks up cover art for a single artist/album pair and prints the URL.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.StringArg("artist")
	album := cmd.StringArg("album")

	if artist == "" || album == "" {
		return fmt.Errorf("%w: usage: vinyl cover <artist> <album>", shared.ErrMissingArgument)
	}

	url, err := r.covers.Resolve(ctx, artist, album)
	if err != nil {
		return fmt.Errorf("cover lookup failed: %w", err)
	}

	if cmd.Bool("json") {
		var image any
		if url != "" {
			image = url
		}
		return r.writeJSON(map[string]any{"image": image}, false)
	}

	if url == "" {
		return r.writePlain("No cover found for %s - %s\n", artist, album)
	}
	return r.writePlain("%s\n", url)
}
