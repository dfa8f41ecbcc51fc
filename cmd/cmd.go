// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand runs the catalog web service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// backfillCommand resolves missing cover art in bulk.
func backfillCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Resolve cover art for records that have none",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records to process (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Resolve covers without writing them back",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every lookup, including misses",
			},
		},
		Action: r.Backfill,
	}
}

// coverCommand resolves cover art for a single artist/album pair.
func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cover",
		Usage: "Look up cover art for one album",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
			&cli.StringArg{Name: "album"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Cover,
	}
}

// statsCommand prints the dashboard aggregation.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show collection statistics",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "costs",
				Usage: "Include spend figures",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Stats,
	}
}

// exportCommand writes the collection as text or CSV.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Write CSV instead of plain text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.Export,
	}
}

// browseCommand launches the interactive catalog browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui"},
		Usage:   "Browse the collection interactively",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Browse,
	}
}
