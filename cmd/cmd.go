// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, analyzeCommand, exportCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Use a pasted access token instead of configured credentials",
	}
}

// setupCommand initializes config and the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand verifies Spotify credentials
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Verify Spotify API credentials",
		Flags:  []cli.Flag{configFlag(), tokenFlag()},
		Action: r.Auth,
	}
}

// analyzeCommand runs the full analysis pipeline
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"an"},
		Usage:     "Fetch a playlist and report popularity and artist statistics",
		ArgsUsage: "<playlist ID or URL>",
		Flags: []cli.Flag{
			configFlag(),
			tokenFlag(),
			&cli.BoolFlag{
				Name:  "example",
				Usage: "Analyze the example playlist (Today's Top Hits)",
			},
			&cli.IntFlag{
				Name:  "bucket-width",
				Usage: "Popularity histogram bucket width",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of artists shown in the ranking",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Also export the track table to this CSV path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the full analysis result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Skip recording this run in history",
			},
		},
		Action: r.Analyze,
	}
}

// exportCommand writes the CSV files without the terminal report
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a playlist's track table as CSV",
		ArgsUsage: "<playlist ID or URL>",
		Flags: []cli.Flag{
			configFlag(),
			tokenFlag(),
			&cli.BoolFlag{
				Name:  "example",
				Usage: "Export the example playlist (Today's Top Hits)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output base path (files get _tracks.csv and _metadata.csv suffixes)",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Skip recording this run in history",
			},
		},
		Action: r.Export,
	}
}

// historyCommand lists past analysis runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past analysis runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Only show runs for this playlist ID or URL",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}
