// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the preference database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the preference database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand launches the interactive mixer and timer
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive mixer and focus timer",
		Action: r.TUI,
	}
}

// timerCommand runs the focus timer without the TUI
func timerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "timer",
		Usage: "Focus timer operations",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the timer in the terminal, printing each update",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Session mode: focus, short-break or long-break",
						Value:   "focus",
					},
					&cli.IntFlag{
						Name:  "minutes",
						Usage: "Duration of the selected mode in minutes",
					},
					&cli.BoolFlag{
						Name:  "auto-start",
						Usage: "Start the next session automatically",
					},
					&cli.IntFlag{
						Name:  "sessions",
						Usage: "Number of sessions to run before exiting",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "sessions-before-long",
						Usage: "Focus sessions before a long break",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Only print session changes",
					},
				},
				Action: r.TimerRun,
			},
		},
	}
}

// soundsCommand lists the sound catalog
func soundsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sounds",
		Usage: "Sound catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the sounds available to the mixer",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SoundsList,
			},
		},
	}
}

// prefsCommand inspects and toggles preference persistence
func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "prefs",
		Aliases: []string{"preferences"},
		Usage:   "Saved preference operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the preferences the next session starts with",
				Flags: []cli.Flag{
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
				Action: r.PrefsShow,
			},
			{
				Name:   "enable",
				Usage:  "Save preferences between sessions",
				Action: r.PrefsEnable,
			},
			{
				Name:   "disable",
				Usage:  "Stop saving preferences and erase the saved ones",
				Action: r.PrefsDisable,
			},
		},
	}
}
