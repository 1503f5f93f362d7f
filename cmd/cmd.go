// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotlists/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand runs the web front-end
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web front-end",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address, overrides [server] host and port",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
		},
		Action: r.Serve,
	}
}

// browseCommand runs the terminal front-end
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Sign in through the browser and browse playlists in the terminal",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the terminal UI runs",
			},
		},
		Action: r.Browse,
	}
}

// exportCommand writes the playlist listing as text, CSV, or Markdown
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Sign in through the browser and export playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, or markdown",
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: r.Export,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets redacted",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigShow,
			},
		},
	}
}
