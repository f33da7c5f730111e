package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/intermediate-db/internal/crawl"
	"github.com/dtnitsch/intermediate-db/internal/db"
	"github.com/dtnitsch/intermediate-db/pkg/importer"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "idb",
		Usage: "Stage forum data in an intermediate SQLite database for import",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Intermediate database path (default: intermediate.db)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create an empty intermediate database",
				Action: db.CreateAction,
			},
			{
				Name:  "import",
				Usage: "Import data into the intermediate database",
				Subcommands: []*cli.Command{
					{
						Name:  "crawl",
						Usage: "Import crawled or saved forum pages",
						Flags: []cli.Flag{
							&cli.StringSliceFlag{
								Name:  "url",
								Usage: "Page to fetch (repeatable, replaces crawl.urls)",
							},
							&cli.StringSliceFlag{
								Name:  "dir",
								Usage: "Directory of saved .html pages (repeatable, replaces crawl.dirs)",
							},
							&cli.StringFlag{
								Name:  "base-url",
								Usage: "URL the saved pages were served under",
							},
							&cli.IntFlag{
								Name:  "workers",
								Usage: "Number of concurrent parsers",
								Value: importer.DefaultWorkers,
							},
							&cli.IntFlag{
								Name:  "batch-size",
								Usage: "Rows per transaction",
								Value: 1000,
							},
							&cli.BoolFlag{
								Name:  "detect-language",
								Usage: "Detect the locale of every page",
							},
							&cli.BoolFlag{
								Name:  "no-cache",
								Usage: "Fetch every page even when crawl.cache_dir holds a copy",
							},
						},
						Action: crawl.ImportAction,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show row counts per table",
				Action: db.StatsAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Include empty tables"},
					&cli.BoolFlag{Name: "json", Usage: "Print counts as JSON"},
				},
			},
			{
				Name:   "log",
				Usage:  "Show log entries of past runs",
				Action: db.LogAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Only show entries of this type (info, warning, error)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum entries to show", Value: 50},
					&cli.BoolFlag{Name: "exceptions", Usage: "Include the recorded errors"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
