// Package main is the entry point for the bloglist database migration tool.
// Migrations are embedded in the binary for both PostgreSQL and SQLite.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/prn-tf/bloglist/internal/app"
	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bloglist-migrate",
		Usage: "manage the bloglist database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file",
				EnvVars: []string{"BLOGLIST_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply all pending migrations", Action: withProvider(up)},
			{Name: "down", Usage: "roll back the last migration", Action: withProvider(down)},
			{Name: "status", Usage: "show the state of every migration", Action: withProvider(status)},
			{Name: "current", Usage: "print the current schema version", Action: withProvider(current)},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "bloglist migration tool\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n",
						Version, BuildTime, GitCommit)
					return nil
				},
			},
		},
	}
}

type providerAction func(c *cli.Context, p *goose.Provider) error

func withProvider(fn providerAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}

		logger, err := logging.New(config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"})
		if err != nil {
			logger = zerolog.Nop()
		}

		provider, closeDB, err := app.OpenMigrator(c.Context, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeDB()

		return fn(c, provider)
	}
}

func up(c *cli.Context, p *goose.Provider) error {
	results, err := p.Up(c.Context)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "no pending migrations")
		return nil
	}
	printResults(c.App.Writer, "applied", results)
	return nil
}

func down(c *cli.Context, p *goose.Provider) error {
	result, err := p.Down(c.Context)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, "rolled back", []*goose.MigrationResult{result})
	return nil
}

func status(c *cli.Context, p *goose.Provider) error {
	statuses, err := p.Status(c.Context)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tFILE\tSTATE\tAPPLIED AT")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, filepath.Base(s.Source.Path), s.State, applied)
	}
	return tw.Flush()
}

func current(c *cli.Context, p *goose.Provider) error {
	version, err := p.GetDBVersion(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, version)
	return nil
}

func printResults(w io.Writer, verb string, results []*goose.MigrationResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s %d %s (%s)\n", verb, r.Source.Version, filepath.Base(r.Source.Path), r.Duration.Round(time.Millisecond))
	}
}
