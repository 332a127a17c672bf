package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blockvote/internal/app/bootstrap"
	"blockvote/internal/platform/config"

	"github.com/urfave/cli/v2"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server and, when embedded, the outbox relay and window monitor.

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to a YAML config file; environment variables override it",
	EnvVars: []string{"BLOCKVOTE_CONFIG"},
}

var (
	subjectFlag = &cli.StringFlag{
		Name:     "subject",
		Usage:    "principal placed in the token sub claim",
		Required: true,
	}
	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "token lifetime, zero for no expiry",
		Value: 24 * time.Hour,
	}
)

func main() {
	app := &cli.App{
		Name:   "blockvote-api",
		Usage:  "token-weighted election engine HTTP API",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:   "token",
				Usage:  "issue a bearer token for a principal",
				Flags:  []cli.Flag{subjectFlag, ttlFlag},
				Action: issueToken,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	app, err := bootstrap.BuildAPI(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap api failed: %w", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	return bootstrap.Migrate(cfg)
}

func issueToken(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	token, err := bootstrap.IssueToken(cfg, c.String(subjectFlag.Name), c.Duration(ttlFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}
