package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blockvote/internal/app/bootstrap"
	"blockvote/internal/platform/config"

	"github.com/urfave/cli/v2"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Start the outbox relay and the election window monitor.
func main() {
	app := &cli.App{
		Name:  "blockvote-worker",
		Usage: "outbox relay and election window monitor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file; environment variables override it",
				EnvVars: []string{"BLOCKVOTE_CONFIG"},
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	app, err := bootstrap.BuildWorker(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap worker failed: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "worker shutdown close failed: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
