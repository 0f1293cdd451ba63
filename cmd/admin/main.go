package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
)

func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)

	app := newApp(&runner{cfg: cfg})
	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("admin command failed", "err", err)
		os.Exit(1)
	}
}

func newApp(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "vidtube-admin",
		Usage: "Operator tasks for the VidTube database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: r.migrate,
			},
			{
				Name:  "seed",
				Usage: "Replace all data with demo users, videos and relations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Seed even when APP_ENV is not development",
					},
				},
				Action: r.seed,
			},
			{
				Name:  "revoke-session",
				Usage: "Log a user out everywhere by clearing their refresh session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username of the account",
						Required: true,
					},
				},
				Action: r.revokeSession,
			},
		},
	}
}
