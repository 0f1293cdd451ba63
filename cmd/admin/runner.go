package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
)

var errSeedRefused = errors.New("refusing to seed outside development; pass --force to override")

type runner struct {
	cfg *config.Config
	// open is db.NewDB unless a test swaps it.
	open func(*config.Config) (*gorm.DB, error)
}

func (r *runner) database() (*gorm.DB, error) {
	if r.open != nil {
		return r.open(r.cfg)
	}
	return db.NewDB(r.cfg)
}

// migrate relies on the connection setup, which migrates on open.
func (r *runner) migrate(_ context.Context, _ *cli.Command) error {
	if _, err := r.database(); err != nil {
		return err
	}
	logger.Info("schema migrated", "driver", r.cfg.DB.Driver)
	return nil
}

func (r *runner) seed(_ context.Context, cmd *cli.Command) error {
	if !r.cfg.IsDevelopment() && !cmd.Bool("force") {
		return errSeedRefused
	}
	database, err := r.database()
	if err != nil {
		return err
	}
	if err := db.SeedTestData(database); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	logger.Info("seeding completed", "password", db.DemoPassword)
	return nil
}

func (r *runner) revokeSession(ctx context.Context, cmd *cli.Command) error {
	database, err := r.database()
	if err != nil {
		return err
	}
	users := repository.NewUserRepository(database)

	u, err := users.FindByUsername(ctx, cmd.String("user"))
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", cmd.String("user"), err)
	}
	if err := auth.NewManagerFromConfig(users, r.cfg.Auth).Revoke(ctx, u.ID); err != nil {
		return err
	}
	logger.Info("session revoked", "user_id", u.ID, "username", u.Username)
	return nil
}
