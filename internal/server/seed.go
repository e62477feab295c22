package server

import (
	"context"
	"log/slog"

	"github.com/playperu/arcade/internal/catalog"
)

// Seed prepares a fresh install: the configured admin account and, when
// demo is set, one demo game per variant. Both steps are idempotent.
func Seed(ctx context.Context, logger *slog.Logger, admin *AdminStore, games *catalog.Store, email, password string, demo bool) error {
	if email != "" {
		if err := admin.EnsureAdmin(ctx, email, password); err != nil {
			return err
		}
		logger.Info("admin account ready", "email", normalizeEmail(email))
	}
	if demo {
		return catalog.SeedDemo(ctx, logger, games)
	}
	return nil
}
