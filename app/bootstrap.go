// app/bootstrap.go
package app

import (
	"context"

	"go.uber.org/zap"

	"instrument-inventory/db"
	"instrument-inventory/logger"
	"instrument-inventory/models"
)

// BootstrapFirstAdmin seeds the initial admin account when the store has
// none. Users are created out-of-band afterwards, so without this a fresh
// deployment would be unusable.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		logger.Error("bootstrap admin count failed", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}

	u, err := repo.CreateUser(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword, models.RoleAdmin)
	if err != nil {
		logger.Error("bootstrap admin creation failed", zap.Error(err))
		return
	}
	logger.Info("no admin found, seeded the first admin", zap.String("email", u.Email))
}
