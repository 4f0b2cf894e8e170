package migrate

import (
	"context"
	"fmt"

	"github.com/smoralesdev/labtrack-backend/pkg/config"
	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	// The Goose migrations are written for Postgres. SQLite is only used for
	// local development, so the schema comes from the models directly.
	if cfg.DB.Driver == "sqlite" {
		logg.Info(ctx, "auto-migrating schema from models (sqlite)")
		return client.DB().WithContext(ctx).AutoMigrate(
			&models.User{},
			&models.Instrument{},
			&models.Reagent{},
			&models.ReagentVendor{},
			&models.ReagentSupply{},
			&models.ReagentUsage{},
			&models.Room{},
			&models.Patient{},
			&models.EventLogEntry{},
		)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
