package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev executes migrations automatically when the app is running in dev
// mode and the feature flag is enabled. The sqlite driver has no goose
// history, so its schema is derived from the models instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})

	if client.Driver() == config.DriverSQLite {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := AutoMigrateModels(client.DB()); err != nil {
			return fmt.Errorf("auto-migrate models: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dir", DefaultDir)
	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}

// AutoMigrateModels creates or updates the tables for every persisted model.
func AutoMigrateModels(conn *gorm.DB) error {
	return conn.AutoMigrate(&models.User{}, &models.Trip{})
}
