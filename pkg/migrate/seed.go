package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smoralesdev/labtrack-backend/pkg/config"
	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
	"github.com/smoralesdev/labtrack-backend/pkg/security"
)

const demoAdminEmail = "admin@labtrack.local"

// MaybeSeedDemo inserts a demo admin account plus a starter ward and
// instrument so a fresh dev environment is usable immediately. It only runs
// in dev mode, behind its feature flag, and only on an empty user table.
func MaybeSeedDemo(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.SeedDemo {
		return nil
	}

	conn := client.DB().WithContext(ctx)

	var userCount int64
	if err := conn.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if userCount > 0 {
		logg.Info(ctx, "demo seed skipped, users already present")
		return nil
	}

	hash, err := security.HashPassword("labtrack-demo", cfg.Password)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	admin := models.User{
		ID:           uuid.New(),
		Email:        demoAdminEmail,
		PasswordHash: hash,
		FullName:     "LabTrack Admin",
		Role:         enums.StaffRoleAdmin,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	rooms := []models.Room{
		{ID: uuid.New(), RoomNumber: "101", Type: enums.RoomTypeGeneral, Capacity: 4, Status: enums.RoomStatusAvailable},
		{ID: uuid.New(), RoomNumber: "201", Type: enums.RoomTypeICU, Capacity: 2, Status: enums.RoomStatusAvailable},
	}
	if err := conn.Create(&rooms).Error; err != nil {
		return fmt.Errorf("seeding rooms: %w", err)
	}

	calibrated := time.Now().UTC().AddDate(0, -1, 0)
	instrument := models.Instrument{
		ID:               uuid.New(),
		Name:             "Centrifuge A",
		Model:            "Eppendorf 5420",
		SerialNumber:     "DEMO-0001",
		Category:         "centrifuge",
		Status:           enums.InstrumentStatusAvailable,
		LastCalibratedAt: &calibrated,
	}
	if err := conn.Create(&instrument).Error; err != nil {
		return fmt.Errorf("seeding instrument: %w", err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"admin_email": demoAdminEmail}), "demo data seeded")
	return nil
}
