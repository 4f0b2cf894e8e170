package instruments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
)

// Repository handles instrument persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to instrument operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new instrument row.
func (r *Repository) Create(ctx context.Context, instrument *models.Instrument) error {
	if instrument == nil {
		return fmt.Errorf("instrument is required")
	}
	return r.db.WithContext(ctx).Create(instrument).Error
}

// FindByID loads an instrument by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Instrument, error) {
	var instrument models.Instrument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&instrument).Error; err != nil {
		return nil, err
	}
	return &instrument, nil
}

// List returns every instrument ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Instrument, error) {
	var rows []models.Instrument
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided instrument.
func (r *Repository) Update(ctx context.Context, instrument *models.Instrument) error {
	if instrument == nil {
		return fmt.Errorf("instrument is required")
	}
	return r.db.WithContext(ctx).Save(instrument).Error
}

// Delete removes the instrument row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Instrument{}, "id = ?", id).Error
}
