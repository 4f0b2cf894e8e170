package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Instrument is one entry in the lab instrument registry.
type Instrument struct {
	ID               uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name             string                 `gorm:"column:name;not null"`
	Model            string                 `gorm:"column:model;not null"`
	SerialNumber     string                 `gorm:"column:serial_number;uniqueIndex;not null"`
	Category         string                 `gorm:"column:category;not null"`
	Location         string                 `gorm:"column:location"`
	Status           enums.InstrumentStatus `gorm:"column:status;not null;default:'Available'"`
	LastCalibratedAt *time.Time             `gorm:"column:last_calibrated_at"`
	Notes            *string                `gorm:"column:notes"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
