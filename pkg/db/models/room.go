package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Room is a sick room. Occupancy is derived from the patients relation and
// must stay at or below Capacity.
type Room struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RoomNumber string           `gorm:"column:room_number;uniqueIndex;not null"`
	Type       enums.RoomType   `gorm:"column:type;not null;default:'general'"`
	Capacity   int              `gorm:"column:capacity;not null"`
	Status     enums.RoomStatus `gorm:"column:status;not null;default:'available'"`
	Notes      *string          `gorm:"column:notes"`
	Patients   []Patient        `gorm:"foreignKey:RoomID"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Patient is admitted to exactly one room at a time.
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoomID      uuid.UUID  `gorm:"column:room_id;type:uuid;not null;index"`
	FullName    string     `gorm:"column:full_name;not null"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`
	Condition   string     `gorm:"column:condition;not null"`
	AdmittedAt  time.Time  `gorm:"column:admitted_at;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
