package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// User is a staff member allowed to operate the console.
type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email          string          `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string          `gorm:"column:password_hash;not null"`
	FullName       string          `gorm:"column:full_name;not null"`
	Role           enums.StaffRole `gorm:"column:role;not null;default:'technician'"`
	LastLoggedInAt *time.Time      `gorm:"column:last_logged_in_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
