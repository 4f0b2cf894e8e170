package models

import (
	"time"

	"github.com/google/uuid"
)

// ReagentVendor is a supplier the lab orders reagents from.
// VendorCode is the human-assigned identifier shown in the console
// (wire name vendor_id); ID stays the storage key.
type ReagentVendor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorCode   string    `gorm:"column:vendor_code;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	ContactEmail string    `gorm:"column:contact_email;not null"`
	ContactPhone string    `gorm:"column:contact_phone;not null"`
	Address      string    `gorm:"column:address"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
