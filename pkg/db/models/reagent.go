package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reagent is a chemical the lab keeps in stock. Quantity on hand and batch
// count are derived from supplies and usages, never stored here.
type Reagent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CASNumber string    `gorm:"column:cas_number;index"`
	Unit      string    `gorm:"column:unit;not null"`
	Storage   string    `gorm:"column:storage"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ReagentSupply records one received batch of a reagent.
type ReagentSupply struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReagentID      uuid.UUID       `gorm:"column:reagent_id;type:uuid;not null;index"`
	VendorID       uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	LotNumber      string          `gorm:"column:lot_number;not null"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	OrderDate      time.Time       `gorm:"column:order_date;not null"`
	ReceiptDate    time.Time       `gorm:"column:receipt_date;not null"`
	ExpirationDate time.Time       `gorm:"column:expiration_date;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ReagentUsage records stock drawn from a reagent for a procedure.
type ReagentUsage struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ReagentID    uuid.UUID       `gorm:"column:reagent_id;type:uuid;not null;index"`
	InstrumentID *uuid.UUID      `gorm:"column:instrument_id;type:uuid;index"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Purpose      string          `gorm:"column:purpose;not null"`
	UsedAt       time.Time       `gorm:"column:used_at;not null"`
	RecordedBy   *uuid.UUID      `gorm:"column:recorded_by;type:uuid"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
