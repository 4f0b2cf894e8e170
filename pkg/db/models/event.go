package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// EventLogEntry is an append-only audit record shown in the event log page.
type EventLogEntry struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time           `gorm:"column:occurred_at;not null;index"`
	Severity   enums.EventSeverity `gorm:"column:severity;not null;default:'info'"`
	Actor      string              `gorm:"column:actor;not null"`
	Action     string              `gorm:"column:action;not null"`
	Collection string              `gorm:"column:collection;index"`
	Detail     string              `gorm:"column:detail"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}
