package events

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/pagination"
)

// Repository handles event log persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to event log operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows a listing. Zero values mean "no constraint".
type Filter struct {
	Severity   enums.EventSeverity
	Collection string
	From       *time.Time
	To         *time.Time
	Page       pagination.Params
}

// Create appends an entry.
func (r *Repository) Create(ctx context.Context, entry *models.EventLogEntry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries newest first along with the unpaged total.
func (r *Repository) List(ctx context.Context, filter Filter) ([]models.EventLogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EventLogEntry{})
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Collection != "" {
		query = query.Where("collection = ?", filter.Collection)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EventLogEntry
	if err := query.
		Order("occurred_at DESC").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
