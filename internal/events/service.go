package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
	"github.com/smoralesdev/labtrack-backend/pkg/pagination"
	"github.com/smoralesdev/labtrack-backend/pkg/types"
)

type eventRepository interface {
	Create(ctx context.Context, entry *models.EventLogEntry) error
	List(ctx context.Context, filter Filter) ([]models.EventLogEntry, int64, error)
}

// Service exposes the audit trail.
type Service interface {
	Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error
	List(ctx context.Context, filter Filter) ([]EventDTO, *types.PageMeta, error)
}

type service struct {
	repo eventRepository
	now  func() time.Time
}

// NewService builds the event log service.
func NewService(repo eventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error {
	if !severity.IsValid() {
		severity = enums.EventSeverityInfo
	}
	entry := &models.EventLogEntry{
		ID:         uuid.New(),
		OccurredAt: s.now().UTC(),
		Severity:   severity,
		Actor:      actor,
		Action:     action,
		Collection: collection,
		Detail:     detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record event")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]EventDTO, *types.PageMeta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	meta := &types.PageMeta{
		Page:       pagination.ClampPage(filter.Page.Page, pagination.TotalPages(int(total), filter.Page.PageSize)),
		PageSize:   pagination.NormalizePageSize(filter.Page.PageSize),
		TotalItems: int(total),
		TotalPages: pagination.TotalPages(int(total), filter.Page.PageSize),
	}
	return fromModels(rows), meta, nil
}
