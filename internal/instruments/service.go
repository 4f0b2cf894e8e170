package instruments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

type instrumentRepository interface {
	Create(ctx context.Context, instrument *models.Instrument) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Instrument, error)
	List(ctx context.Context) ([]models.Instrument, error)
	Update(ctx context.Context, instrument *models.Instrument) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRecorder interface {
	Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error
}

// Service exposes instrument registry operations.
type Service interface {
	List(ctx context.Context) ([]InstrumentDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*InstrumentDTO, error)
	Create(ctx context.Context, actor string, input UpsertInstrumentInput) (*InstrumentDTO, error)
	Update(ctx context.Context, actor string, id uuid.UUID, input UpsertInstrumentInput) (*InstrumentDTO, error)
	Delete(ctx context.Context, actor string, id uuid.UUID) error
}

type service struct {
	repo   instrumentRepository
	events eventRecorder
}

// NewService builds an instrument service with the provided repositories.
func NewService(repo instrumentRepository, events eventRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("instrument repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event recorder required")
	}
	return &service{repo: repo, events: events}, nil
}

// UpsertInstrumentInput captures the mutable instrument fields.
type UpsertInstrumentInput struct {
	Name             string
	Model            string
	SerialNumber     string
	Category         string
	Location         string
	Status           enums.InstrumentStatus
	LastCalibratedAt *time.Time
	Notes            string
}

func (in *UpsertInstrumentInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Model = strings.TrimSpace(in.Model)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Model == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}
	if in.SerialNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "serial number is required")
	}
	if in.Category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if in.Status == "" {
		in.Status = enums.InstrumentStatusAvailable
	}
	if !in.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid instrument status")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]InstrumentDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list instruments")
	}
	return fromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*InstrumentDTO, error) {
	instrument, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "instrument not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load instrument")
	}
	return FromModel(instrument), nil
}

func (s *service) Create(ctx context.Context, actor string, input UpsertInstrumentInput) (*InstrumentDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	instrument := &models.Instrument{
		ID:               uuid.New(),
		Name:             input.Name,
		Model:            input.Model,
		SerialNumber:     input.SerialNumber,
		Category:         input.Category,
		Location:         input.Location,
		Status:           input.Status,
		LastCalibratedAt: input.LastCalibratedAt,
		Notes:            optional(input.Notes),
	}
	if err := s.repo.Create(ctx, instrument); err != nil {
		if db.IsUniqueViolation(err, "serial_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create instrument")
	}

	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "registered instrument", "instruments", instrument.Name)
	return FromModel(instrument), nil
}

func (s *service) Update(ctx context.Context, actor string, id uuid.UUID, input UpsertInstrumentInput) (*InstrumentDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	instrument, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "instrument not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load instrument")
	}

	instrument.Name = input.Name
	instrument.Model = input.Model
	instrument.SerialNumber = input.SerialNumber
	instrument.Category = input.Category
	instrument.Location = input.Location
	instrument.Status = input.Status
	instrument.LastCalibratedAt = input.LastCalibratedAt
	instrument.Notes = optional(input.Notes)

	if err := s.repo.Update(ctx, instrument); err != nil {
		if db.IsUniqueViolation(err, "serial_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update instrument")
	}

	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated instrument", "instruments", instrument.Name)
	return FromModel(instrument), nil
}

func (s *service) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	instrument, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "instrument not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load instrument")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete instrument")
	}

	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "removed instrument", "instruments", instrument.Name)
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
