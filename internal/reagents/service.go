package reagents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

var casNumberRe = regexp.MustCompile(`^\d{2,7}-\d{2}-\d{1}$`)

type domainRepository interface {
	CreateReagent(ctx context.Context, reagent *models.Reagent) error
	FindReagentByID(ctx context.Context, id uuid.UUID) (*models.Reagent, error)
	ListReagents(ctx context.Context) ([]models.Reagent, error)
	UpdateReagent(ctx context.Context, reagent *models.Reagent) error
	DeleteReagent(ctx context.Context, id uuid.UUID) error
	StockByReagent(ctx context.Context) (map[uuid.UUID]Stock, error)

	CreateVendor(ctx context.Context, vendor *models.ReagentVendor) error
	FindVendorByID(ctx context.Context, id uuid.UUID) (*models.ReagentVendor, error)
	ListVendors(ctx context.Context) ([]models.ReagentVendor, error)
	UpdateVendor(ctx context.Context, vendor *models.ReagentVendor) error
	DeleteVendor(ctx context.Context, id uuid.UUID) error
	CountSuppliesForVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)

	CreateSupply(ctx context.Context, supply *models.ReagentSupply) error
	FindSupplyByID(ctx context.Context, id uuid.UUID) (*models.ReagentSupply, error)
	ListSupplies(ctx context.Context) ([]models.ReagentSupply, error)
	UpdateSupply(ctx context.Context, supply *models.ReagentSupply) error
	DeleteSupply(ctx context.Context, id uuid.UUID) error

	CreateUsage(ctx context.Context, usage *models.ReagentUsage) error
	FindUsageByID(ctx context.Context, id uuid.UUID) (*models.ReagentUsage, error)
	ListUsages(ctx context.Context) ([]models.ReagentUsage, error)
	UpdateUsage(ctx context.Context, usage *models.ReagentUsage) error
	DeleteUsage(ctx context.Context, id uuid.UUID) error
}

type instrumentDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Instrument, error)
	List(ctx context.Context) ([]models.Instrument, error)
}

type eventRecorder interface {
	Record(ctx context.Context, severity enums.EventSeverity, actor, action, collection, detail string) error
}

// Service exposes the reagent domain: catalog, vendors, supplies and
// usages.
type Service interface {
	ListReagents(ctx context.Context) ([]ReagentDTO, error)
	GetReagent(ctx context.Context, id uuid.UUID) (*ReagentDTO, error)
	CreateReagent(ctx context.Context, actor string, input UpsertReagentInput) (*ReagentDTO, error)
	UpdateReagent(ctx context.Context, actor string, id uuid.UUID, input UpsertReagentInput) (*ReagentDTO, error)
	DeleteReagent(ctx context.Context, actor string, id uuid.UUID) error

	ListVendors(ctx context.Context) ([]VendorDTO, error)
	CreateVendor(ctx context.Context, actor string, input UpsertVendorInput) (*VendorDTO, error)
	UpdateVendor(ctx context.Context, actor string, id uuid.UUID, input UpsertVendorInput) (*VendorDTO, error)
	DeleteVendor(ctx context.Context, actor string, id uuid.UUID) error

	ListSupplies(ctx context.Context) ([]SupplyDTO, error)
	CreateSupply(ctx context.Context, actor string, input UpsertSupplyInput) (*SupplyDTO, error)
	UpdateSupply(ctx context.Context, actor string, id uuid.UUID, input UpsertSupplyInput) (*SupplyDTO, error)
	DeleteSupply(ctx context.Context, actor string, id uuid.UUID) error

	ListUsages(ctx context.Context) ([]UsageDTO, error)
	CreateUsage(ctx context.Context, actor string, input UpsertUsageInput) (*UsageDTO, error)
	UpdateUsage(ctx context.Context, actor string, id uuid.UUID, input UpsertUsageInput) (*UsageDTO, error)
	DeleteUsage(ctx context.Context, actor string, id uuid.UUID) error
}

type service struct {
	repo        domainRepository
	instruments instrumentDirectory
	events      eventRecorder
	now         func() time.Time
}

// NewService builds the reagent domain service.
func NewService(repo domainRepository, instruments instrumentDirectory, events eventRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reagent repository required")
	}
	if instruments == nil {
		return nil, fmt.Errorf("instrument directory required")
	}
	if events == nil {
		return nil, fmt.Errorf("event recorder required")
	}
	return &service{repo: repo, instruments: instruments, events: events, now: time.Now}, nil
}

// --- catalog ---

// UpsertReagentInput captures the mutable catalog fields.
type UpsertReagentInput struct {
	Name      string
	CASNumber string
	Unit      string
	Storage   string
}

func (in *UpsertReagentInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.CASNumber = strings.TrimSpace(in.CASNumber)
	in.Unit = strings.TrimSpace(in.Unit)
	in.Storage = strings.TrimSpace(in.Storage)
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Unit == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if in.CASNumber != "" && !casNumberRe.MatchString(in.CASNumber) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid CAS number")
	}
	return nil
}

func (s *service) ListReagents(ctx context.Context) ([]ReagentDTO, error) {
	rows, err := s.repo.ListReagents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reagents")
	}
	stock, err := s.repo.StockByReagent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stock")
	}
	out := make([]ReagentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *reagentFromModel(&rows[i], stock[rows[i].ID]))
	}
	return out, nil
}

func (s *service) GetReagent(ctx context.Context, id uuid.UUID) (*ReagentDTO, error) {
	reagent, err := s.repo.FindReagentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reagent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reagent")
	}
	stock, err := s.repo.StockByReagent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stock")
	}
	return reagentFromModel(reagent, stock[reagent.ID]), nil
}

func (s *service) CreateReagent(ctx context.Context, actor string, input UpsertReagentInput) (*ReagentDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	reagent := &models.Reagent{
		ID:        uuid.New(),
		Name:      input.Name,
		CASNumber: input.CASNumber,
		Unit:      input.Unit,
		Storage:   input.Storage,
	}
	if err := s.repo.CreateReagent(ctx, reagent); err != nil {
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "reagent name already in catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reagent")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "added reagent", "reagents", reagent.Name)
	return reagentFromModel(reagent, Stock{}), nil
}

func (s *service) UpdateReagent(ctx context.Context, actor string, id uuid.UUID, input UpsertReagentInput) (*ReagentDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	reagent, err := s.repo.FindReagentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reagent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reagent")
	}

	reagent.Name = input.Name
	reagent.CASNumber = input.CASNumber
	reagent.Unit = input.Unit
	reagent.Storage = input.Storage

	if err := s.repo.UpdateReagent(ctx, reagent); err != nil {
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "reagent name already in catalog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reagent")
	}

	stock, err := s.repo.StockByReagent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stock")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated reagent", "reagents", reagent.Name)
	return reagentFromModel(reagent, stock[reagent.ID]), nil
}

func (s *service) DeleteReagent(ctx context.Context, actor string, id uuid.UUID) error {
	reagent, err := s.repo.FindReagentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reagent not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reagent")
	}
	if err := s.repo.DeleteReagent(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reagent")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "deleted reagent", "reagents", reagent.Name)
	return nil
}

// --- vendors ---

// UpsertVendorInput captures the mutable vendor fields.
type UpsertVendorInput struct {
	VendorCode   string
	Name         string
	ContactEmail string
	ContactPhone string
	Address      string
}

func (in *UpsertVendorInput) normalize() error {
	in.VendorCode = strings.TrimSpace(in.VendorCode)
	in.Name = strings.TrimSpace(in.Name)
	in.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Address = strings.TrimSpace(in.Address)
	if in.VendorCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor code is required")
	}
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !strings.Contains(in.ContactEmail, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid contact email")
	}
	if digitCount(in.ContactPhone) < 10 {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact phone must contain at least 10 digits")
	}
	if in.Address == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	return nil
}

func (s *service) ListVendors(ctx context.Context) ([]VendorDTO, error) {
	rows, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	out := make([]VendorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *vendorFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateVendor(ctx context.Context, actor string, input UpsertVendorInput) (*VendorDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	vendor := &models.ReagentVendor{
		ID:           uuid.New(),
		VendorCode:   input.VendorCode,
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Address:      input.Address,
	}
	if err := s.repo.CreateVendor(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "vendor_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "created vendor", "vendors", vendor.VendorCode)
	return vendorFromModel(vendor), nil
}

func (s *service) UpdateVendor(ctx context.Context, actor string, id uuid.UUID, input UpsertVendorInput) (*VendorDTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	vendor, err := s.repo.FindVendorByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	vendor.VendorCode = input.VendorCode
	vendor.Name = input.Name
	vendor.ContactEmail = input.ContactEmail
	vendor.ContactPhone = input.ContactPhone
	vendor.Address = input.Address

	if err := s.repo.UpdateVendor(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "vendor_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated vendor", "vendors", vendor.VendorCode)
	return vendorFromModel(vendor), nil
}

func (s *service) DeleteVendor(ctx context.Context, actor string, id uuid.UUID) error {
	vendor, err := s.repo.FindVendorByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	count, err := s.repo.CountSuppliesForVendor(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vendor supplies")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor has supply records")
	}

	if err := s.repo.DeleteVendor(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "deleted vendor", "vendors", vendor.VendorCode)
	return nil
}

func digitCount(value string) int {
	count := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
