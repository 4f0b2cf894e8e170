package reagents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

// Orders older than five years are treated as data entry mistakes.
const orderYearWindow = 5

// UpsertSupplyInput captures the mutable supply fields.
type UpsertSupplyInput struct {
	ReagentID      uuid.UUID
	VendorID       uuid.UUID
	LotNumber      string
	Quantity       decimal.Decimal
	OrderDate      time.Time
	ReceiptDate    time.Time
	ExpirationDate time.Time
}

func (in *UpsertSupplyInput) normalize(now time.Time) error {
	in.LotNumber = strings.TrimSpace(in.LotNumber)
	if in.ReagentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reagent is required")
	}
	if in.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor is required")
	}
	if in.LotNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "lot number is required")
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if in.OrderDate.IsZero() || in.ReceiptDate.IsZero() || in.ExpirationDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order, receipt and expiration dates are required")
	}
	if in.OrderDate.After(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "order date must not be in the future")
	}
	if in.OrderDate.Before(now.AddDate(-orderYearWindow, 0, 0)) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order date must not be more than %d years in the past", orderYearWindow))
	}
	if in.ReceiptDate.Before(in.OrderDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "receipt date must not precede the order date")
	}
	if in.ExpirationDate.Before(in.ReceiptDate.AddDate(0, 0, 1)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiration date must be at least one day after the receipt date")
	}
	return nil
}

func (s *service) ListSupplies(ctx context.Context) ([]SupplyDTO, error) {
	rows, err := s.repo.ListSupplies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplies")
	}
	reagentNames, vendorNames, err := s.nameIndexes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SupplyDTO, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, *supplyFromModel(row, reagentNames[row.ReagentID], vendorNames[row.VendorID]))
	}
	return out, nil
}

func (s *service) CreateSupply(ctx context.Context, actor string, input UpsertSupplyInput) (*SupplyDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	reagent, vendor, err := s.resolveSupplyRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	supply := &models.ReagentSupply{
		ID:             uuid.New(),
		ReagentID:      input.ReagentID,
		VendorID:       input.VendorID,
		LotNumber:      input.LotNumber,
		Quantity:       input.Quantity,
		OrderDate:      input.OrderDate,
		ReceiptDate:    input.ReceiptDate,
		ExpirationDate: input.ExpirationDate,
	}
	if err := s.repo.CreateSupply(ctx, supply); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supply")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "recorded supply", "supplies",
		fmt.Sprintf("%s lot %s", reagent.Name, supply.LotNumber))
	return supplyFromModel(supply, reagent.Name, vendor.Name), nil
}

func (s *service) UpdateSupply(ctx context.Context, actor string, id uuid.UUID, input UpsertSupplyInput) (*SupplyDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	supply, err := s.repo.FindSupplyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply")
	}
	reagent, vendor, err := s.resolveSupplyRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	supply.ReagentID = input.ReagentID
	supply.VendorID = input.VendorID
	supply.LotNumber = input.LotNumber
	supply.Quantity = input.Quantity
	supply.OrderDate = input.OrderDate
	supply.ReceiptDate = input.ReceiptDate
	supply.ExpirationDate = input.ExpirationDate

	if err := s.repo.UpdateSupply(ctx, supply); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supply")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated supply", "supplies",
		fmt.Sprintf("%s lot %s", reagent.Name, supply.LotNumber))
	return supplyFromModel(supply, reagent.Name, vendor.Name), nil
}

func (s *service) DeleteSupply(ctx context.Context, actor string, id uuid.UUID) error {
	supply, err := s.repo.FindSupplyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supply not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply")
	}
	if err := s.repo.DeleteSupply(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supply")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "deleted supply", "supplies", supply.LotNumber)
	return nil
}

// --- usages ---

// UpsertUsageInput captures the mutable usage fields.
type UpsertUsageInput struct {
	ReagentID    uuid.UUID
	InstrumentID *uuid.UUID
	Quantity     decimal.Decimal
	Purpose      string
	UsedAt       time.Time
	RecordedBy   *uuid.UUID
}

func (in *UpsertUsageInput) normalize(now time.Time) error {
	in.Purpose = strings.TrimSpace(in.Purpose)
	if in.ReagentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reagent is required")
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if in.Purpose == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "purpose is required")
	}
	if in.UsedAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage date is required")
	}
	if in.UsedAt.After(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage date must not be in the future")
	}
	return nil
}

func (s *service) ListUsages(ctx context.Context) ([]UsageDTO, error) {
	rows, err := s.repo.ListUsages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usages")
	}
	reagentNames, _, err := s.nameIndexes(ctx)
	if err != nil {
		return nil, err
	}
	instrumentNames, err := s.instrumentNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UsageDTO, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		instrumentName := ""
		if row.InstrumentID != nil {
			instrumentName = instrumentNames[*row.InstrumentID]
		}
		out = append(out, *usageFromModel(row, reagentNames[row.ReagentID], instrumentName))
	}
	return out, nil
}

func (s *service) CreateUsage(ctx context.Context, actor string, input UpsertUsageInput) (*UsageDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	reagent, instrumentName, err := s.resolveUsageRefs(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureStockCovers(ctx, input.ReagentID, input.Quantity, decimal.Zero, reagent.Unit); err != nil {
		return nil, err
	}

	usage := &models.ReagentUsage{
		ID:           uuid.New(),
		ReagentID:    input.ReagentID,
		InstrumentID: input.InstrumentID,
		Quantity:     input.Quantity,
		Purpose:      input.Purpose,
		UsedAt:       input.UsedAt,
		RecordedBy:   input.RecordedBy,
	}
	if err := s.repo.CreateUsage(ctx, usage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create usage")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "recorded usage", "usages",
		fmt.Sprintf("%s %s %s", reagent.Name, usage.Quantity.String(), reagent.Unit))
	return usageFromModel(usage, reagent.Name, instrumentName), nil
}

func (s *service) UpdateUsage(ctx context.Context, actor string, id uuid.UUID, input UpsertUsageInput) (*UsageDTO, error) {
	if err := input.normalize(s.now()); err != nil {
		return nil, err
	}
	usage, err := s.repo.FindUsageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usage not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage")
	}
	reagent, instrumentName, err := s.resolveUsageRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	// The existing row's draw is returned to stock before checking the
	// replacement quantity against it.
	credit := decimal.Zero
	if usage.ReagentID == input.ReagentID {
		credit = usage.Quantity
	}
	if err := s.ensureStockCovers(ctx, input.ReagentID, input.Quantity, credit, reagent.Unit); err != nil {
		return nil, err
	}

	usage.ReagentID = input.ReagentID
	usage.InstrumentID = input.InstrumentID
	usage.Quantity = input.Quantity
	usage.Purpose = input.Purpose
	usage.UsedAt = input.UsedAt
	usage.RecordedBy = input.RecordedBy

	if err := s.repo.UpdateUsage(ctx, usage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update usage")
	}
	_ = s.events.Record(ctx, enums.EventSeverityInfo, actor, "updated usage", "usages", reagent.Name)
	return usageFromModel(usage, reagent.Name, instrumentName), nil
}

func (s *service) DeleteUsage(ctx context.Context, actor string, id uuid.UUID) error {
	usage, err := s.repo.FindUsageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "usage not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage")
	}
	if err := s.repo.DeleteUsage(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete usage")
	}
	_ = s.events.Record(ctx, enums.EventSeverityWarning, actor, "deleted usage", "usages", usage.Purpose)
	return nil
}

// --- shared helpers ---

func (s *service) resolveSupplyRefs(ctx context.Context, input UpsertSupplyInput) (*models.Reagent, *models.ReagentVendor, error) {
	reagent, err := s.repo.FindReagentByID(ctx, input.ReagentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown reagent")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reagent")
	}
	vendor, err := s.repo.FindVendorByID(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return reagent, vendor, nil
}

func (s *service) resolveUsageRefs(ctx context.Context, input UpsertUsageInput) (*models.Reagent, string, error) {
	reagent, err := s.repo.FindReagentByID(ctx, input.ReagentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unknown reagent")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reagent")
	}
	instrumentName := ""
	if input.InstrumentID != nil {
		instrument, err := s.instruments.FindByID(ctx, *input.InstrumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unknown instrument")
			}
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load instrument")
		}
		instrumentName = instrument.Name
	}
	return reagent, instrumentName, nil
}

// ensureStockCovers rejects a draw that exceeds what is on hand. credit
// is stock being returned by the same operation, e.g. the prior quantity
// of an updated usage row.
func (s *service) ensureStockCovers(ctx context.Context, reagentID uuid.UUID, quantity, credit decimal.Decimal, unit string) error {
	stock, err := s.repo.StockByReagent(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stock")
	}
	available := stock[reagentID].Quantity.Add(credit)
	if quantity.GreaterThan(available) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quantity exceeds the %s %s in stock", available.String(), unit))
	}
	return nil
}

func (s *service) nameIndexes(ctx context.Context) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	reagents, err := s.repo.ListReagents(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reagents")
	}
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	reagentNames := make(map[uuid.UUID]string, len(reagents))
	for _, r := range reagents {
		reagentNames[r.ID] = r.Name
	}
	vendorNames := make(map[uuid.UUID]string, len(vendors))
	for _, v := range vendors {
		vendorNames[v.ID] = v.Name
	}
	return reagentNames, vendorNames, nil
}

func (s *service) instrumentNames(ctx context.Context) (map[uuid.UUID]string, error) {
	rows, err := s.instruments.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list instruments")
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
