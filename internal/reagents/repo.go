package reagents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
)

// Repository handles persistence for the whole reagent domain: catalog,
// vendors, supplies and usages live in one schema and are queried
// together for the derived stock numbers.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to reagent domain operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- catalog ---

func (r *Repository) CreateReagent(ctx context.Context, reagent *models.Reagent) error {
	if reagent == nil {
		return fmt.Errorf("reagent is required")
	}
	return r.db.WithContext(ctx).Create(reagent).Error
}

func (r *Repository) FindReagentByID(ctx context.Context, id uuid.UUID) (*models.Reagent, error) {
	var reagent models.Reagent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reagent).Error; err != nil {
		return nil, err
	}
	return &reagent, nil
}

func (r *Repository) ListReagents(ctx context.Context) ([]models.Reagent, error) {
	var rows []models.Reagent
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateReagent(ctx context.Context, reagent *models.Reagent) error {
	if reagent == nil {
		return fmt.Errorf("reagent is required")
	}
	return r.db.WithContext(ctx).Save(reagent).Error
}

// DeleteReagent removes the catalog row; supplies and usages cascade.
func (r *Repository) DeleteReagent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReagentUsage{}, "reagent_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ReagentSupply{}, "reagent_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reagent{}, "id = ?", id).Error
	})
}

// stockRow carries one reagent's aggregates out of the grouped queries.
type stockRow struct {
	ReagentID uuid.UUID
	Total     decimal.Decimal
	Batches   int
}

// StockByReagent computes quantity on hand (supplied minus used) and
// batch count for every reagent.
func (r *Repository) StockByReagent(ctx context.Context) (map[uuid.UUID]Stock, error) {
	var supplied []stockRow
	if err := r.db.WithContext(ctx).
		Model(&models.ReagentSupply{}).
		Select("reagent_id, COALESCE(SUM(quantity), 0) AS total, COUNT(*) AS batches").
		Group("reagent_id").
		Scan(&supplied).Error; err != nil {
		return nil, err
	}

	var used []stockRow
	if err := r.db.WithContext(ctx).
		Model(&models.ReagentUsage{}).
		Select("reagent_id, COALESCE(SUM(quantity), 0) AS total").
		Group("reagent_id").
		Scan(&used).Error; err != nil {
		return nil, err
	}

	stock := make(map[uuid.UUID]Stock, len(supplied))
	for _, row := range supplied {
		stock[row.ReagentID] = Stock{Quantity: row.Total, Batches: row.Batches}
	}
	for _, row := range used {
		entry := stock[row.ReagentID]
		entry.Quantity = entry.Quantity.Sub(row.Total)
		stock[row.ReagentID] = entry
	}
	return stock, nil
}

// --- vendors ---

func (r *Repository) CreateVendor(ctx context.Context, vendor *models.ReagentVendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *Repository) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.ReagentVendor, error) {
	var vendor models.ReagentVendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) ListVendors(ctx context.Context) ([]models.ReagentVendor, error) {
	var rows []models.ReagentVendor
	if err := r.db.WithContext(ctx).Order("vendor_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateVendor(ctx context.Context, vendor *models.ReagentVendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *Repository) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ReagentVendor{}, "id = ?", id).Error
}

// CountSuppliesForVendor reports how many supply rows reference the vendor.
func (r *Repository) CountSuppliesForVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReagentSupply{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	return count, err
}

// --- supplies ---

func (r *Repository) CreateSupply(ctx context.Context, supply *models.ReagentSupply) error {
	if supply == nil {
		return fmt.Errorf("supply is required")
	}
	return r.db.WithContext(ctx).Create(supply).Error
}

func (r *Repository) FindSupplyByID(ctx context.Context, id uuid.UUID) (*models.ReagentSupply, error) {
	var supply models.ReagentSupply
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&supply).Error; err != nil {
		return nil, err
	}
	return &supply, nil
}

func (r *Repository) ListSupplies(ctx context.Context) ([]models.ReagentSupply, error) {
	var rows []models.ReagentSupply
	if err := r.db.WithContext(ctx).Order("order_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateSupply(ctx context.Context, supply *models.ReagentSupply) error {
	if supply == nil {
		return fmt.Errorf("supply is required")
	}
	return r.db.WithContext(ctx).Save(supply).Error
}

func (r *Repository) DeleteSupply(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ReagentSupply{}, "id = ?", id).Error
}

// --- usages ---

func (r *Repository) CreateUsage(ctx context.Context, usage *models.ReagentUsage) error {
	if usage == nil {
		return fmt.Errorf("usage is required")
	}
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *Repository) FindUsageByID(ctx context.Context, id uuid.UUID) (*models.ReagentUsage, error) {
	var usage models.ReagentUsage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *Repository) ListUsages(ctx context.Context) ([]models.ReagentUsage, error) {
	var rows []models.ReagentUsage
	if err := r.db.WithContext(ctx).Order("used_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateUsage(ctx context.Context, usage *models.ReagentUsage) error {
	if usage == nil {
		return fmt.Errorf("usage is required")
	}
	return r.db.WithContext(ctx).Save(usage).Error
}

func (r *Repository) DeleteUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ReagentUsage{}, "id = ?", id).Error
}
