package reagents

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
)

// ReagentDTO is the wire shape of one catalog entry. QuantityAvailable
// and BatchCount are derived from supplies minus usages at read time.
type ReagentDTO struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CASNumber         string          `json:"cas_number,omitempty"`
	Unit              string          `json:"unit"`
	Storage           string          `json:"storage,omitempty"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	BatchCount        int             `json:"batch_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// VendorDTO is the wire shape of one vendor.
type VendorDTO struct {
	ID           string    `json:"id"`
	VendorCode   string    `json:"vendor_code"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SupplyDTO is the wire shape of one received batch. ReagentName and
// VendorName are denormalized for list views.
type SupplyDTO struct {
	ID             string          `json:"id"`
	ReagentID      string          `json:"reagent_id"`
	ReagentName    string          `json:"reagent_name,omitempty"`
	VendorID       string          `json:"vendor_id"`
	VendorName     string          `json:"vendor_name,omitempty"`
	LotNumber      string          `json:"lot_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	OrderDate      time.Time       `json:"order_date"`
	ReceiptDate    time.Time       `json:"receipt_date"`
	ExpirationDate time.Time       `json:"expiration_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UsageDTO is the wire shape of one consumption entry.
type UsageDTO struct {
	ID             string          `json:"id"`
	ReagentID      string          `json:"reagent_id"`
	ReagentName    string          `json:"reagent_name,omitempty"`
	InstrumentID   string          `json:"instrument_id,omitempty"`
	InstrumentName string          `json:"instrument_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Purpose        string          `json:"purpose"`
	UsedAt         time.Time       `json:"used_at"`
	RecordedBy     string          `json:"recorded_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Stock is the derived inventory position of one reagent.
type Stock struct {
	Quantity decimal.Decimal
	Batches  int
}

func reagentFromModel(m *models.Reagent, stock Stock) *ReagentDTO {
	if m == nil {
		return nil
	}
	return &ReagentDTO{
		ID:                m.ID.String(),
		Name:              m.Name,
		CASNumber:         m.CASNumber,
		Unit:              m.Unit,
		Storage:           m.Storage,
		QuantityAvailable: stock.Quantity,
		BatchCount:        stock.Batches,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func vendorFromModel(m *models.ReagentVendor) *VendorDTO {
	if m == nil {
		return nil
	}
	return &VendorDTO{
		ID:           m.ID.String(),
		VendorCode:   m.VendorCode,
		Name:         m.Name,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Address:      m.Address,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func supplyFromModel(m *models.ReagentSupply, reagentName, vendorName string) *SupplyDTO {
	if m == nil {
		return nil
	}
	return &SupplyDTO{
		ID:             m.ID.String(),
		ReagentID:      m.ReagentID.String(),
		ReagentName:    reagentName,
		VendorID:       m.VendorID.String(),
		VendorName:     vendorName,
		LotNumber:      m.LotNumber,
		Quantity:       m.Quantity,
		OrderDate:      m.OrderDate,
		ReceiptDate:    m.ReceiptDate,
		ExpirationDate: m.ExpirationDate,
		CreatedAt:      m.CreatedAt,
	}
}

func usageFromModel(m *models.ReagentUsage, reagentName, instrumentName string) *UsageDTO {
	if m == nil {
		return nil
	}
	dto := &UsageDTO{
		ID:             m.ID.String(),
		ReagentID:      m.ReagentID.String(),
		ReagentName:    reagentName,
		InstrumentName: instrumentName,
		Quantity:       m.Quantity,
		Purpose:        m.Purpose,
		UsedAt:         m.UsedAt,
		CreatedAt:      m.CreatedAt,
	}
	if m.InstrumentID != nil {
		dto.InstrumentID = m.InstrumentID.String()
	}
	if m.RecordedBy != nil {
		dto.RecordedBy = m.RecordedBy.String()
	}
	return dto
}
