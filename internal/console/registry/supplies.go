package registry

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
)

// Supply is the wire record for one received reagent batch.
type Supply struct {
	ID             string          `json:"id"`
	ReagentID      string          `json:"reagent_id"`
	ReagentName    string          `json:"reagent_name,omitempty"`
	VendorID       string          `json:"vendor_id"`
	VendorName     string          `json:"vendor_name,omitempty"`
	LotNumber      string          `json:"lot_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	OrderDate      *time.Time      `json:"order_date"`
	ReceiptDate    *time.Time      `json:"receipt_date"`
	ExpirationDate *time.Time      `json:"expiration_date"`
}

// SupplyDraft is the create/edit form payload.
type SupplyDraft struct {
	ReagentID      string          `json:"reagent_id" validate:"notblank"`
	VendorID       string          `json:"vendor_id" validate:"notblank"`
	LotNumber      string          `json:"lot_number" validate:"notblank"`
	Quantity       decimal.Decimal `json:"quantity"`
	OrderDate      *time.Time      `json:"order_date" validate:"required"`
	ReceiptDate    *time.Time      `json:"receipt_date" validate:"required"`
	ExpirationDate *time.Time      `json:"expiration_date" validate:"required"`
}

// SupplyRefs carries no cross-record context today; the type exists so
// supply rules can grow one without touching call sites.
type SupplyRefs struct{}

func DraftFromSupply(s Supply) SupplyDraft {
	return SupplyDraft{
		ReagentID:      s.ReagentID,
		VendorID:       s.VendorID,
		LotNumber:      s.LotNumber,
		Quantity:       s.Quantity,
		OrderDate:      s.OrderDate,
		ReceiptDate:    s.ReceiptDate,
		ExpirationDate: s.ExpirationDate,
	}
}

// Orders older than five years are data entry mistakes, not history.
const supplyOrderYearWindow = 5

func supplyRules(clock forms.Clock) *forms.RuleSet[SupplyDraft, SupplyRefs] {
	orderDate := func(d SupplyDraft) *time.Time { return d.OrderDate }
	receiptDate := func(d SupplyDraft) *time.Time { return d.ReceiptDate }
	expirationDate := func(d SupplyDraft) *time.Time { return d.ExpirationDate }
	return forms.NewRuleSet[SupplyDraft, SupplyRefs](
		forms.QuantityPositive[SupplyDraft, SupplyRefs]("quantity", func(d SupplyDraft) decimal.Decimal { return d.Quantity }),
		forms.DateNotFuture[SupplyDraft, SupplyRefs]("order_date", orderDate, clock),
		forms.DateWithinYears[SupplyDraft, SupplyRefs]("order_date", supplyOrderYearWindow, orderDate, clock),
		forms.DateNotFuture[SupplyDraft, SupplyRefs]("receipt_date", receiptDate, clock),
		forms.DateOnOrAfter[SupplyDraft, SupplyRefs]("receipt_date", 0, orderDate, receiptDate,
			"must not precede the order date"),
		forms.DateOnOrAfter[SupplyDraft, SupplyRefs]("expiration_date", 1, receiptDate, expirationDate,
			"must be at least one day after the receipt date"),
	)
}

func supplySchema() listquery.Schema[Supply] {
	return listquery.Schema[Supply]{
		SearchFields: []string{"reagent_name", "vendor_name", "lot_number"},
		FieldValue: func(s Supply, field string) string {
			switch field {
			case "reagent_id":
				return s.ReagentID
			case "reagent_name":
				return s.ReagentName
			case "vendor_id":
				return s.VendorID
			case "vendor_name":
				return s.VendorName
			case "lot_number":
				return s.LotNumber
			}
			return ""
		},
		DateValue: func(s Supply) (time.Time, bool) {
			if s.OrderDate == nil {
				return time.Time{}, false
			}
			return *s.OrderDate, true
		},
		GroupKey: func(s Supply) string { return s.VendorName },
	}
}

func newSupplyCollection(deps Deps) (*Collection[Supply, SupplyDraft, SupplyRefs], error) {
	return newCollection[Supply, SupplyDraft, SupplyRefs](
		deps,
		"supplies",
		func(s Supply) string { return s.ID },
		supplySchema(),
		supplyRules(deps.Clock),
		crud.Messages{
			Created:       "supply recorded",
			Updated:       "supply updated",
			Deleted:       "supply deleted",
			CreateFailed:  "could not record supply",
			UpdateFailed:  "could not update supply",
			DeleteFailed:  "could not delete supply",
			ConfirmDelete: "Delete this supply record? Stock levels will recompute.",
		},
	)
}
