package forms

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type vendorDraft struct {
	VendorCode string `json:"vendor_code" validate:"notblank"`
	Name       string `json:"name" validate:"notblank"`
	Email      string `json:"contact_email" validate:"required,email"`
	Phone      string `json:"contact_phone" validate:"mindigits=10"`
}

type vendorRefs struct {
	ExistingCodes []string
}

func vendorRules() *RuleSet[vendorDraft, vendorRefs] {
	return NewRuleSet[vendorDraft, vendorRefs](
		UniqueOnCreate[vendorDraft, vendorRefs](
			"vendor_code",
			func(d vendorDraft) string { return d.VendorCode },
			func(r vendorRefs) []string { return r.ExistingCodes },
		),
	)
}

func validVendor() vendorDraft {
	return vendorDraft{
		VendorCode: "V100",
		Name:       "Sigma",
		Email:      "orders@sigma.test",
		Phone:      "+1 (555) 123-4567",
	}
}

func TestEvaluateReportsAllFailuresAtOnce(t *testing.T) {
	result := vendorRules().Evaluate(vendorDraft{Phone: "555"}, vendorRefs{}, ModeCreate)

	if result.Valid {
		t.Fatal("empty draft must be invalid")
	}
	for _, field := range []string{"vendor_code", "name", "contact_email", "contact_phone"} {
		if result.Errors[field] == "" {
			t.Fatalf("expected error for %q, got %v", field, result.Errors)
		}
	}
}

func TestValidDraftPasses(t *testing.T) {
	result := vendorRules().Evaluate(validVendor(), vendorRefs{}, ModeCreate)
	if !result.Valid {
		t.Fatalf("expected valid draft, errors: %v", result.Errors)
	}
}

func TestUniqueOnCreateBlocksDuplicatesButNotEdits(t *testing.T) {
	refs := vendorRefs{ExistingCodes: []string{"V100", "V200"}}

	create := vendorRules().Evaluate(validVendor(), refs, ModeCreate)
	if create.Valid || create.Errors["vendor_code"] == "" {
		t.Fatalf("duplicate vendor code must block create, got %v", create.Errors)
	}

	edit := vendorRules().Evaluate(validVendor(), refs, ModeEdit)
	if !edit.Valid {
		t.Fatalf("uniqueness must not run on edit, errors: %v", edit.Errors)
	}
}

func TestUniquenessIsCaseInsensitive(t *testing.T) {
	draft := validVendor()
	draft.VendorCode = "v100"
	result := vendorRules().Evaluate(draft, vendorRefs{ExistingCodes: []string{"V100"}}, ModeCreate)
	if result.Valid {
		t.Fatal("case-folded duplicate must still block")
	}
}

type usageDraft struct {
	Quantity decimal.Decimal `json:"quantity"`
	UsedAt   *time.Time      `json:"used_at"`
}

type usageRefs struct {
	OnHand           decimal.Decimal
	InstrumentStatus string
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func TestQuantityRules(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	rules := NewRuleSet[usageDraft, usageRefs](
		QuantityPositive[usageDraft, usageRefs]("quantity", func(d usageDraft) decimal.Decimal { return d.Quantity }),
		QuantityAtMost[usageDraft, usageRefs]("quantity", "in stock",
			func(d usageDraft) decimal.Decimal { return d.Quantity },
			func(r usageRefs) decimal.Decimal { return r.OnHand },
		),
		DateNotFuture[usageDraft, usageRefs]("used_at", func(d usageDraft) *time.Time { return d.UsedAt }, fixedClock(now)),
	)
	refs := usageRefs{OnHand: decimal.NewFromInt(10)}

	zero := rules.Evaluate(usageDraft{Quantity: decimal.Zero}, refs, ModeCreate)
	if zero.Errors["quantity"] == "" {
		t.Fatal("zero quantity must fail")
	}

	over := rules.Evaluate(usageDraft{Quantity: decimal.NewFromInt(11)}, refs, ModeCreate)
	if over.Errors["quantity"] == "" {
		t.Fatal("quantity over stock must fail")
	}

	future := now.AddDate(0, 0, 2)
	late := rules.Evaluate(usageDraft{Quantity: decimal.NewFromInt(1), UsedAt: &future}, refs, ModeCreate)
	if late.Errors["used_at"] == "" {
		t.Fatal("future usage date must fail")
	}

	ok := rules.Evaluate(usageDraft{Quantity: decimal.NewFromInt(5), UsedAt: &now}, refs, ModeCreate)
	if !ok.Valid {
		t.Fatalf("expected valid usage, errors: %v", ok.Errors)
	}
}

func TestAdvisoryRuleWarnsWithoutBlocking(t *testing.T) {
	rules := NewRuleSet[usageDraft, usageRefs](
		Advise(Rule[usageDraft, usageRefs]{
			Field: "instrument_id",
			Check: func(_ usageDraft, refs usageRefs, _ Mode) string {
				if refs.InstrumentStatus == "Maintenance" {
					return "instrument is under maintenance"
				}
				return ""
			},
		}),
		QuantityPositive[usageDraft, usageRefs]("quantity", func(d usageDraft) decimal.Decimal { return d.Quantity }),
	)

	result := rules.Evaluate(usageDraft{Quantity: decimal.NewFromInt(1)}, usageRefs{InstrumentStatus: "Maintenance"}, ModeCreate)
	if !result.Valid {
		t.Fatalf("advisory failure must not block, errors: %v", result.Errors)
	}
	if result.Warnings["instrument_id"] == "" {
		t.Fatalf("expected advisory warning, got %v", result.Warnings)
	}
}

type supplyDraft struct {
	OrderDate      *time.Time `json:"order_date"`
	ReceiptDate    *time.Time `json:"receipt_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func TestTemporalSupplyRules(t *testing.T) {
	now := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	rules := NewRuleSet[supplyDraft, struct{}](
		DateNotFuture[supplyDraft, struct{}]("order_date", func(d supplyDraft) *time.Time { return d.OrderDate }, fixedClock(now)),
		DateWithinYears[supplyDraft, struct{}]("order_date", 5, func(d supplyDraft) *time.Time { return d.OrderDate }, fixedClock(now)),
		DateOnOrAfter[supplyDraft, struct{}]("receipt_date", 0,
			func(d supplyDraft) *time.Time { return d.OrderDate },
			func(d supplyDraft) *time.Time { return d.ReceiptDate },
			"must not precede the order date"),
		DateOnOrAfter[supplyDraft, struct{}]("expiration_date", 1,
			func(d supplyDraft) *time.Time { return d.ReceiptDate },
			func(d supplyDraft) *time.Time { return d.ExpirationDate },
			"must be at least one day after the receipt date"),
	)

	day := func(d int) *time.Time {
		v := now.AddDate(0, 0, d)
		return &v
	}

	cases := []struct {
		name      string
		draft     supplyDraft
		wantField string
	}{
		{"receipt before order", supplyDraft{OrderDate: day(-5), ReceiptDate: day(-6)}, "receipt_date"},
		{"expiration same day as receipt", supplyDraft{OrderDate: day(-5), ReceiptDate: day(-4), ExpirationDate: day(-4)}, "expiration_date"},
		{"order too old", supplyDraft{OrderDate: func() *time.Time { v := now.AddDate(-6, 0, 0); return &v }()}, "order_date"},
		{"order in future", supplyDraft{OrderDate: day(3)}, "order_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := rules.Evaluate(tc.draft, struct{}{}, ModeCreate)
			if result.Errors[tc.wantField] == "" {
				t.Fatalf("expected error on %q, got %v", tc.wantField, result.Errors)
			}
		})
	}

	ok := rules.Evaluate(supplyDraft{OrderDate: day(-10), ReceiptDate: day(-8), ExpirationDate: day(30)}, struct{}{}, ModeCreate)
	if !ok.Valid {
		t.Fatalf("well-ordered dates must pass, errors: %v", ok.Errors)
	}
}

func TestControllerLifecycle(t *testing.T) {
	ctrl, err := NewController[vendorDraft, vendorRefs](vendorRules())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ctrl.Begin(ModeCreate, vendorDraft{})
	if ctrl.State() != StatePristine {
		t.Fatalf("expected pristine after Begin, got %s", ctrl.State())
	}

	ctrl.SetField("name", func(d *vendorDraft) { d.Name = "Sigma" })
	if ctrl.State() != StateEditing || !ctrl.Dirty() {
		t.Fatalf("expected editing+dirty, got %s dirty=%v", ctrl.State(), ctrl.Dirty())
	}

	result := ctrl.Validate(vendorRefs{})
	if result.Valid || ctrl.State() != StateInvalid {
		t.Fatalf("incomplete draft must validate invalid, state=%s", ctrl.State())
	}

	// Editing the failing field clears its message until the next pass.
	ctrl.SetField("contact_email", func(d *vendorDraft) { d.Email = "orders@sigma.test" })
	if _, present := ctrl.Errors()["contact_email"]; present {
		t.Fatal("editing a field must clear its error optimistically")
	}
	if _, present := ctrl.Errors()["vendor_code"]; !present {
		t.Fatal("other field errors must survive the edit")
	}

	ctrl.SetField("vendor_code", func(d *vendorDraft) { d.VendorCode = "V100" })
	ctrl.SetField("contact_phone", func(d *vendorDraft) { d.Phone = "5551234567" })
	if got := ctrl.Validate(vendorRefs{}); !got.Valid || ctrl.State() != StateValid {
		t.Fatalf("completed draft must be valid, errors: %v", got.Errors)
	}

	ctrl.Reset()
	if ctrl.State() != StatePristine || ctrl.Dirty() {
		t.Fatal("Reset must return to pristine")
	}
	if ctrl.Draft() != (vendorDraft{}) {
		t.Fatal("Reset must zero the draft")
	}
}
