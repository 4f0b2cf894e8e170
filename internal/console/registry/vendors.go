package registry

import (
	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
)

// Vendor is the wire record for reagent vendors.
type Vendor struct {
	ID           string `json:"id"`
	VendorCode   string `json:"vendor_code"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address,omitempty"`
}

// VendorDraft is the create/edit form payload. Phone numbers accept
// punctuation; only the digit count is enforced.
type VendorDraft struct {
	VendorCode   string `json:"vendor_code" validate:"notblank"`
	Name         string `json:"name" validate:"notblank"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"mindigits=10"`
	Address      string `json:"address" validate:"notblank"`
}

type VendorRefs struct {
	ExistingCodes []string
}

func VendorRefsFrom(items []Vendor) VendorRefs {
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.VendorCode)
	}
	return VendorRefs{ExistingCodes: codes}
}

func DraftFromVendor(v Vendor) VendorDraft {
	return VendorDraft{
		VendorCode:   v.VendorCode,
		Name:         v.Name,
		ContactEmail: v.ContactEmail,
		ContactPhone: v.ContactPhone,
		Address:      v.Address,
	}
}

func vendorRules() *forms.RuleSet[VendorDraft, VendorRefs] {
	return forms.NewRuleSet[VendorDraft, VendorRefs](
		forms.UniqueOnCreate[VendorDraft, VendorRefs](
			"vendor_code",
			func(d VendorDraft) string { return d.VendorCode },
			func(r VendorRefs) []string { return r.ExistingCodes },
		),
	)
}

func vendorSchema() listquery.Schema[Vendor] {
	return listquery.Schema[Vendor]{
		SearchFields: []string{"vendor_code", "name", "contact_email"},
		FieldValue: func(v Vendor, field string) string {
			switch field {
			case "vendor_code":
				return v.VendorCode
			case "name":
				return v.Name
			case "contact_email":
				return v.ContactEmail
			case "contact_phone":
				return v.ContactPhone
			case "address":
				return v.Address
			}
			return ""
		},
		GroupKey: func(v Vendor) string { return v.Name },
	}
}

func newVendorCollection(deps Deps) (*Collection[Vendor, VendorDraft, VendorRefs], error) {
	return newCollection[Vendor, VendorDraft, VendorRefs](
		deps,
		"vendors",
		func(v Vendor) string { return v.ID },
		vendorSchema(),
		vendorRules(),
		crud.Messages{
			Created:       "vendor created",
			Updated:       "vendor updated",
			Deleted:       "vendor deleted",
			CreateFailed:  "could not create vendor",
			UpdateFailed:  "could not update vendor",
			DeleteFailed:  "could not delete vendor",
			ConfirmDelete: "Delete this vendor? Supplies keep their historical reference.",
		},
	)
}
