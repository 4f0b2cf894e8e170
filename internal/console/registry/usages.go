package registry

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Usage is the wire record for one reagent consumption entry.
type Usage struct {
	ID             string          `json:"id"`
	ReagentID      string          `json:"reagent_id"`
	ReagentName    string          `json:"reagent_name,omitempty"`
	InstrumentID   string          `json:"instrument_id,omitempty"`
	InstrumentName string          `json:"instrument_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Purpose        string          `json:"purpose"`
	UsedAt         *time.Time      `json:"used_at"`
	RecordedBy     string          `json:"recorded_by,omitempty"`
}

// UsageDraft is the create/edit form payload. The instrument is optional;
// bench work without one is recorded the same way.
type UsageDraft struct {
	ReagentID    string          `json:"reagent_id" validate:"notblank"`
	InstrumentID string          `json:"instrument_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Purpose      string          `json:"purpose" validate:"notblank"`
	UsedAt       *time.Time      `json:"used_at" validate:"required"`
}

// UsageRefs is the cross-record context usage rules read: the selected
// reagent's stock and the selected instrument's status.
type UsageRefs struct {
	QuantityOnHand   decimal.Decimal
	Unit             string
	InstrumentStatus enums.InstrumentStatus
}

// UsageRefsFrom resolves the draft's selections against the loaded
// reagent and instrument collections.
func UsageRefsFrom(draft UsageDraft, reagents []Reagent, instruments []Instrument) UsageRefs {
	refs := UsageRefs{}
	for _, r := range reagents {
		if r.ID == draft.ReagentID {
			refs.QuantityOnHand = r.QuantityAvailable
			refs.Unit = r.Unit
			break
		}
	}
	for _, i := range instruments {
		if i.ID == draft.InstrumentID {
			refs.InstrumentStatus = i.Status
			break
		}
	}
	return refs
}

func DraftFromUsage(u Usage) UsageDraft {
	return UsageDraft{
		ReagentID:    u.ReagentID,
		InstrumentID: u.InstrumentID,
		Quantity:     u.Quantity,
		Purpose:      u.Purpose,
		UsedAt:       u.UsedAt,
	}
}

func usageRules(clock forms.Clock) *forms.RuleSet[UsageDraft, UsageRefs] {
	return forms.NewRuleSet[UsageDraft, UsageRefs](
		forms.QuantityPositive[UsageDraft, UsageRefs]("quantity", func(d UsageDraft) decimal.Decimal { return d.Quantity }),
		forms.QuantityAtMost[UsageDraft, UsageRefs]("quantity", "in stock",
			func(d UsageDraft) decimal.Decimal { return d.Quantity },
			func(r UsageRefs) decimal.Decimal { return r.QuantityOnHand },
		),
		forms.DateNotFuture[UsageDraft, UsageRefs]("used_at", func(d UsageDraft) *time.Time { return d.UsedAt }, clock),
		// An instrument in maintenance may still legitimately consume
		// reagents during servicing, so this warns instead of blocking.
		forms.Advise(forms.Rule[UsageDraft, UsageRefs]{
			Field: "instrument_id",
			Check: func(d UsageDraft, refs UsageRefs, _ forms.Mode) string {
				if d.InstrumentID == "" {
					return ""
				}
				if refs.InstrumentStatus.Blocks() {
					return fmt.Sprintf("instrument is %s", refs.InstrumentStatus)
				}
				return ""
			},
		}),
	)
}

func usageSchema() listquery.Schema[Usage] {
	return listquery.Schema[Usage]{
		SearchFields: []string{"reagent_name", "instrument_name", "purpose"},
		FieldValue: func(u Usage, field string) string {
			switch field {
			case "reagent_id":
				return u.ReagentID
			case "reagent_name":
				return u.ReagentName
			case "instrument_id":
				return u.InstrumentID
			case "instrument_name":
				return u.InstrumentName
			case "purpose":
				return u.Purpose
			case "recorded_by":
				return u.RecordedBy
			}
			return ""
		},
		DateValue: func(u Usage) (time.Time, bool) {
			if u.UsedAt == nil {
				return time.Time{}, false
			}
			return *u.UsedAt, true
		},
		GroupKey: func(u Usage) string { return u.ReagentName },
	}
}

func newUsageCollection(deps Deps) (*Collection[Usage, UsageDraft, UsageRefs], error) {
	return newCollection[Usage, UsageDraft, UsageRefs](
		deps,
		"usages",
		func(u Usage) string { return u.ID },
		usageSchema(),
		usageRules(deps.Clock),
		crud.Messages{
			Created:       "usage recorded",
			Updated:       "usage updated",
			Deleted:       "usage deleted",
			CreateFailed:  "could not record usage",
			UpdateFailed:  "could not update usage",
			DeleteFailed:  "could not delete usage",
			ConfirmDelete: "Delete this usage record? Stock levels will recompute.",
		},
	)
}
