package registry

import (
	"github.com/shopspring/decimal"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
)

// Reagent is the wire record for the reagent catalog. QuantityAvailable
// and BatchCount are computed server-side from supplies minus usages and
// are never edited directly.
type Reagent struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CASNumber         string          `json:"cas_number,omitempty"`
	Unit              string          `json:"unit"`
	Storage           string          `json:"storage,omitempty"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	BatchCount        int             `json:"batch_count"`
}

// ReagentDraft is the create/edit form payload. The CAS number is
// optional but format-checked when present.
type ReagentDraft struct {
	Name      string `json:"name" validate:"notblank"`
	CASNumber string `json:"cas_number" validate:"omitempty,cas"`
	Unit      string `json:"unit" validate:"notblank"`
	Storage   string `json:"storage,omitempty"`
}

type ReagentRefs struct {
	ExistingNames []string
}

func ReagentRefsFrom(items []Reagent) ReagentRefs {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return ReagentRefs{ExistingNames: names}
}

func DraftFromReagent(r Reagent) ReagentDraft {
	return ReagentDraft{
		Name:      r.Name,
		CASNumber: r.CASNumber,
		Unit:      r.Unit,
		Storage:   r.Storage,
	}
}

func reagentRules() *forms.RuleSet[ReagentDraft, ReagentRefs] {
	return forms.NewRuleSet[ReagentDraft, ReagentRefs](
		forms.UniqueOnCreate[ReagentDraft, ReagentRefs](
			"name",
			func(d ReagentDraft) string { return d.Name },
			func(r ReagentRefs) []string { return r.ExistingNames },
		),
	)
}

func reagentSchema() listquery.Schema[Reagent] {
	return listquery.Schema[Reagent]{
		SearchFields: []string{"name", "cas_number"},
		FieldValue: func(r Reagent, field string) string {
			switch field {
			case "name":
				return r.Name
			case "cas_number":
				return r.CASNumber
			case "unit":
				return r.Unit
			case "storage":
				return r.Storage
			}
			return ""
		},
		GroupKey: func(r Reagent) string { return r.Storage },
	}
}

func newReagentCollection(deps Deps) (*Collection[Reagent, ReagentDraft, ReagentRefs], error) {
	return newCollection[Reagent, ReagentDraft, ReagentRefs](
		deps,
		"reagents",
		func(r Reagent) string { return r.ID },
		reagentSchema(),
		reagentRules(),
		crud.Messages{
			Created:       "reagent added to catalog",
			Updated:       "reagent updated",
			Deleted:       "reagent deleted",
			CreateFailed:  "could not add reagent",
			UpdateFailed:  "could not update reagent",
			DeleteFailed:  "could not delete reagent",
			ConfirmDelete: "Delete this reagent and its supply history?",
		},
	)
}
