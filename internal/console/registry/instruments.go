package registry

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Instrument is the wire record for lab instruments.
type Instrument struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Model            string                 `json:"model"`
	SerialNumber     string                 `json:"serial_number"`
	Category         string                 `json:"category"`
	Location         string                 `json:"location,omitempty"`
	Status           enums.InstrumentStatus `json:"status"`
	LastCalibratedAt *time.Time             `json:"last_calibrated_at,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
}

// StatusTone maps the status to its list badge.
func (i Instrument) StatusTone() enums.BadgeTone {
	return enums.ToneForInstrumentStatus(i.Status)
}

// InstrumentDraft is the create/edit form payload.
type InstrumentDraft struct {
	Name             string     `json:"name" validate:"notblank"`
	Model            string     `json:"model" validate:"notblank"`
	SerialNumber     string     `json:"serial_number" validate:"notblank"`
	Category         string     `json:"category" validate:"notblank"`
	Location         string     `json:"location,omitempty"`
	Status           string     `json:"status" validate:"oneof='Available' 'In Use' 'Maintenance' 'Out of Service'"`
	LastCalibratedAt *time.Time `json:"last_calibrated_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// InstrumentRefs is the cross-record context instrument rules read.
type InstrumentRefs struct {
	ExistingSerialNumbers []string
}

// InstrumentRefsFrom derives rule context from the loaded collection.
func InstrumentRefsFrom(items []Instrument) InstrumentRefs {
	serials := make([]string, 0, len(items))
	for _, item := range items {
		serials = append(serials, item.SerialNumber)
	}
	return InstrumentRefs{ExistingSerialNumbers: serials}
}

// DraftFromInstrument prefills the edit form from a record.
func DraftFromInstrument(i Instrument) InstrumentDraft {
	return InstrumentDraft{
		Name:             i.Name,
		Model:            i.Model,
		SerialNumber:     i.SerialNumber,
		Category:         i.Category,
		Location:         i.Location,
		Status:           i.Status.String(),
		LastCalibratedAt: i.LastCalibratedAt,
		Notes:            i.Notes,
	}
}

// Calibration dates older than ten years indicate a data entry mistake.
const calibrationYearWindow = 10

func instrumentRules(clock forms.Clock) *forms.RuleSet[InstrumentDraft, InstrumentRefs] {
	calibratedAt := func(d InstrumentDraft) *time.Time { return d.LastCalibratedAt }
	return forms.NewRuleSet[InstrumentDraft, InstrumentRefs](
		forms.UniqueOnCreate[InstrumentDraft, InstrumentRefs](
			"serial_number",
			func(d InstrumentDraft) string { return d.SerialNumber },
			func(r InstrumentRefs) []string { return r.ExistingSerialNumbers },
		),
		forms.DateNotFuture[InstrumentDraft, InstrumentRefs]("last_calibrated_at", calibratedAt, clock),
		forms.DateWithinYears[InstrumentDraft, InstrumentRefs]("last_calibrated_at", calibrationYearWindow, calibratedAt, clock),
	)
}

func instrumentSchema() listquery.Schema[Instrument] {
	return listquery.Schema[Instrument]{
		SearchFields: []string{"name", "model", "serial_number", "location"},
		FieldValue: func(i Instrument, field string) string {
			switch field {
			case "name":
				return i.Name
			case "model":
				return i.Model
			case "serial_number":
				return i.SerialNumber
			case "category":
				return i.Category
			case "location":
				return i.Location
			case "status":
				return i.Status.String()
			}
			return ""
		},
		DateValue: func(i Instrument) (time.Time, bool) {
			if i.LastCalibratedAt == nil {
				return time.Time{}, false
			}
			return *i.LastCalibratedAt, true
		},
		GroupKey: func(i Instrument) string { return i.Status.String() },
	}
}

func newInstrumentCollection(deps Deps) (*Collection[Instrument, InstrumentDraft, InstrumentRefs], error) {
	return newCollection[Instrument, InstrumentDraft, InstrumentRefs](
		deps,
		"instruments",
		func(i Instrument) string { return i.ID },
		instrumentSchema(),
		instrumentRules(deps.Clock),
		crud.Messages{
			Created:       "instrument registered",
			Updated:       "instrument updated",
			Deleted:       "instrument removed",
			CreateFailed:  "could not register instrument",
			UpdateFailed:  "could not update instrument",
			DeleteFailed:  "could not remove instrument",
			ConfirmDelete: "Remove this instrument from the registry?",
		},
	)
}
