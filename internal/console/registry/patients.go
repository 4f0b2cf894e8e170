package registry

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Patient is the wire record for a patient assigned to a room.
type Patient struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	FullName    string     `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Condition   string     `json:"condition"`
	AdmittedAt  *time.Time `json:"admitted_at"`
}

// PatientDraft is the admit/edit form payload.
type PatientDraft struct {
	FullName    string     `json:"full_name" validate:"notblank"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Condition   string     `json:"condition" validate:"notblank"`
	AdmittedAt  *time.Time `json:"admitted_at" validate:"required"`
}

// PatientRefs is the room context patient rules read.
type PatientRefs struct {
	RoomCapacity int
	RoomOccupied int
	RoomStatus   enums.RoomStatus
}

func PatientRefsFrom(room Room) PatientRefs {
	return PatientRefs{
		RoomCapacity: room.Capacity,
		RoomOccupied: room.Occupied,
		RoomStatus:   room.Status,
	}
}

func DraftFromPatient(p Patient) PatientDraft {
	return PatientDraft{
		FullName:    p.FullName,
		DateOfBirth: p.DateOfBirth,
		Condition:   p.Condition,
		AdmittedAt:  p.AdmittedAt,
	}
}

func patientRules(clock forms.Clock) *forms.RuleSet[PatientDraft, PatientRefs] {
	return forms.NewRuleSet[PatientDraft, PatientRefs](
		forms.DateNotFuture[PatientDraft, PatientRefs]("date_of_birth", func(d PatientDraft) *time.Time { return d.DateOfBirth }, clock),
		forms.DateNotFuture[PatientDraft, PatientRefs]("admitted_at", func(d PatientDraft) *time.Time { return d.AdmittedAt }, clock),
		// Admitting into a full or closed room is rejected before any
		// network call; the server enforces the same rule with a 409.
		forms.Rule[PatientDraft, PatientRefs]{
			Field:   "room_id",
			Applies: forms.CreateOnly,
			Check: func(_ PatientDraft, refs PatientRefs, _ forms.Mode) string {
				if refs.RoomStatus == enums.RoomStatusMaintenance {
					return "room is under maintenance"
				}
				if refs.RoomOccupied >= refs.RoomCapacity {
					return "room is at capacity"
				}
				return ""
			},
		},
	)
}

func patientSchema() listquery.Schema[Patient] {
	return listquery.Schema[Patient]{
		SearchFields: []string{"full_name", "condition"},
		FieldValue: func(p Patient, field string) string {
			switch field {
			case "full_name":
				return p.FullName
			case "condition":
				return p.Condition
			case "room_id":
				return p.RoomID
			}
			return ""
		},
		DateValue: func(p Patient) (time.Time, bool) {
			if p.AdmittedAt == nil {
				return time.Time{}, false
			}
			return *p.AdmittedAt, true
		},
		GroupKey: func(p Patient) string { return p.Condition },
	}
}

func newPatientCollection(deps Deps, roomID string) (*Collection[Patient, PatientDraft, PatientRefs], error) {
	return newCollection[Patient, PatientDraft, PatientRefs](
		deps,
		"rooms/"+roomID+"/patients",
		func(p Patient) string { return p.ID },
		patientSchema(),
		patientRules(deps.Clock),
		crud.Messages{
			Created:       "patient admitted",
			Updated:       "patient updated",
			Deleted:       "patient discharged",
			CreateFailed:  "could not admit patient",
			UpdateFailed:  "could not update patient",
			DeleteFailed:  "could not discharge patient",
			ConfirmDelete: "Discharge this patient from the room?",
		},
	)
}
