package registry

import (
	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// Room is the wire record for a sick room. Occupied and Status are
// derived server-side from the assigned patients.
type Room struct {
	ID         string           `json:"id"`
	RoomNumber string           `json:"room_number"`
	Type       enums.RoomType   `json:"type"`
	Capacity   int              `json:"capacity"`
	Occupied   int              `json:"occupied"`
	Status     enums.RoomStatus `json:"status"`
	Notes      string           `json:"notes,omitempty"`
}

// StatusTone maps the status to its list badge.
func (r Room) StatusTone() enums.BadgeTone {
	return enums.ToneForRoomStatus(r.Status)
}

// HasSpace reports whether another patient fits.
func (r Room) HasSpace() bool {
	return r.Status != enums.RoomStatusMaintenance && r.Occupied < r.Capacity
}

// RoomDraft is the create/edit form payload.
type RoomDraft struct {
	RoomNumber string `json:"room_number" validate:"notblank"`
	Type       string `json:"type" validate:"oneof=general icu isolation recovery"`
	Capacity   int    `json:"capacity" validate:"gte=1"`
	Notes      string `json:"notes,omitempty"`
}

type RoomRefs struct {
	ExistingNumbers []string
}

func RoomRefsFrom(items []Room) RoomRefs {
	numbers := make([]string, 0, len(items))
	for _, item := range items {
		numbers = append(numbers, item.RoomNumber)
	}
	return RoomRefs{ExistingNumbers: numbers}
}

func DraftFromRoom(r Room) RoomDraft {
	return RoomDraft{
		RoomNumber: r.RoomNumber,
		Type:       r.Type.String(),
		Capacity:   r.Capacity,
		Notes:      r.Notes,
	}
}

func roomRules() *forms.RuleSet[RoomDraft, RoomRefs] {
	return forms.NewRuleSet[RoomDraft, RoomRefs](
		forms.UniqueOnCreate[RoomDraft, RoomRefs](
			"room_number",
			func(d RoomDraft) string { return d.RoomNumber },
			func(r RoomRefs) []string { return r.ExistingNumbers },
		),
	)
}

func roomSchema() listquery.Schema[Room] {
	return listquery.Schema[Room]{
		SearchFields: []string{"room_number", "notes"},
		FieldValue: func(r Room, field string) string {
			switch field {
			case "room_number":
				return r.RoomNumber
			case "type":
				return r.Type.String()
			case "status":
				return r.Status.String()
			}
			return ""
		},
		GroupKey: func(r Room) string { return r.Status.String() },
	}
}

func newRoomCollection(deps Deps) (*Collection[Room, RoomDraft, RoomRefs], error) {
	return newCollection[Room, RoomDraft, RoomRefs](
		deps,
		"rooms",
		func(r Room) string { return r.ID },
		roomSchema(),
		roomRules(),
		crud.Messages{
			Created:       "room created",
			Updated:       "room updated",
			Deleted:       "room deleted",
			CreateFailed:  "could not create room",
			UpdateFailed:  "could not update room",
			DeleteFailed:  "could not delete room",
			ConfirmDelete: "Delete this room? Patients must be reassigned first.",
		},
	)
}
