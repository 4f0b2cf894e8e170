package events

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// EventDTO is the wire shape of one audit entry.
type EventDTO struct {
	ID         string              `json:"id"`
	OccurredAt time.Time           `json:"occurred_at"`
	Severity   enums.EventSeverity `json:"severity"`
	Actor      string              `json:"actor"`
	Action     string              `json:"action"`
	Collection string              `json:"collection,omitempty"`
	Detail     string              `json:"detail,omitempty"`
}

// FromModel converts a stored entry to its wire shape.
func FromModel(m *models.EventLogEntry) *EventDTO {
	if m == nil {
		return nil
	}
	return &EventDTO{
		ID:         m.ID.String(),
		OccurredAt: m.OccurredAt,
		Severity:   m.Severity,
		Actor:      m.Actor,
		Action:     m.Action,
		Collection: m.Collection,
		Detail:     m.Detail,
	}
}

func fromModels(rows []models.EventLogEntry) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
