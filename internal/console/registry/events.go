package registry

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// EventLogEntry is the wire record for the audit trail. The console only
// reads it; entries are written server-side.
type EventLogEntry struct {
	ID         string              `json:"id"`
	OccurredAt time.Time           `json:"occurred_at"`
	Severity   enums.EventSeverity `json:"severity"`
	Actor      string              `json:"actor"`
	Action     string              `json:"action"`
	Collection string              `json:"collection,omitempty"`
	Detail     string              `json:"detail,omitempty"`
}

// SeverityTone maps the severity to its list badge.
func (e EventLogEntry) SeverityTone() enums.BadgeTone {
	return enums.ToneForEventSeverity(e.Severity)
}

func eventSchema() listquery.Schema[EventLogEntry] {
	return listquery.Schema[EventLogEntry]{
		SearchFields: []string{"actor", "action", "detail"},
		FieldValue: func(e EventLogEntry, field string) string {
			switch field {
			case "actor":
				return e.Actor
			case "action":
				return e.Action
			case "detail":
				return e.Detail
			case "severity":
				return e.Severity.String()
			case "collection":
				return e.Collection
			}
			return ""
		},
		DateValue: func(e EventLogEntry) (time.Time, bool) {
			return e.OccurredAt, !e.OccurredAt.IsZero()
		},
		GroupKey: func(e EventLogEntry) string { return e.Severity.String() },
	}
}

func newEventList(deps Deps) (*ListOnly[EventLogEntry], error) {
	return newListOnly[EventLogEntry](
		deps,
		"events",
		func(e EventLogEntry) string { return e.ID },
		eventSchema(),
	)
}
