package enums

import "fmt"

// EventSeverity grades entries in the event log.
type EventSeverity string

const (
	EventSeverityInfo     EventSeverity = "info"
	EventSeverityWarning  EventSeverity = "warning"
	EventSeverityCritical EventSeverity = "critical"
)

var validEventSeverities = []EventSeverity{
	EventSeverityInfo,
	EventSeverityWarning,
	EventSeverityCritical,
}

// String implements fmt.Stringer.
func (s EventSeverity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EventSeverity.
func (s EventSeverity) IsValid() bool {
	for _, candidate := range validEventSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEventSeverity converts raw input into an EventSeverity.
func ParseEventSeverity(value string) (EventSeverity, error) {
	for _, candidate := range validEventSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event severity %q", value)
}
