package enums

// BadgeTone is the visual treatment a status maps to in list views.
type BadgeTone string

const (
	BadgeToneSuccess BadgeTone = "success"
	BadgeToneInfo    BadgeTone = "info"
	BadgeToneWarning BadgeTone = "warning"
	BadgeToneDanger  BadgeTone = "danger"
	BadgeToneNeutral BadgeTone = "neutral"
)

// String implements fmt.Stringer.
func (b BadgeTone) String() string {
	return string(b)
}

// ToneForInstrumentStatus maps an instrument status to a badge tone.
// Unrecognized values fall back to neutral instead of failing.
func ToneForInstrumentStatus(s InstrumentStatus) BadgeTone {
	switch s {
	case InstrumentStatusAvailable:
		return BadgeToneSuccess
	case InstrumentStatusInUse:
		return BadgeToneInfo
	case InstrumentStatusMaintenance:
		return BadgeToneWarning
	case InstrumentStatusOutOfService:
		return BadgeToneDanger
	}
	return BadgeToneNeutral
}

// ToneForRoomStatus maps a room status to a badge tone with the same fallback.
func ToneForRoomStatus(s RoomStatus) BadgeTone {
	switch s {
	case RoomStatusAvailable:
		return BadgeToneSuccess
	case RoomStatusFull:
		return BadgeToneDanger
	case RoomStatusMaintenance:
		return BadgeToneWarning
	}
	return BadgeToneNeutral
}

// ToneForEventSeverity maps an event severity to a badge tone with the same fallback.
func ToneForEventSeverity(s EventSeverity) BadgeTone {
	switch s {
	case EventSeverityInfo:
		return BadgeToneInfo
	case EventSeverityWarning:
		return BadgeToneWarning
	case EventSeverityCritical:
		return BadgeToneDanger
	}
	return BadgeToneNeutral
}
