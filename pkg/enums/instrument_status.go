package enums

import "fmt"

// InstrumentStatus is the closed status set for registry instruments.
type InstrumentStatus string

const (
	InstrumentStatusAvailable    InstrumentStatus = "Available"
	InstrumentStatusInUse        InstrumentStatus = "In Use"
	InstrumentStatusMaintenance  InstrumentStatus = "Maintenance"
	InstrumentStatusOutOfService InstrumentStatus = "Out of Service"
)

var validInstrumentStatuses = []InstrumentStatus{
	InstrumentStatusAvailable,
	InstrumentStatusInUse,
	InstrumentStatusMaintenance,
	InstrumentStatusOutOfService,
}

// String implements fmt.Stringer.
func (s InstrumentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InstrumentStatus.
func (s InstrumentStatus) IsValid() bool {
	for _, candidate := range validInstrumentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Blocks reports whether the status prevents the instrument from being used.
func (s InstrumentStatus) Blocks() bool {
	return s == InstrumentStatusMaintenance || s == InstrumentStatusOutOfService
}

// ParseInstrumentStatus converts raw input into an InstrumentStatus.
func ParseInstrumentStatus(value string) (InstrumentStatus, error) {
	for _, candidate := range validInstrumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid instrument status %q", value)
}
