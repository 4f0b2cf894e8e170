package enums

import "fmt"

// RoomStatus tracks sick-room occupancy state.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusFull        RoomStatus = "full"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

var validRoomStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusFull,
	RoomStatusMaintenance,
}

// String implements fmt.Stringer.
func (s RoomStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RoomStatus.
func (s RoomStatus) IsValid() bool {
	for _, candidate := range validRoomStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRoomStatus converts raw input into a RoomStatus.
func ParseRoomStatus(value string) (RoomStatus, error) {
	for _, candidate := range validRoomStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room status %q", value)
}

// RoomType categorizes sick rooms.
type RoomType string

const (
	RoomTypeGeneral   RoomType = "general"
	RoomTypeICU       RoomType = "icu"
	RoomTypeIsolation RoomType = "isolation"
	RoomTypeRecovery  RoomType = "recovery"
)

var validRoomTypes = []RoomType{
	RoomTypeGeneral,
	RoomTypeICU,
	RoomTypeIsolation,
	RoomTypeRecovery,
}

// String implements fmt.Stringer.
func (r RoomType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoomType.
func (r RoomType) IsValid() bool {
	for _, candidate := range validRoomTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoomType converts raw input into a RoomType.
func ParseRoomType(value string) (RoomType, error) {
	for _, candidate := range validRoomTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room type %q", value)
}
