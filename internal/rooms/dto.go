package rooms

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// RoomDTO is the wire shape of one sick room. Occupied is derived from
// the patient relation; Status reflects occupancy unless the room is
// under maintenance.
type RoomDTO struct {
	ID         string           `json:"id"`
	RoomNumber string           `json:"room_number"`
	Type       enums.RoomType   `json:"type"`
	Capacity   int              `json:"capacity"`
	Occupied   int              `json:"occupied"`
	Status     enums.RoomStatus `json:"status"`
	Notes      string           `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// PatientDTO is the wire shape of one admitted patient.
type PatientDTO struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	RoomNumber  string     `json:"room_number,omitempty"`
	FullName    string     `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Condition   string     `json:"condition"`
	AdmittedAt  time.Time  `json:"admitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func roomFromModel(m *models.Room, occupied int) *RoomDTO {
	if m == nil {
		return nil
	}
	status := m.Status
	if status != enums.RoomStatusMaintenance {
		status = enums.RoomStatusAvailable
		if occupied >= m.Capacity {
			status = enums.RoomStatusFull
		}
	}
	dto := &RoomDTO{
		ID:         m.ID.String(),
		RoomNumber: m.RoomNumber,
		Type:       m.Type,
		Capacity:   m.Capacity,
		Occupied:   occupied,
		Status:     status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Notes != nil {
		dto.Notes = *m.Notes
	}
	return dto
}

func patientFromModel(m *models.Patient, roomNumber string) *PatientDTO {
	if m == nil {
		return nil
	}
	return &PatientDTO{
		ID:          m.ID.String(),
		RoomID:      m.RoomID.String(),
		RoomNumber:  roomNumber,
		FullName:    m.FullName,
		DateOfBirth: m.DateOfBirth,
		Condition:   m.Condition,
		AdmittedAt:  m.AdmittedAt,
		CreatedAt:   m.CreatedAt,
	}
}
