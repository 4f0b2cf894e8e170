package instruments

import (
	"time"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
)

// InstrumentDTO is the wire shape of one instrument.
type InstrumentDTO struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Model            string                 `json:"model"`
	SerialNumber     string                 `json:"serial_number"`
	Category         string                 `json:"category"`
	Location         string                 `json:"location,omitempty"`
	Status           enums.InstrumentStatus `json:"status"`
	LastCalibratedAt *time.Time             `json:"last_calibrated_at,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// FromModel converts a stored instrument to its wire shape.
func FromModel(m *models.Instrument) *InstrumentDTO {
	if m == nil {
		return nil
	}
	dto := &InstrumentDTO{
		ID:               m.ID.String(),
		Name:             m.Name,
		Model:            m.Model,
		SerialNumber:     m.SerialNumber,
		Category:         m.Category,
		Location:         m.Location,
		Status:           m.Status,
		LastCalibratedAt: m.LastCalibratedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.Notes != nil {
		dto.Notes = *m.Notes
	}
	return dto
}

func fromModels(rows []models.Instrument) []InstrumentDTO {
	out := make([]InstrumentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
