package controllers

import (
	"net/http"
	"time"

	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/api/responses"
	"github.com/smoralesdev/labtrack-backend/api/validators"
	"github.com/smoralesdev/labtrack-backend/internal/instruments"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

type instrumentRequest struct {
	Name             string     `json:"name" validate:"required,notblank"`
	Model            string     `json:"model" validate:"required,notblank"`
	SerialNumber     string     `json:"serial_number" validate:"required,notblank"`
	Category         string     `json:"category" validate:"required,notblank"`
	Location         string     `json:"location"`
	Status           string     `json:"status" validate:"omitempty,oneof='Available' 'In Use' 'Maintenance' 'Out of Service'"`
	LastCalibratedAt *time.Time `json:"last_calibrated_at"`
	Notes            string     `json:"notes"`
}

func (req instrumentRequest) toInput() instruments.UpsertInstrumentInput {
	return instruments.UpsertInstrumentInput{
		Name:             req.Name,
		Model:            req.Model,
		SerialNumber:     req.SerialNumber,
		Category:         req.Category,
		Location:         req.Location,
		Status:           enums.InstrumentStatus(req.Status),
		LastCalibratedAt: req.LastCalibratedAt,
		Notes:            req.Notes,
	}
}

func InstrumentList(svc instruments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func InstrumentGet(svc instruments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "instrumentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func InstrumentCreate(svc instruments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body instrumentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func InstrumentUpdate(svc instruments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "instrumentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body instrumentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func InstrumentDelete(svc instruments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "instrumentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
