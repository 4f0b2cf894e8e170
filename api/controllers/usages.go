package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/api/responses"
	"github.com/smoralesdev/labtrack-backend/api/validators"
	"github.com/smoralesdev/labtrack-backend/internal/reagents"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

type usageRequest struct {
	ReagentID    uuid.UUID       `json:"reagent_id" validate:"required"`
	InstrumentID *uuid.UUID      `json:"instrument_id"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Purpose      string          `json:"purpose" validate:"required,notblank"`
	UsedAt       time.Time       `json:"used_at" validate:"required"`
}

func (req usageRequest) toInput(recordedBy *uuid.UUID) reagents.UpsertUsageInput {
	return reagents.UpsertUsageInput{
		ReagentID:    req.ReagentID,
		InstrumentID: req.InstrumentID,
		Quantity:     req.Quantity,
		Purpose:      req.Purpose,
		UsedAt:       req.UsedAt,
		RecordedBy:   recordedBy,
	}
}

func actorID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func UsageList(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListUsages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func UsageCreate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body usageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.CreateUsage(r.Context(), middleware.UserIDFromContext(r.Context()), body.toInput(actorID(r)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func UsageUpdate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "usageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body usageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateUsage(r.Context(), middleware.UserIDFromContext(r.Context()), id, body.toInput(actorID(r)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func UsageDelete(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "usageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteUsage(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
