package controllers

import (
	"net/http"

	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/api/responses"
	"github.com/smoralesdev/labtrack-backend/api/validators"
	"github.com/smoralesdev/labtrack-backend/internal/reagents"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

type reagentRequest struct {
	Name      string `json:"name" validate:"required,notblank"`
	CASNumber string `json:"cas_number" validate:"omitempty,cas"`
	Unit      string `json:"unit" validate:"required,notblank"`
	Storage   string `json:"storage"`
}

func (req reagentRequest) toInput() reagents.UpsertReagentInput {
	return reagents.UpsertReagentInput{
		Name:      req.Name,
		CASNumber: req.CASNumber,
		Unit:      req.Unit,
		Storage:   req.Storage,
	}
}

func ReagentList(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListReagents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ReagentGet(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "reagentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.GetReagent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func ReagentCreate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reagentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.CreateReagent(r.Context(), middleware.UserIDFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func ReagentUpdate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "reagentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body reagentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateReagent(r.Context(), middleware.UserIDFromContext(r.Context()), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func ReagentDelete(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "reagentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteReagent(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
