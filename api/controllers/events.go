package controllers

import (
	"net/http"
	"strings"

	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/api/responses"
	"github.com/smoralesdev/labtrack-backend/api/validators"
	"github.com/smoralesdev/labtrack-backend/internal/events"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
	"github.com/smoralesdev/labtrack-backend/pkg/pagination"
)

type eventRequest struct {
	Severity   string `json:"severity" validate:"omitempty,oneof=info warning critical"`
	Action     string `json:"action" validate:"required,notblank"`
	Collection string `json:"collection"`
	Detail     string `json:"detail"`
}

// EventList serves the audit trail with optional severity, collection
// and date range filters.
func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := eventFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRecords(w, rows, meta)
	}
}

// EventCreate appends a manual entry to the audit trail. Entries are
// append-only; there is no update or delete surface.
func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body eventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		severity := enums.EventSeverity(body.Severity)
		actor := middleware.UserIDFromContext(r.Context())
		if err := svc.Record(r.Context(), severity, actor, body.Action, body.Collection, body.Detail); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"success": true})
	}
}

func eventFilterFromQuery(r *http.Request) (events.Filter, error) {
	var filter events.Filter

	if raw := strings.TrimSpace(r.URL.Query().Get("severity")); raw != "" {
		severity, err := enums.ParseEventSeverity(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid severity").
				WithDetails(map[string]any{"field": "severity"})
		}
		filter.Severity = severity
	}
	filter.Collection = strings.TrimSpace(r.URL.Query().Get("collection"))

	from, err := validators.ParseQueryTime(r, "from")
	if err != nil {
		return filter, err
	}
	to, err := validators.ParseQueryTime(r, "to")
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
	if err != nil {
		return filter, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return filter, err
	}
	filter.Page = pagination.Params{Page: page, PageSize: pageSize}
	return filter, nil
}
