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

type supplyRequest struct {
	ReagentID      uuid.UUID       `json:"reagent_id" validate:"required"`
	VendorID       uuid.UUID       `json:"vendor_id" validate:"required"`
	LotNumber      string          `json:"lot_number" validate:"required,notblank"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	OrderDate      time.Time       `json:"order_date" validate:"required"`
	ReceiptDate    time.Time       `json:"receipt_date" validate:"required"`
	ExpirationDate time.Time       `json:"expiration_date" validate:"required"`
}

func (req supplyRequest) toInput() reagents.UpsertSupplyInput {
	return reagents.UpsertSupplyInput{
		ReagentID:      req.ReagentID,
		VendorID:       req.VendorID,
		LotNumber:      req.LotNumber,
		Quantity:       req.Quantity,
		OrderDate:      req.OrderDate,
		ReceiptDate:    req.ReceiptDate,
		ExpirationDate: req.ExpirationDate,
	}
}

func SupplyList(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListSupplies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func SupplyCreate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body supplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.CreateSupply(r.Context(), middleware.UserIDFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func SupplyUpdate(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "supplyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body supplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateSupply(r.Context(), middleware.UserIDFromContext(r.Context()), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func SupplyDelete(svc reagents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "supplyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSupply(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
