package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkempe/inventory-backend/api/responses"
	"github.com/dkempe/inventory-backend/api/validators"
	"github.com/dkempe/inventory-backend/internal/inventory"
	"github.com/dkempe/inventory-backend/pkg/enums"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
	"github.com/dkempe/inventory-backend/pkg/logger"
)

type createStockRequest struct {
	SKUCode    string          `json:"skuCode" validate:"required"`
	Quantity   int             `json:"quantity" validate:"min=0"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Status     string          `json:"status" validate:"required"`
	ProductRef string          `json:"productRef"`
}

type updateStockRequest struct {
	SKUCode    string          `json:"skuCode" validate:"required"`
	Quantity   int             `json:"quantity" validate:"min=0"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Status     string          `json:"status" validate:"required"`
	ProductRef string          `json:"productRef"`
}

type reserveRequest struct {
	SKUCode    string `json:"skuCode" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	CustomerID string `json:"customerId" validate:"required"`
}

type releaseRequest struct {
	SKUCode    string `json:"skuCode" validate:"required"`
	CustomerID string `json:"customerId" validate:"required"`
}

// StockCreate handles POST /api/v1/inventory.
func StockCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseStockStatus(req.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.Create(ctx, inventory.CreateStockInput{
			SKUCode:    req.SKUCode,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			Status:     status,
			ProductRef: req.ProductRef,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// StockUpdate handles PUT /api/v1/inventory/{stockId}.
func StockUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseStockID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseStockStatus(req.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.Update(ctx, id, inventory.UpdateStockInput{
			SKUCode:    req.SKUCode,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			Status:     status,
			ProductRef: req.ProductRef,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StockDelete handles DELETE /api/v1/inventory/{stockId}.
func StockDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseStockID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// StockDetail handles GET /api/v1/inventory/{stockId}.
func StockDetail(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseStockID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dto, err := svc.FindByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StockList handles GET /api/v1/inventory.
func StockList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter := inventory.StockFilter{
			SKUCode:    r.URL.Query().Get("skuCode"),
			ProductRef: r.URL.Query().Get("productRef"),
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = status
		}

		page, err := svc.Find(ctx, filter, validators.ParsePageable(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// StockReserve handles POST /api/v1/inventory/reserve.
func StockReserve(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req reserveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dto, err := svc.Reserve(ctx, inventory.ReserveInput{
			SKUCode:     req.SKUCode,
			Quantity:    req.Quantity,
			CustomerRef: req.CustomerID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StockRelease handles POST /api/v1/inventory/release.
func StockRelease(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req releaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dto, err := svc.Release(ctx, inventory.ReleaseInput{
			SKUCode:     req.SKUCode,
			CustomerRef: req.CustomerID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CustomerReservations handles GET /api/v1/reservations/{customerRef}.
func CustomerReservations(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		entries, err := svc.ListReservationsByCustomer(ctx, chi.URLParam(r, "customerRef"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func parseStockID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "stockId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "stockId must be a valid uuid").
			WithDetails(map[string]any{"stockId": raw})
	}
	return id, nil
}
