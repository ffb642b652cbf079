package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cillii/catalog-backend/api/middleware"
	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/api/validators"
	"github.com/cillii/catalog-backend/internal/orders"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

type placeOrderRequest struct {
	CustomerInfo orders.CustomerInfo `json:"customerInfo" validate:"required"`
	Language     string              `json:"language"`
}

// PlaceOrder snapshots the cart into an order export.
func PlaceOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		export, err := svc.Place(r.Context(), sessionID, req.CustomerInfo, req.Language)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, export)
	}
}

// LastOrderID reports the most recently issued order id without consuming
// one.
func LastOrderID(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.LastOrderID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"lastOrderId": id})
	}
}

// OrderHistory lists the session's placed orders, newest first.
func OrderHistory(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exports := svc.History(middleware.SessionIDFromContext(r.Context()))
		responses.WriteSuccess(w, exports)
	}
}

// DeleteOrderFromHistory drops one order from the session's history.
func DeleteOrderFromHistory(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "orderId")
		orderID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.DeleteFromHistory(sessionID, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
