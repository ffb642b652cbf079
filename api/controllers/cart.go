package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cillii/catalog-backend/api/middleware"
	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/api/validators"
	"github.com/cillii/catalog-backend/internal/cart"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// GetCart returns the session's enriched cart.
func GetCart(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Read(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
}

func AddToCart(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addToCartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Add(r.Context(), sessionID, req.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(svc, logg, w, r, sessionID)
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func SetCartQuantity(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.SetQuantity(r.Context(), sessionID, productID, req.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(svc, logg, w, r, sessionID)
	}
}

func RemoveFromCart(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Remove(r.Context(), sessionID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(svc, logg, w, r, sessionID)
	}
}

func ClearCart(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(svc, logg, w, r, sessionID)
	}
}

type replaceCartRequest struct {
	Items []cart.Line `json:"items" validate:"required"`
}

// ReplaceCart swaps the whole cart, used when a client restores a saved cart.
func ReplaceCart(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replaceCartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.ReplaceAll(r.Context(), sessionID, req.Items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(svc, logg, w, r, sessionID)
	}
}

func cartProductID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// writeCart responds with the post-mutation cart so clients never need a
// follow-up read.
func writeCart(svc *cart.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := svc.Read(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
