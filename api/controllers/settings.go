package controllers

import (
	"net/http"

	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/api/validators"
	"github.com/cillii/catalog-backend/internal/settings"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// GetColumnVisibility returns which order-form columns are shown.
func GetColumnVisibility(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visibility, err := svc.ColumnVisibility(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"columnVisibility": visibility})
	}
}

type saveColumnVisibilityRequest struct {
	ColumnVisibility map[string]bool `json:"columnVisibility" validate:"required"`
}

func SaveColumnVisibility(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveColumnVisibilityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.SaveColumnVisibility(r.Context(), req.ColumnVisibility)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"columnVisibility": saved})
	}
}

// GetSheetsSettings returns the saved Google Sheets source and auto-sync flag.
func GetSheetsSettings(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sheets, err := svc.Sheets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sheets)
	}
}

type saveSheetsRequest struct {
	URL      *string `json:"url"`
	AutoSync *bool   `json:"autoSync"`
}

// SaveSheetsSettings updates the sheet URL and/or the auto-sync flag. Fields
// left out of the body keep their stored value.
func SaveSheetsSettings(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveSheetsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.URL == nil && req.AutoSync == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		if err := svc.SaveSheets(r.Context(), req.URL, req.AutoSync); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sheets, err := svc.Sheets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sheets)
	}
}
