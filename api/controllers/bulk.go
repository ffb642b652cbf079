package controllers

import (
	"net/http"

	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/api/validators"
	"github.com/cillii/catalog-backend/internal/bulk"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/pkg/config"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

const sheetFormField = "file"

// BulkUpload reconciles an uploaded spreadsheet into the class store. The
// updateOnly form field restricts the run to existing records.
func BulkUpload(svc *bulk.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := cfg.MaxSheetMB << 20
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile(sheetFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "spreadsheet file is required"))
			return
		}
		defer file.Close()

		sheet, err := bulk.SheetFromXLSX(file, header.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opts := bulk.Options{UpdateOnly: r.FormValue("updateOnly") == "true"}
		result, err := svc.Reconcile(r.Context(), sheet, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type syncSheetsRequest struct {
	URL        string `json:"url"`
	UpdateOnly bool   `json:"updateOnly"`
}

// SyncFromSheets pulls the configured Google Sheet (or an explicit URL from
// the request body) and reconciles it. Used by the admin "sync now" button.
func SyncFromSheets(svc *bulk.Service, fetcher *bulk.SheetFetcher, settingsSvc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncSheetsRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		url := req.URL
		if url == "" {
			saved, err := settingsSvc.Sheets(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			url = saved.URL
		}
		if url == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no sheet url configured"))
			return
		}

		sheet, err := fetcher.Fetch(r.Context(), url)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Reconcile(r.Context(), sheet, bulk.Options{UpdateOnly: req.UpdateOnly})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
