package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/api/validators"
	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/internal/uploads"
	"github.com/cillii/catalog-backend/pkg/config"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

const videoFormField = "video"

// ListClasses serves the catalog with the order form's filters.
func ListClasses(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filters := classes.ListFilters{
			NameSearch:          strings.TrimSpace(query.Get("search")),
			CodeSearch:          strings.TrimSpace(query.Get("code")),
			Category:            strings.TrimSpace(query.Get("category")),
			Quality:             strings.TrimSpace(query.Get("quality")),
			IncludeZeroQuantity: query.Get("includeZeroQuantity") == "true",
		}

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetClass resolves a numeric id or a special id.
func GetClass(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "identifier")
		dto, err := svc.Get(r.Context(), identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// GenerateSpecialID previews the next free special id for a prefix.
func GenerateSpecialID(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
		if prefix == "" {
			prefix = classes.DefaultSpecialIDPrefix
		}
		specialID, err := svc.NextSpecialID(r.Context(), prefix)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"specialId": specialID})
	}
}

// CreateClass accepts either a JSON body or a multipart form with an optional
// video file.
func CreateClass(svc *classes.Service, store *uploads.Store, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, uploaded, err := decodeClassRequest(r, store, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), payload, uploaded)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateClass patches a class by numeric id.
func UpdateClass(svc *classes.Service, store *uploads.Store, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := classID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, uploaded, err := decodeClassRequest(r, store, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, payload, uploaded)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteClass(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := classID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func DeleteAllClasses(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.DeleteAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"deleted": deleted})
	}
}

func classID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid class id")
	}
	return id, nil
}

// decodeClassRequest reads the payload from JSON or multipart form and, for
// the latter, stores an attached video file. The returned path is nil when no
// file was sent.
func decodeClassRequest(r *http.Request, store *uploads.Store, cfg config.UploadsConfig) (classes.Payload, *string, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var payload classes.Payload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return classes.Payload{}, nil, err
		}
		return payload, nil, nil
	}

	maxBytes := cfg.MaxVideoMB << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return classes.Payload{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	payload := classes.PayloadFromForm(r.MultipartForm.Value)
	if err := validators.ValidateStruct(&payload); err != nil {
		return classes.Payload{}, nil, err
	}

	file, header, err := r.FormFile(videoFormField)
	if err == http.ErrMissingFile {
		return payload, nil, nil
	}
	if err != nil {
		return classes.Payload{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading video file")
	}
	defer file.Close()

	publicPath, err := store.SaveVideo(file, header.Filename)
	if err != nil {
		return classes.Payload{}, nil, err
	}
	return payload, &publicPath, nil
}
