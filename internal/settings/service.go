package settings

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

const (
	columnVisibilityKey = "column_visibility"
	sheetsURLKey        = "google_sheets_url"
	sheetsAutoSyncKey   = "google_sheets_auto_sync"
)

// DefaultColumnVisibility matches the column set the catalog table renders.
var DefaultColumnVisibility = map[string]bool{
	"specialId":        true,
	"mainCategory":     true,
	"quality":          true,
	"className":        true,
	"classNameArabic":  false,
	"classNameEnglish": false,
	"classFeatures":    true,
	"classWeight":      true,
	"classQuantity":    true,
	"classPrice":       true,
	"classVideo":       true,
}

// SheetsSettings is the persisted Google-Sheets sync configuration.
type SheetsSettings struct {
	URL      string `json:"url"`
	AutoSync bool   `json:"autoSync"`
}

// Service reads and writes the non-core settings the UI round-trips.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ColumnVisibility returns the stored visibility map, normalized against the
// defaults. Missing or unparseable state falls back to the defaults.
func (s *Service) ColumnVisibility(ctx context.Context) (map[string]bool, error) {
	raw, ok, err := s.repo.Get(ctx, columnVisibilityKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading column visibility")
	}
	if !ok {
		return cloneVisibility(DefaultColumnVisibility), nil
	}
	var stored map[string]bool
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return cloneVisibility(DefaultColumnVisibility), nil
	}
	return normalizeVisibility(stored), nil
}

// SaveColumnVisibility normalizes and persists the provided map, returning the
// normalized result.
func (s *Service) SaveColumnVisibility(ctx context.Context, visibility map[string]bool) (map[string]bool, error) {
	normalized := normalizeVisibility(visibility)
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding column visibility")
	}
	if err := s.repo.Put(ctx, columnVisibilityKey, string(encoded)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "saving column visibility")
	}
	return normalized, nil
}

// Sheets returns the stored sheet-sync settings; both fields default to zero
// values when unset.
func (s *Service) Sheets(ctx context.Context) (SheetsSettings, error) {
	var out SheetsSettings
	url, ok, err := s.repo.Get(ctx, sheetsURLKey)
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading sheets url")
	}
	if ok {
		out.URL = url
	}
	auto, ok, err := s.repo.Get(ctx, sheetsAutoSyncKey)
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading auto-sync flag")
	}
	if ok {
		out.AutoSync = auto == "true"
	}
	return out, nil
}

// SaveSheets persists whichever of url/autoSync were supplied.
func (s *Service) SaveSheets(ctx context.Context, url *string, autoSync *bool) error {
	if url != nil {
		if err := s.repo.Put(ctx, sheetsURLKey, strings.TrimSpace(*url)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "saving sheets url")
		}
	}
	if autoSync != nil {
		if err := s.repo.Put(ctx, sheetsAutoSyncKey, strconv.FormatBool(*autoSync)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "saving auto-sync flag")
		}
	}
	return nil
}

func normalizeVisibility(visibility map[string]bool) map[string]bool {
	normalized := cloneVisibility(DefaultColumnVisibility)
	for key, value := range visibility {
		normalized[key] = value
	}
	anyVisible := false
	for _, value := range normalized {
		if value {
			anyVisible = true
			break
		}
	}
	// An all-hidden table is useless; reset to defaults like the UI expects.
	if !anyVisible {
		return cloneVisibility(DefaultColumnVisibility)
	}
	return normalized
}

func cloneVisibility(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
