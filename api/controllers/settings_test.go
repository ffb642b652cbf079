package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cillii/catalog-backend/internal/settings"
)

func TestGetColumnVisibilityDefaults(t *testing.T) {
	conn := setupTestDB(t)
	svc := newSettingsService(conn)

	rec := httptest.NewRecorder()
	GetColumnVisibility(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/columns", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]map[string]bool
	decodeData(t, rec, &body)
	visibility := body["columnVisibility"]
	if len(visibility) != len(settings.DefaultColumnVisibility) {
		t.Fatalf("expected %d columns, got %d", len(settings.DefaultColumnVisibility), len(visibility))
	}
	if !visibility["classPrice"] {
		t.Fatal("expected classPrice to default to visible")
	}
}

func TestSaveColumnVisibilityRoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	svc := newSettingsService(conn)

	body := `{"columnVisibility":{"classPrice":false}}`
	req := httptest.NewRequest(http.MethodPut, "/api/settings/columns", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	SaveColumnVisibility(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	var saved map[string]map[string]bool
	decodeData(t, rec, &saved)
	if saved["columnVisibility"]["classPrice"] {
		t.Fatal("expected classPrice to be hidden after save")
	}
	if !saved["columnVisibility"]["className"] {
		t.Fatal("expected unspecified columns to keep their defaults")
	}
}

func TestSaveColumnVisibilityRequiresBody(t *testing.T) {
	conn := setupTestDB(t)
	svc := newSettingsService(conn)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/columns", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	SaveColumnVisibility(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d; body=%s", rec.Code, rec.Body.String())
	}
}

func TestSaveSheetsSettingsPartialUpdate(t *testing.T) {
	conn := setupTestDB(t)
	svc := newSettingsService(conn)

	save := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/settings/sheets", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		SaveSheetsSettings(svc, testLogger()).ServeHTTP(rec, req)
		return rec
	}

	rec := save(`{"url":"https://docs.google.com/spreadsheets/d/abc123/edit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	var sheets settings.SheetsSettings
	decodeData(t, rec, &sheets)
	if sheets.URL != "https://docs.google.com/spreadsheets/d/abc123/edit" {
		t.Fatalf("unexpected url %q", sheets.URL)
	}
	if sheets.AutoSync {
		t.Fatal("auto-sync should stay off until toggled")
	}

	// Toggling only the flag keeps the stored URL.
	rec = save(`{"autoSync":true}`)
	decodeData(t, rec, &sheets)
	if !sheets.AutoSync {
		t.Fatal("expected auto-sync on")
	}
	if sheets.URL == "" {
		t.Fatal("expected url to survive a partial update")
	}
}

func TestSaveSheetsSettingsRejectsEmptyBody(t *testing.T) {
	conn := setupTestDB(t)
	svc := newSettingsService(conn)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/sheets", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	SaveSheetsSettings(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
