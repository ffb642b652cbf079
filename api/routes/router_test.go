package routes

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cillii/catalog-backend/internal/bulk"
	"github.com/cillii/catalog-backend/internal/cart"
	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/internal/orders"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/internal/uploads"
	"github.com/cillii/catalog-backend/pkg/config"
	"github.com/cillii/catalog-backend/pkg/db/models"
	"github.com/cillii/catalog-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.Class{}, &models.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	uploadsCfg := config.UploadsConfig{
		Dir:         t.TempDir(),
		MaxVideoMB:  10,
		MaxSheetMB:  10,
		PublicRoute: "/uploads",
	}
	store, err := uploads.NewStore(uploadsCfg)
	if err != nil {
		t.Fatalf("uploads store: %v", err)
	}

	classRepo := classes.NewRepository(conn)
	classSvc := classes.NewService(classRepo, store, logg)
	cartSvc := cart.NewService(cart.NewMemoryStore(time.Hour), nil, classRepo, logg)
	settingsSvc := settings.NewService(settings.NewRepository(conn))
	sequencer := orders.NewSequencer(settings.NewRepository(conn), 1000)
	orderSvc := orders.NewService(sequencer, orders.NewHistory(50), cartSvc, logg)

	cfg := &config.Config{
		App:     config.AppConfig{Env: "dev"},
		Admin:   config.AdminConfig{Passphrase: "open-sesame"},
		Uploads: uploadsCfg,
		Cart:    config.CartConfig{TTL: time.Hour},
	}

	return NewRouter(Params{
		Config:   cfg,
		Logger:   logg,
		DB:       stubPinger{},
		Classes:  classSvc,
		Bulk:     bulk.NewService(classRepo, logg),
		Fetcher:  bulk.NewSheetFetcher(config.SheetsConfig{FetchTimeout: time.Second}),
		Cart:     cartSvc,
		Orders:   orderSvc,
		Settings: settingsSvc,
		Uploads:  store,
	})
}

func TestRouterHealthAndPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/classes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("classes: expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("cart: expected 200, got %d", rec.Code)
	}
	var session string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "catalog_session" {
			session = cookie.Value
		}
	}
	if session == "" {
		t.Fatal("expected api routes to issue a session cookie")
	}
}

func TestRouterAdminGateCoversMutations(t *testing.T) {
	router := newTestRouter(t)

	mutations := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/classes"},
		{http.MethodDelete, "/api/classes/1"},
		{http.MethodDelete, "/api/classes"},
		{http.MethodPost, "/api/classes/bulk-upload"},
		{http.MethodPost, "/api/classes/sync-sheets"},
		{http.MethodPut, "/api/settings/columns"},
		{http.MethodPut, "/api/settings/sheets"},
	}
	for _, m := range mutations {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(m.method, m.target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without passphrase, got %d", m.method, m.target, rec.Code)
		}
	}
}

func TestRouterAdminFlowCreatesClass(t *testing.T) {
	router := newTestRouter(t)

	body := `{"mainCategory":"Carpet","quality":"Premium","className":"Persian Red"}`
	req := httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Passphrase", "open-sesame")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d; body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/classes/CR01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected created class to resolve, got %d; body=%s", rec.Code, rec.Body.String())
	}
}
