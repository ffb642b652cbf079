package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cillii/catalog-backend/internal/cart"
	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/pkg/db/models"
	"github.com/cillii/catalog-backend/pkg/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type nopVideoStore struct{}

func (nopVideoStore) Remove(string) error       { return nil }
func (nopVideoStore) RemoveMany([]string) error { return nil }
func (nopVideoStore) IsLocal(string) bool       { return false }

func newClassesService(t *testing.T, conn *gorm.DB) *classes.Service {
	t.Helper()
	return classes.NewService(classes.NewRepository(conn), nopVideoStore{}, testLogger())
}

func newCartService(t *testing.T, conn *gorm.DB) *cart.Service {
	t.Helper()
	return cart.NewService(cart.NewMemoryStore(time.Hour), nil, classes.NewRepository(conn), testLogger())
}

func newSettingsService(conn *gorm.DB) *settings.Service {
	return settings.NewService(settings.NewRepository(conn))
}

func seedClass(t *testing.T, conn *gorm.DB, specialID string, price string) models.Class {
	t.Helper()
	row := models.Class{
		SpecialID:    specialID,
		MainCategory: "Carpet",
		Quality:      "Premium",
		ClassName:    "Persian " + specialID,
	}
	if price != "" {
		value := decimal.RequireFromString(price)
		row.ClassPrice = &value
	}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return row
}

// routeContext injects chi URL params the way the router would.
func routeContext(ctx context.Context, params map[string]string) context.Context {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}
