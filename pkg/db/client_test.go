package db

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/cillii/catalog-backend/pkg/config"
	"github.com/cillii/catalog-backend/pkg/db/models"
	"github.com/cillii/catalog-backend/pkg/logger"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.DBConfig{
		Path:         filepath.Join(t.TempDir(), "catalog.sqlite"),
		MaxOpenConns: 1,
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	client, err := New(context.Background(), cfg, logg)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})
	return client
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected New to fail without a database path")
	}
}

func TestAutoMigrateCreatesCatalogTables(t *testing.T) {
	client := newTestClient(t)
	if err := client.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	class := models.Class{SpecialID: "CR01", MainCategory: "Carpet"}
	if err := client.DB().Create(&class).Error; err != nil {
		t.Fatalf("insert class failed: %v", err)
	}
	if class.ID == 0 {
		t.Fatal("expected class id to be assigned")
	}

	setting := models.Setting{Key: "lastOrderId", Value: "1000"}
	if err := client.DB().Create(&setting).Error; err != nil {
		t.Fatalf("insert setting failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Class{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 class, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
