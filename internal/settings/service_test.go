package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cillii/catalog-backend/pkg/db/models"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}))
	return NewService(NewRepository(conn))
}

func TestColumnVisibilityDefaults(t *testing.T) {
	svc := setupService(t)

	visibility, err := svc.ColumnVisibility(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultColumnVisibility, visibility)
	assert.False(t, visibility["classNameArabic"])
	assert.True(t, visibility["classPrice"])
}

func TestColumnVisibilityRoundTrip(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	saved, err := svc.SaveColumnVisibility(ctx, map[string]bool{
		"classPrice":      false,
		"classNameArabic": true,
	})
	require.NoError(t, err)
	assert.False(t, saved["classPrice"])
	assert.True(t, saved["classNameArabic"])
	assert.True(t, saved["className"], "unmentioned keys keep their default")

	loaded, err := svc.ColumnVisibility(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestColumnVisibilityAllHiddenResets(t *testing.T) {
	svc := setupService(t)

	allHidden := map[string]bool{}
	for key := range DefaultColumnVisibility {
		allHidden[key] = false
	}

	saved, err := svc.SaveColumnVisibility(context.Background(), allHidden)
	require.NoError(t, err)
	assert.Equal(t, DefaultColumnVisibility, saved)
}

func TestSheetsSettingsRoundTrip(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	sheets, err := svc.Sheets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sheets.URL)
	assert.False(t, sheets.AutoSync)

	url := "  https://docs.google.com/spreadsheets/d/abc/edit "
	enabled := true
	require.NoError(t, svc.SaveSheets(ctx, &url, &enabled))

	sheets, err = svc.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", sheets.URL)
	assert.True(t, sheets.AutoSync)

	// Partial update keeps the other field.
	disabled := false
	require.NoError(t, svc.SaveSheets(ctx, nil, &disabled))
	sheets, err = svc.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", sheets.URL)
	assert.False(t, sheets.AutoSync)
}
