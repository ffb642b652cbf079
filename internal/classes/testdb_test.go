package classes

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cillii/catalog-backend/pkg/db/models"
	"github.com/cillii/catalog-backend/pkg/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(&models.Class{}, &models.Setting{}))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// fakeVideoStore records removals instead of touching disk.
type fakeVideoStore struct {
	removed []string
	failOn  string
}

func (f *fakeVideoStore) Remove(publicPath string) error {
	if f.failOn != "" && publicPath == f.failOn {
		return fmt.Errorf("unlink %s: boom", publicPath)
	}
	f.removed = append(f.removed, publicPath)
	return nil
}

func (f *fakeVideoStore) RemoveMany(publicPaths []string) error {
	for _, p := range publicPaths {
		if err := f.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeVideoStore) IsLocal(publicPath string) bool {
	return len(publicPath) > 9 && publicPath[:9] == "/uploads/"
}
