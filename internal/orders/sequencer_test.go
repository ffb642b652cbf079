package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/pkg/db/models"
)

func setupSettingsRepo(t *testing.T) *settings.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}))
	return settings.NewRepository(conn)
}

func TestSequencerStartsAtConfiguredID(t *testing.T) {
	seq := NewSequencer(setupSettingsRepo(t), 1000)
	ctx := context.Background()

	for _, want := range []int64{1000, 1001, 1002} {
		got, err := seq.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSequencerPeekReportsLastIssued(t *testing.T) {
	seq := NewSequencer(setupSettingsRepo(t), 1000)
	ctx := context.Background()

	// Nothing issued yet: peek reports the sequence start, repeatably.
	for i := 0; i < 2; i++ {
		peeked, err := seq.Peek(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), peeked)
	}

	issued, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), issued)

	// Peek now reflects the issued id without advancing the counter.
	peeked, err := seq.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), peeked)

	next, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), next)
}

func TestSequencerPeekRecoversFromCorruptCounter(t *testing.T) {
	repo := setupSettingsRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "lastOrderId", "garbage"))

	seq := NewSequencer(repo, 1000)
	peeked, err := seq.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), peeked)
}

func TestSequencerResumesFromStoredCounter(t *testing.T) {
	repo := setupSettingsRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "lastOrderId", "2500"))

	seq := NewSequencer(repo, 1000)
	got, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2501), got)
}

func TestSequencerRecoversFromCorruptCounter(t *testing.T) {
	repo := setupSettingsRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "lastOrderId", "garbage"))

	seq := NewSequencer(repo, 1000)
	got, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}
