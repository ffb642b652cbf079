package syncer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cillii/catalog-backend/internal/bulk"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/pkg/logger"
	"github.com/cillii/catalog-backend/pkg/metrics"
)

const (
	jobName         = "sheet_sync"
	defaultInterval = 5 * time.Minute
)

// ServiceParams configure the auto-sync service.
type ServiceParams struct {
	Logger     *logger.Logger
	Settings   *settings.Service
	Fetcher    *bulk.SheetFetcher
	Reconciler *bulk.Service
	Metrics    *metrics.SyncJobMetrics
	Interval   time.Duration
}

// Service polls the configured Google Sheet and reconciles it into the class
// store. The sheet URL and the enabled flag are re-read from settings on
// every tick, so an admin toggle takes effect without a restart.
type Service struct {
	logg       *logger.Logger
	settings   *settings.Service
	fetcher    *bulk.SheetFetcher
	reconciler *bulk.Service
	metrics    *metrics.SyncJobMetrics
	interval   time.Duration
	inFlight   atomic.Bool
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("sheet fetcher required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:       params.Logger,
		settings:   params.Settings,
		fetcher:    params.Fetcher,
		reconciler: params.Reconciler,
		metrics:    params.Metrics,
		interval:   interval,
	}, nil
}

// Run ticks until the context is canceled. A tick that arrives while the
// previous sync is still running is dropped, not queued.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "auto-sync service context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one sync cycle if none is in flight. Overlapping ticks are
// dropped, never queued.
func (s *Service) Tick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logg.Info(ctx, "previous sync still running; dropping tick")
		s.metrics.IncSkipped(jobName)
		return
	}
	defer s.inFlight.Store(false)

	start := time.Now()
	err := s.syncOnce(ctx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(jobName, duration)

	tickCtx := s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(tickCtx, "sheet sync failed", err)
		s.metrics.IncFailure(jobName)
		return
	}
	s.metrics.IncSuccess(jobName)
}

func (s *Service) syncOnce(ctx context.Context) error {
	sheets, err := s.settings.Sheets(ctx)
	if err != nil {
		return fmt.Errorf("reading sheet settings: %w", err)
	}
	if !sheets.AutoSync || sheets.URL == "" {
		return nil
	}

	sheet, err := s.fetcher.Fetch(ctx, sheets.URL)
	if err != nil {
		return fmt.Errorf("fetching sheet: %w", err)
	}

	result, err := s.reconciler.Reconcile(ctx, sheet, bulk.Options{})
	if err != nil {
		return fmt.Errorf("reconciling sheet: %w", err)
	}

	resultCtx := s.logg.WithFields(ctx, map[string]any{
		"processed": result.ProcessedCount,
		"skipped":   result.SkippedCount,
	})
	s.logg.Info(resultCtx, "sheet sync complete")
	return nil
}
