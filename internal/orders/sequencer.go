package orders

import (
	"context"
	"strconv"
	"sync"

	"github.com/cillii/catalog-backend/internal/settings"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

// lastOrderIDKey is the settings row the sequencer persists its counter in.
const lastOrderIDKey = "lastOrderId"

// Sequencer hands out monotonic order ids backed by the settings table. With
// no counter stored yet the first id issued is the configured start value.
type Sequencer struct {
	mu      sync.Mutex
	repo    *settings.Repository
	startID int64
}

func NewSequencer(repo *settings.Repository, startID int64) *Sequencer {
	return &Sequencer{repo: repo, startID: startID}
}

// Next issues the next order id and persists the advanced counter.
func (s *Sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.upcoming(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Put(ctx, lastOrderIDKey, strconv.FormatInt(id, 10)); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persisting order counter")
	}
	return id, nil
}

// Peek reports the last issued id without advancing the counter. With no
// counter stored yet it reports the configured start value.
func (s *Sequencer) Peek(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.repo.Get(ctx, lastOrderIDKey)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reading order counter")
	}
	if !ok {
		return s.startID, nil
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return s.startID, nil
	}
	return last, nil
}

func (s *Sequencer) upcoming(ctx context.Context) (int64, error) {
	raw, ok, err := s.repo.Get(ctx, lastOrderIDKey)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reading order counter")
	}
	if !ok {
		return s.startID, nil
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A corrupted counter restarts the sequence rather than blocking
		// every order.
		return s.startID, nil
	}
	return last + 1, nil
}
