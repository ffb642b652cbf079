package cart

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps carts in process memory, one entry per session, with a
// sliding TTL. Sessions that stay idle past the TTL come back empty.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	byID map[string]memoryEntry
}

type memoryEntry struct {
	lines     []Line
	touchedAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		byID: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[sessionID]
	if !ok {
		return nil, nil
	}
	if m.now().Sub(entry.touchedAt) > m.ttl {
		delete(m.byID, sessionID)
		return nil, nil
	}
	out := make([]Line, len(entry.lines))
	copy(out, entry.lines)
	return out, nil
}

func (m *MemoryStore) SaveLines(ctx context.Context, sessionID string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.byID[sessionID] = memoryEntry{lines: stored, touchedAt: m.now()}
	m.sweepLocked()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, sessionID)
	return nil
}

// sweepLocked drops expired sessions opportunistically on writes so the map
// does not grow without bound. Caller holds the lock.
func (m *MemoryStore) sweepLocked() {
	cutoff := m.now().Add(-m.ttl)
	for id, entry := range m.byID {
		if entry.touchedAt.Before(cutoff) {
			delete(m.byID, id)
		}
	}
}
