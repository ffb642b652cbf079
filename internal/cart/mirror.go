package cart

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/redis"
)

// RedisMirror replicates cart state into redis so an operator can inspect
// live carts and a future multi-instance deployment has somewhere to start.
// Every failure is reported as SyncDegraded; callers log and move on.
type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMirror(client *redis.Client, ttl time.Duration) *RedisMirror {
	return &RedisMirror{client: client, ttl: ttl}
}

func (m *RedisMirror) Write(ctx context.Context, sessionID string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSyncDegraded, err, "encoding cart mirror payload")
	}
	if err := m.client.Set(ctx, m.client.CartKey(sessionID), payload, m.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSyncDegraded, err, "writing cart mirror")
	}
	return nil
}

func (m *RedisMirror) Delete(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, m.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSyncDegraded, err, "deleting cart mirror")
	}
	return nil
}

// NoopMirror is used when redis is not configured.
type NoopMirror struct{}

func (NoopMirror) Write(ctx context.Context, sessionID string, lines []Line) error { return nil }

func (NoopMirror) Delete(ctx context.Context, sessionID string) error { return nil }
