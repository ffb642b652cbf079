package cart

import "context"

// Line is one cart entry as persisted: a product reference and a quantity.
// Enrichment against the catalog happens at read time.
type Line struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Store is the authoritative per-session cart state.
type Store interface {
	Lines(ctx context.Context, sessionID string) ([]Line, error)
	SaveLines(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}

// Mirror receives a best-effort replica of every cart write. Implementations
// must never be treated as a source of truth.
type Mirror interface {
	Write(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}
