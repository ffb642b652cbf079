package orders

import "sync"

// History keeps each session's placed orders in memory, newest first, capped
// so an abandoned session cannot grow without bound.
type History struct {
	mu   sync.Mutex
	cap  int
	byID map[string][]Export
}

func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = 50
	}
	return &History{cap: cap, byID: make(map[string][]Export)}
}

func (h *History) Add(sessionID string, export Export) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append([]Export{export}, h.byID[sessionID]...)
	if len(entries) > h.cap {
		entries = entries[:h.cap]
	}
	h.byID[sessionID] = entries
}

func (h *History) List(sessionID string) []Export {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.byID[sessionID]
	out := make([]Export, len(entries))
	copy(out, entries)
	return out
}

// Delete removes one order from the session's history and reports whether it
// was present.
func (h *History) Delete(sessionID string, orderID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.byID[sessionID]
	for i, entry := range entries {
		if entry.OrderID == orderID {
			h.byID[sessionID] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}
