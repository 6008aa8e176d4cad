package console

import (
	"context"
	"sync"
)

// Holder is a swappable reference to the active bridge. Connection
// settings can change at runtime; everything long-lived goes through the
// holder so a re-initialized bridge takes effect everywhere at once.
type Holder struct {
	mu sync.RWMutex
	b  *Bridge
}

func NewHolder(b *Bridge) *Holder {
	return &Holder{b: b}
}

// Get returns the current bridge
func (h *Holder) Get() *Bridge {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.b
}

// Set swaps in a new bridge
func (h *Holder) Set(b *Bridge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.b = b
}

// SendCommand delegates to the current bridge
func (h *Holder) SendCommand(ctx context.Context, command string) CommandResult {
	return h.Get().SendCommand(ctx, command)
}

// CreateBackup delegates to the current bridge
func (h *Holder) CreateBackup(ctx context.Context, name string) BackupResult {
	return h.Get().CreateBackup(ctx, name)
}
