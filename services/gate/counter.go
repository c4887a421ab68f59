package gate

import (
	"context"
	"sync"
	"time"
)

// Counter enforces a rolling-window cap for a key. RecordAndCheck prunes the
// window, rejects when the limit is already reached, and otherwise records
// the hit — so quota is consumed at admission time, not at completion.
type Counter interface {
	RecordAndCheck(ctx context.Context, key string, window time.Duration, limit int) (bool, error)
}

// MemoryCounter is a process-local Counter. Counts reset on restart, and in
// a multi-instance deployment each instance tracks its own window — the
// Redis counter is what makes the caps meaningful there.
type MemoryCounter struct {
	mu   sync.Mutex
	hits map[string][]time.Time

	// Now is the clock used for pruning; nil means time.Now.
	Now func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{hits: make(map[string][]time.Time)}
}

func (c *MemoryCounter) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *MemoryCounter) RecordAndCheck(ctx context.Context, key string, window time.Duration, limit int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	cutoff := now.Add(-window)

	kept := c.hits[key][:0]
	for _, ts := range c.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	c.hits[key] = kept

	if len(kept) >= limit {
		return false, nil
	}
	c.hits[key] = append(kept, now)
	return true, nil
}
