package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	slots     []string
	expiresAt time.Time
}

// MemorySlotCache is an in-process SlotCache used when no Redis URL is
// configured, and in tests.
type MemorySlotCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemorySlotCache creates an in-memory cache with the given TTL.
func NewMemorySlotCache(ttl time.Duration) *MemorySlotCache {
	return &MemorySlotCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *MemorySlotCache) GetBookedSlots(_ context.Context, doctorID, date string) ([]string, error) {
	key := slotKey(doctorID, date)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrMiss
	}

	out := make([]string, len(entry.slots))
	copy(out, entry.slots)
	return out, nil
}

func (c *MemorySlotCache) SetBookedSlots(_ context.Context, doctorID, date string, slots []string) error {
	stored := make([]string, len(slots))
	copy(stored, slots)

	c.mu.Lock()
	c.entries[slotKey(doctorID, date)] = memoryEntry{
		slots:     stored,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemorySlotCache) Invalidate(_ context.Context, doctorID, date string) error {
	c.mu.Lock()
	delete(c.entries, slotKey(doctorID, date))
	c.mu.Unlock()
	return nil
}
