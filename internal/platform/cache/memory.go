package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryClient is an in-process Client bounded by entry count.
type MemoryClient struct {
	mu      sync.Mutex
	data    map[string]memoryEntry
	maxSize int
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryClient creates a memory cache holding at most maxSize entries.
func NewMemoryClient(maxSize int) *MemoryClient {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &MemoryClient{
		data:    make(map[string]memoryEntry),
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *MemoryClient) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if c.expired(entry) {
		delete(c.data, key)
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (c *MemoryClient) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxSize {
		c.sweep()
		if len(c.data) >= c.maxSize {
			c.evictOldest()
		}
	}

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.data[key] = entry
	return nil
}

func (c *MemoryClient) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

// Close is a no-op.
func (c *MemoryClient) Close() error { return nil }

// Len is the number of stored entries, expired ones included.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *MemoryClient) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (c *MemoryClient) sweep() {
	for key, e := range c.data {
		if c.expired(e) {
			delete(c.data, key)
		}
	}
}

// evictOldest drops the entry closest to expiry; entries without expiry go last.
func (c *MemoryClient) evictOldest() {
	var victim string
	var victimEntry memoryEntry
	found := false
	for key, e := range c.data {
		if !found || evictsBefore(e, key, victimEntry, victim) {
			victim, victimEntry, found = key, e, true
		}
	}
	if found {
		delete(c.data, victim)
	}
}

func evictsBefore(a memoryEntry, aKey string, b memoryEntry, bKey string) bool {
	switch {
	case a.expiresAt.IsZero() != b.expiresAt.IsZero():
		return b.expiresAt.IsZero()
	case !a.expiresAt.Equal(b.expiresAt):
		return a.expiresAt.Before(b.expiresAt)
	}
	return aKey < bKey
}
