package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryAdapter is an in-process CacheProvider. Expired entries are never
// returned; a background sweep reclaims them.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryAdapter creates an in-memory cache. A positive sweepInterval starts
// a goroutine that removes expired entries until Close is called.
func NewMemoryAdapter(sweepInterval time.Duration) *MemoryAdapter {
	a := &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go a.sweepLoop(sweepInterval)
	}
	return a
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok || entry.expired(a.now()) {
		return nil, providers.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value; expirationSeconds <= 0 keeps it until deleted
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		entry.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	a.mu.Lock()
	a.entries[key] = entry
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a live key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	return err == nil, nil
}

// Len returns the number of stored entries, expired or not
func (a *MemoryAdapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Sweep removes expired entries and returns how many were dropped
func (a *MemoryAdapter) Sweep() int {
	now := a.now()
	removed := 0

	a.mu.Lock()
	for key, entry := range a.entries {
		if entry.expired(now) {
			delete(a.entries, key)
			removed++
		}
	}
	a.mu.Unlock()
	return removed
}

// Close stops the sweep goroutine
func (a *MemoryAdapter) Close() {
	a.stopOnce.Do(func() { close(a.stop) })
}

func (a *MemoryAdapter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Sweep()
		case <-a.stop:
			return
		}
	}
}
