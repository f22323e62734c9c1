package service

import (
	"sync"

	"github.com/m3rciful/wishbot/internal/models"
)

// WishCache holds per-user wish list snapshots. Entries never expire and are
// dropped with Invalidate whenever the user's wishes change.
//
// A loader reads Generation before querying the store and stores the result
// with SetIfUnchanged, so a load that raced with a write never outlives it.
type WishCache interface {
	Get(userID int64) ([]models.Wish, bool)
	Generation(userID int64) uint64
	SetIfUnchanged(userID int64, gen uint64, wishes []models.Wish) bool
	Invalidate(userID int64)
}

// MemoryCache is a process-local WishCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int64][]models.Wish
	gens    map[int64]uint64
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[int64][]models.Wish),
		gens:    make(map[int64]uint64),
	}
}

// Get returns a copy of the cached snapshot.
func (c *MemoryCache) Get(userID int64) ([]models.Wish, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	return append([]models.Wish(nil), w...), true
}

// Generation returns the invalidation counter of userID.
func (c *MemoryCache) Generation(userID int64) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[userID]
}

// SetIfUnchanged stores wishes only when userID has not been invalidated since gen was read.
func (c *MemoryCache) SetIfUnchanged(userID int64, gen uint64, wishes []models.Wish) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return false
	}
	c.entries[userID] = append([]models.Wish(nil), wishes...)
	return true
}

func (c *MemoryCache) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.gens[userID]++
	c.mu.Unlock()
}

// Len reports the number of cached users.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
