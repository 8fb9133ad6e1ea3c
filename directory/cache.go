package directory

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Lister is the slice of the directory client the cache needs
type Lister interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
}

// Cache keeps the member listing in memory with a TTL and mirrors it to a
// disk snapshot. The listing is treated as read-only after fetch; the snapshot
// lets the app keep serving suggestions across restarts while the store is
// unreachable.
type Cache struct {
	client Lister
	ttl    time.Duration
	path   string

	mu        sync.RWMutex
	members   []models.Member
	fetchedAt time.Time
}

// NewCache creates a listing cache backed by the given client. cacheFolder may
// be empty to disable the disk snapshot.
func NewCache(client Lister, ttl time.Duration, cacheFolder string) *Cache {
	c := &Cache{client: client, ttl: ttl}
	if cacheFolder != "" {
		c.path = filepath.Join(cacheFolder, "members.json")
	}
	return c
}

// Members returns the member listing in store order, refetching when the TTL
// has lapsed. A failed refetch falls back to the last good listing, then to
// the disk snapshot.
func (c *Cache) Members(ctx context.Context) ([]models.Member, error) {
	c.mu.RLock()
	fresh := c.members != nil && time.Since(c.fetchedAt) < c.ttl
	members := c.members
	c.mu.RUnlock()

	if fresh {
		return members, nil
	}

	listed, err := c.client.ListMembers(ctx)
	if err != nil {
		if members != nil {
			utils.Log.Warn("Directory listing refresh failed, serving stale listing: %v", err)
			return members, nil
		}
		if snapshot := c.loadSnapshot(); snapshot != nil {
			utils.Log.Warn("Directory listing fetch failed, serving disk snapshot: %v", err)
			c.store(snapshot, time.Time{})
			return snapshot, nil
		}
		return nil, err
	}

	c.store(listed, time.Now())
	if c.path != "" {
		if serr := utils.SaveCache(c.path, listed); serr != nil {
			utils.Log.Warn("Failed to write member listing snapshot: %v", serr)
		}
	}

	return listed, nil
}

// Invalidate drops the in-memory listing so the next read refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.members = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *Cache) store(members []models.Member, fetchedAt time.Time) {
	c.mu.Lock()
	c.members = members
	c.fetchedAt = fetchedAt
	c.mu.Unlock()
}

func (c *Cache) loadSnapshot() []models.Member {
	if c.path == "" {
		return nil
	}
	var members []models.Member
	if err := utils.LoadCache(c.path, &members); err != nil {
		return nil
	}
	return members
}
