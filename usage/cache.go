package usage

import (
	"sync"
	"time"
)

// snapshotCache is a single-slot memo: at most one (key, snapshot) pair
// exists at a time, and a fetch under a different key evicts it
// unconditionally. It throttles repeat fetches rather than caching for
// correctness, so entries live only a few seconds.
type snapshotCache struct {
	mu        sync.Mutex
	key       string
	expiresAt time.Time
	snapshot  *Snapshot
}

func (c *snapshotCache) get(key string, now time.Time) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || c.key != key || !c.expiresAt.After(now) {
		return nil, false
	}
	// callers get a copy so they cannot poison later hits
	return c.snapshot.clone(), true
}

func (c *snapshotCache) put(key string, snapshot *Snapshot, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = key
	c.snapshot = snapshot.clone()
	c.expiresAt = expiresAt
}

func (c *snapshotCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = ""
	c.snapshot = nil
	c.expiresAt = time.Time{}
}
