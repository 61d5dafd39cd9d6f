package subscription

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// statusCache is a TTL-bounded cache for active-status lookups so command
// gating does not hit the store on every interaction. Entries are
// invalidated on any mutation of the subscriber's record; the TTL also keeps
// a stale "active" from outliving an expiry by more than one cache window.
type statusCache struct {
	lru *expirable.LRU[string, bool]
}

func newStatusCache(size int, ttl time.Duration) *statusCache {
	return &statusCache{
		lru: expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

func (c *statusCache) Get(subscriberID string) (bool, bool) {
	return c.lru.Get(subscriberID)
}

func (c *statusCache) Set(subscriberID string, active bool) {
	c.lru.Add(subscriberID, active)
}

func (c *statusCache) Invalidate(subscriberID string) {
	c.lru.Remove(subscriberID)
}
