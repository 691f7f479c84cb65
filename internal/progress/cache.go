package progress

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	viewsCacheKeyPrefix = "goal-views::"
	DefaultViewsTTL     = 30 * time.Second
)

// ViewsCache keeps computed goal views per user for a short TTL.
// Every Invalidate bumps the user's generation; views computed against an
// older generation are never stored.
type ViewsCache struct {
	cache *freecache.Cache
	ttl   time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

func NewViewsCache(sizeMB int, ttl time.Duration) *ViewsCache {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	if ttl <= 0 {
		ttl = DefaultViewsTTL
	}
	return &ViewsCache{
		cache:       freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:         ttl,
		generations: make(map[string]uint64),
	}
}

func (c *ViewsCache) Get(userID string) ([]ChallengeGoalView, bool) {
	data, err := c.cache.Get(cacheKey(userID))
	if err != nil {
		return nil, false
	}

	var views []ChallengeGoalView
	if err := json.Unmarshal(data, &views); err != nil {
		log.Errorf("goal views cache, unmarshal views of user [%s]: %s", userID, err)
		c.Invalidate(userID)
		return nil, false
	}
	return views, true
}

// Generation is read before computing views and handed back to SetIfCurrent.
func (c *ViewsCache) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

// SetIfCurrent stores the views unless the user was invalidated after
// generation was read. It reports whether the views were stored.
func (c *ViewsCache) SetIfCurrent(userID string, generation uint64, views []ChallengeGoalView) bool {
	data, err := json.Marshal(views)
	if err != nil {
		log.Errorf("goal views cache, marshal views of user [%s]: %s", userID, err)
		return false
	}

	expireSeconds := int(c.ttl.Seconds())
	if expireSeconds < 1 {
		expireSeconds = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != generation {
		log.Debugf("goal views cache, views of user [%s] outdated by an invalidation, not stored", userID)
		return false
	}
	if err := c.cache.Set(cacheKey(userID), data, expireSeconds); err != nil {
		// entry larger than 1/1024 of the cache
		log.Warnf("goal views cache, set views of user [%s]: %s", userID, err)
		return false
	}
	return true
}

func (c *ViewsCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	c.cache.Del(cacheKey(userID))
}

func cacheKey(userID string) []byte {
	return []byte(viewsCacheKeyPrefix + userID)
}
