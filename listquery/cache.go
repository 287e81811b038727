package listquery

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the injected cache abstraction of the engine. Ownership, sharing
// and lifetime are construction-time decisions of whichever component wires
// a list endpoint; entries are immutable once written.
type Cache interface {
	Get(key string) (*Page, bool)
	Set(key string, page *Page)
	DeleteByPrefix(prefix string)
	Len() int
}

// MemoryCache is a process-local Cache backed by go-cache. There is no
// janitor goroutine: expired entries are rejected on read and swept
// opportunistically on write once the store exceeds maxSize. Invalidation
// is best-effort and eventually consistent across concurrent requests.
type MemoryCache struct {
	ttl     time.Duration
	maxSize int
	store   *gocache.Cache
}

func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	return &MemoryCache{ttl: ttl, maxSize: maxSize, store: gocache.New(ttl, 0)}
}

func (c *MemoryCache) Get(key string) (*Page, bool) {
	value, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	page, ok := value.(*Page)
	if !ok {
		return nil, false
	}
	return page, true
}

func (c *MemoryCache) Set(key string, page *Page) {
	c.store.Set(key, page, gocache.DefaultExpiration)
	if c.maxSize > 0 && c.store.ItemCount() > c.maxSize {
		c.store.DeleteExpired()
	}
}

func (c *MemoryCache) DeleteByPrefix(prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
