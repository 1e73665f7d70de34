package lookup

import (
	"context"
	"sync"
	"time"
)

type cachedInfo struct {
	info      *ProductInfo
	expiresAt time.Time
}

// Cache remembers the results of another Source for a fixed TTL. Misses are
// cached too; errors are not.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cachedInfo
}

// NewCache wraps source with an in-memory cache
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedInfo),
	}
}

func (c *Cache) Name() string { return c.source.Name() }

func (c *Cache) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[barcode]
	if ok && now.After(entry.expiresAt) {
		delete(c.entries, barcode)
		ok = false
	}
	c.mu.Unlock()

	if ok {
		return copyInfo(entry.info), nil
	}

	info, err := c.source.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[barcode] = cachedInfo{info: copyInfo(info), expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return info, nil
}

func copyInfo(info *ProductInfo) *ProductInfo {
	if info == nil {
		return nil
	}
	cp := *info
	return &cp
}
