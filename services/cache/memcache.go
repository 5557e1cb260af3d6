package cache

import (
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheCache is a Cache backed by a memcached server, letting several
// watcher processes share one cooldown state.
type MemcacheCache struct {
	client *memcache.Client
}

// NewMemcacheCache creates a cache talking to the given memcached address
func NewMemcacheCache(addr string) *MemcacheCache {
	return &MemcacheCache{client: memcache.New(addr)}
}

// Get returns the value for key or ErrCacheMiss
func (c *MemcacheCache) Get(key string) ([]byte, error) {
	item, err := c.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return item.Value, nil
}

// Set stores value under key with a TTL in seconds
func (c *MemcacheCache) Set(key string, value []byte, ttl int32) error {
	return c.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: ttl,
	})
}

// Delete removes key, ignoring missing keys
func (c *MemcacheCache) Delete(key string) error {
	err := c.client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}
