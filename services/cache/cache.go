package cache

import "errors"

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = errors.New("cache: miss")

// Cache stores small transient markers shared between runs, such as
// fetch cooldowns after a bot challenge.
type Cache interface {
	// Get returns the value for key or ErrCacheMiss
	Get(key string) ([]byte, error)

	// Set stores value under key with a TTL in seconds (0 means no expiry)
	Set(key string, value []byte, ttl int32) error

	// Delete removes key, ignoring missing keys
	Delete(key string) error
}
