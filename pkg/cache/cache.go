// Package cache provides a small key-value caching abstraction backed by
// Redis. Callers that can run without a cache should treat a nil Cache as
// "caching disabled" rather than an error.
package cache

import "time"

// Cache defines the interface for caching services.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}
