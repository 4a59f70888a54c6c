package cache

import "time"

// Cache stores opaque content by key. Get returns nil content and a nil error
// when the key is not present.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, content []byte, duration time.Duration) error
}
