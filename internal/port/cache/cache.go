package cache

import (
	"context"
	"time"
)

// CacheRepository is the key-value store the service keeps draft
// snapshots, the user record and read-through caches in. A zero ttl
// means the value does not expire.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

const ErrNotFound = CacheError("key not found in cache")
