package cache

import (
	"context"
	"time"
)

// Cache is a get/set-with-TTL key-value store. Get returns (nil, false, nil)
// on a miss; errors are reserved for store failures, which callers propagate
// rather than treat as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
