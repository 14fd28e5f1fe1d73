// menu.go provides a Valkey-backed cache for public menu JSON. The menu is
// read on every public page load but changes only when an admin edits
// dishes, so responses are cached with a short TTL and invalidated on any
// dish change event.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// menuKeyPrefix is the Valkey key prefix for cached menu payloads.
	menuKeyPrefix = "menu:"

	// DefaultMenuTTL is how long a menu payload stays cached.
	DefaultMenuTTL = 5 * time.Minute

	// MenuKeyFull is the cache key for the full grouped menu.
	MenuKeyFull = "full"

	// MenuKeyFeatured is the cache key for the featured dishes list.
	MenuKeyFeatured = "featured"
)

// MenuCache manages menu JSON caching in Valkey. Cache errors are logged
// and treated as misses — the request falls through to Postgres.
type MenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMenuCache creates a new menu cache backed by the given Valkey client.
func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	if ttl == 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuCache{client: client, ttl: ttl}
}

// Get retrieves a cached menu payload. Returns false on miss or error.
func (mc *MenuCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := mc.client.Get(ctx, menuKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("menu cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a menu payload with the configured TTL.
func (mc *MenuCache) Set(ctx context.Context, key string, payload []byte) {
	if err := mc.client.Set(ctx, menuKeyPrefix+key, payload, mc.ttl).Err(); err != nil {
		slog.Warn("menu cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached menu payloads. Called whenever a dish
// changes, since any cached view could be affected.
func (mc *MenuCache) Invalidate(ctx context.Context) {
	var cursor uint64
	for {
		keys, nextCursor, err := mc.client.Scan(ctx, cursor, menuKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("menu cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := mc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("menu cache delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("menu cache invalidated")
}
