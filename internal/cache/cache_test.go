// Integration tests for the menu cache. They require a running Valkey
// instance and are skipped otherwise.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	client, err := ConnectValkey(
		envOr("VALKEY_HOST", "localhost"),
		envOr("VALKEY_PORT", "6379"),
		envOr("VALKEY_PASSWORD", ""),
	)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestMenuCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMenuCache(testClient(t), time.Minute)

	payload := []byte(`{"menu":[]}`)
	mc.Set(ctx, MenuKeyFull, payload)

	got, ok := mc.Get(ctx, MenuKeyFull)
	if !ok {
		t.Fatal("expected a cache hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload: got %q, want %q", got, payload)
	}
}

func TestMenuCacheMiss(t *testing.T) {
	ctx := context.Background()
	mc := NewMenuCache(testClient(t), time.Minute)

	if _, ok := mc.Get(ctx, "nonexistent-key"); ok {
		t.Error("expected a miss for an unset key")
	}
}

func TestMenuCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	mc := NewMenuCache(testClient(t), time.Minute)

	mc.Set(ctx, MenuKeyFull, []byte(`{"menu":[]}`))
	mc.Set(ctx, MenuKeyFeatured, []byte(`{"dishes":[]}`))

	mc.Invalidate(ctx)

	if _, ok := mc.Get(ctx, MenuKeyFull); ok {
		t.Error("full menu should be gone after Invalidate")
	}
	if _, ok := mc.Get(ctx, MenuKeyFeatured); ok {
		t.Error("featured list should be gone after Invalidate")
	}
}

func TestMenuCacheTTL(t *testing.T) {
	ctx := context.Background()
	mc := NewMenuCache(testClient(t), 100*time.Millisecond)

	mc.Set(ctx, MenuKeyFull, []byte(`{"menu":[]}`))
	time.Sleep(200 * time.Millisecond)

	if _, ok := mc.Get(ctx, MenuKeyFull); ok {
		t.Error("entry should expire after the TTL")
	}
}
