package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryCacheCopiesValues(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	value := []byte(`[{"id":"a"}]`)
	if err := c.Set(ctx, "barber_products", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'

	got, ok, err := c.Get(ctx, "barber_products")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Fatalf("expected stored copy, got %s", got)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestSQLiteCacheSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cache.db")
	ctx := context.Background()

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Set(ctx, "barber_transactions", []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "barber_transactions", []byte(`[1,2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, ok, err := reopened.Get(ctx, "barber_transactions")
	if err != nil || !ok {
		t.Fatalf("expected hit after reopen, got ok=%v err=%v", ok, err)
	}
	if string(got) != `[1,2]` {
		t.Fatalf("expected latest value, got %s", got)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("BARBERCASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set BARBERCASH_TEST_REDIS_ADDR to run redis integration test")
	}
	ctx := context.Background()

	c := NewRedisCache(addr, "", 0, "barbercash-test:")
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := c.Set(ctx, "barber_users", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "barber_users")
	if err != nil || !ok || string(got) != `[]` {
		t.Fatalf("unexpected get result %q ok=%v err=%v", got, ok, err)
	}
}
