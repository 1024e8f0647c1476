package main

import (
	"context"
	"path/filepath"
	"testing"

	"barbercash/backend/internal/cache"
	"barbercash/backend/internal/config"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	if err := validateSecurityConfig(config.Config{AuthSecret: "short"}); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", SeedAdminPassword: "abc"})
	if err == nil {
		t.Fatalf("expected short seed admin password to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", SeedAdminPassword: "barbearia2024"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
	if err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"}); err != nil {
		t.Fatalf("expected unset seed password to pass, got %v", err)
	}
}

func TestOpenCacheSelectsDriver(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := openCache(ctx, config.Config{CacheDriver: "memory"})
	if err != nil || closeFn != nil {
		t.Fatalf("memory cache: err=%v", err)
	}
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Fatalf("expected memory cache, got %T", c)
	}

	path := filepath.Join(t.TempDir(), "cache.db")
	c, closeFn, err = openCache(ctx, config.Config{CacheDriver: "sqlite", CachePath: path})
	if err != nil {
		t.Fatalf("sqlite cache: %v", err)
	}
	defer closeFn()
	if _, ok := c.(*cache.SQLiteCache); !ok {
		t.Fatalf("expected sqlite cache, got %T", c)
	}

	if _, _, err := openCache(ctx, config.Config{CacheDriver: "mongo"}); err == nil {
		t.Fatalf("expected unknown driver to be rejected")
	}
	if _, _, err := openCache(ctx, config.Config{CacheDriver: "redis"}); err == nil {
		t.Fatalf("expected redis without address to be rejected")
	}
}
