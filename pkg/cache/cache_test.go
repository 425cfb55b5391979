package cache

import (
	"context"
	"testing"
	"time"
)

func TestLocalCache(t *testing.T) {
	config := LocalConfig{
		MaxSize:           100,
		DefaultExpiration: 5 * time.Minute,
	}

	cache := NewLocalCache(config)
	defer cache.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test_key"
		value := "test_value"

		err := cache.Set(ctx, key, value, time.Minute)
		if err != nil {
			t.Errorf("Failed to set cache: %v", err)
		}

		if retrieved, exists := cache.Get(ctx, key); !exists {
			t.Error("Cache value not found")
		} else if retrieved != value {
			t.Errorf("Expected %v, got %v", value, retrieved)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := "delete_key"
		if err := cache.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}

		if err := cache.Delete(ctx, key); err != nil {
			t.Errorf("Failed to delete cache: %v", err)
		}
		if cache.Exists(ctx, key) {
			t.Error("Cache value still exists after delete")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := cache.Set(ctx, "a", 1, time.Minute); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		if err := cache.Clear(ctx); err != nil {
			t.Errorf("Failed to clear cache: %v", err)
		}
		if cache.Exists(ctx, "a") {
			t.Error("Cache value still exists after clear")
		}
	})

	t.Run("Eviction", func(t *testing.T) {
		small := NewLocalCache(LocalConfig{MaxSize: 2, DefaultExpiration: time.Minute})
		defer small.Close()

		_ = small.Set(ctx, "k1", 1, time.Minute)
		_ = small.Set(ctx, "k2", 2, time.Minute)
		_ = small.Set(ctx, "k3", 3, time.Minute)

		if small.Exists(ctx, "k1") {
			t.Error("Oldest entry should have been evicted")
		}
		if !small.Exists(ctx, "k3") {
			t.Error("Newest entry missing")
		}
	})
}

func TestGoCache(t *testing.T) {
	cache := NewGoCache(LocalConfig{
		DefaultExpiration: 50 * time.Millisecond,
		CleanupInterval:   time.Minute,
	})
	defer cache.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		if v, ok := cache.Get(ctx, "key"); !ok || v != "value" {
			t.Errorf("Expected value, got %v (found=%v)", v, ok)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := cache.Set(ctx, "short", "gone", 20*time.Millisecond); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		time.Sleep(40 * time.Millisecond)
		if _, ok := cache.Get(ctx, "short"); ok {
			t.Error("Entry should have expired")
		}
	})
}

func TestNewCacheFactory(t *testing.T) {
	t.Run("defaults to local", func(t *testing.T) {
		c, err := NewCache(Config{})
		if err != nil {
			t.Fatalf("Failed to create cache: %v", err)
		}
		defer c.Close()
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := NewCache(Config{Type: "memcached"}); err == nil {
			t.Error("Expected error for unknown cache type")
		}
	})
}
