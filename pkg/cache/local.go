package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// localCache 基于 LRU 的进程内缓存
type localCache struct {
	config LocalConfig
	lru    *expirable.LRU[string, interface{}]
}

// NewLocalCache 创建本地缓存
func NewLocalCache(config LocalConfig) Cache {
	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = 1000
	}
	ttl := config.DefaultExpiration
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &localCache{
		config: config,
		lru:    expirable.NewLRU[string, interface{}](maxSize, nil, ttl),
	}
}

func (lc *localCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return lc.lru.Get(key)
}

// Set 设置缓存值。LRU 的过期时间是全局的，expiration 参数仅作接口兼容
func (lc *localCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	lc.lru.Add(key, value)
	return nil
}

func (lc *localCache) Delete(ctx context.Context, key string) error {
	lc.lru.Remove(key)
	return nil
}

func (lc *localCache) Exists(ctx context.Context, key string) bool {
	_, found := lc.lru.Get(key)
	return found
}

func (lc *localCache) Clear(ctx context.Context) error {
	lc.lru.Purge()
	return nil
}

func (lc *localCache) Close() error {
	lc.lru.Purge()
	return nil
}
