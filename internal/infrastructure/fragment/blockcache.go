package fragment

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/patrickmn/go-cache"

	"gift_parser/pkg/logx"
)

// BlockCache помнит, что fragment.com ответил 429, чтобы не стучаться туда до истечения блокировки.
type BlockCache interface {
	Blocked(ctx context.Context, key string) bool
	Block(ctx context.Context, key string, d time.Duration)
}

type MemoryBlockCache struct {
	c *cache.Cache
}

func NewMemoryBlockCache() MemoryBlockCache {
	return MemoryBlockCache{c: cache.New(cache.NoExpiration, time.Minute)}
}

func (m MemoryBlockCache) Blocked(_ context.Context, key string) bool {
	_, found := m.c.Get(key)

	return found
}

func (m MemoryBlockCache) Block(_ context.Context, key string, d time.Duration) {
	m.c.Set(key, struct{}{}, d)
}

// MemcacheBlockCache делит блокировку между всеми экземплярами сервиса.
type MemcacheBlockCache struct {
	client *memcache.Client
}

func NewMemcacheBlockCache(client *memcache.Client) MemcacheBlockCache {
	return MemcacheBlockCache{client: client}
}

func (m MemcacheBlockCache) Blocked(ctx context.Context, key string) bool {
	_, err := m.client.Get(key)

	switch {
	case err == nil:
		return true
	case errors.Is(err, memcache.ErrCacheMiss):
		return false
	default:
		// Недоступный memcache не должен останавливать разбор.
		logger(ctx).Warn("memcache.Get", slog.String("key", key), logx.Error(err))

		return false
	}
}

func (m MemcacheBlockCache) Block(ctx context.Context, key string, d time.Duration) {
	seconds := max(int32(d/time.Second), 1)

	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      []byte(strconv.Itoa(int(seconds))),
		Expiration: seconds,
	})
	if err != nil {
		logger(ctx).Warn("memcache.Set", slog.String("key", key), logx.Error(err))
	}
}
