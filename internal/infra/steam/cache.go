package steam

import (
	"context"
	"strconv"
	"time"

	"kit-inventory/internal/domain/steam"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// PriceCache keeps recent price lookups. A miss or a cache failure both read as a miss.
type PriceCache interface {
	Get(ctx context.Context, appID int64) (steam.Price, bool)
	Set(ctx context.Context, appID int64, p steam.Price)
}

func cacheKey(appID int64) string {
	return "steam:price:" + strconv.FormatInt(appID, 10)
}

type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: cache.New(ttl, ttl+5*time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, appID int64) (steam.Price, bool) {
	v, ok := m.cache.Get(cacheKey(appID))
	if !ok {
		return steam.Price{}, false
	}
	p, ok := v.(steam.Price)
	return p, ok
}

func (m *MemoryCache) Set(_ context.Context, appID int64, p steam.Price) {
	m.cache.Set(cacheKey(appID), p, cache.DefaultExpiration)
}

// RedisCache shares lookups between instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, appID int64) (steam.Price, bool) {
	raw, err := r.rdb.Get(ctx, cacheKey(appID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("steam price cache read failed")
		}
		return steam.Price{}, false
	}
	var p steam.Price
	if err := json.Unmarshal(raw, &p); err != nil {
		return steam.Price{}, false
	}
	return p, true
}

func (r *RedisCache) Set(ctx context.Context, appID int64, p steam.Price) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, cacheKey(appID), raw, r.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("steam price cache write failed")
	}
}
