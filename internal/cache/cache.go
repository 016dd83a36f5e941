// cache - read-through кэш фасетов и счётчиков каталога в Redis.
// Отзывы не меняют ни состав категорий, ни количество товаров, поэтому
// записи живут до истечения TTL без явной инвалидации.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/pribylovaa/catalog-service/internal/metrics"
	"github.com/pribylovaa/catalog-service/internal/models"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "catalog:"

// Cache - минимальный контракт кэша каталога.
type Cache interface {
	// Categories возвращает фасеты и признак их наличия в кэше.
	Categories(ctx context.Context) ([]models.Category, bool, error)
	// SetCategories сохраняет фасеты с TTL.
	SetCategories(ctx context.Context, cats []models.Category) error
	// Count возвращает счётчик по ключу и признак его наличия в кэше.
	Count(ctx context.Context, key string) (int64, bool, error)
	// SetCount сохраняет счётчик с TTL.
	SetCount(ctx context.Context, key string, n int64) error
	// Close закрывает клиент.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение. Если prefix пустой - используется "catalog:".
func NewRedisCache(ctx context.Context, redisURL, prefix string, ttl time.Duration) (Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return New(rdb, prefix, ttl), nil
}

// New оборачивает готовый клиент.
func New(rdb *redis.Client, prefix string, ttl time.Duration) Cache {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &redisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Categories(ctx context.Context) ([]models.Category, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key("categories")).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookup("categories", metrics.ResultMiss)
			return nil, false, nil
		}

		metrics.CacheLookup("categories", metrics.ResultError)
		return nil, false, err
	}

	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		metrics.CacheLookup("categories", metrics.ResultError)
		return nil, false, err
	}

	metrics.CacheLookup("categories", metrics.ResultHit)
	return cats, true, nil
}

func (c *redisCache) SetCategories(ctx context.Context, cats []models.Category) error {
	raw, err := json.Marshal(cats)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key("categories"), raw, c.ttl).Err()
}

// Храним как строку с десятичным числом.
func (c *redisCache) Count(ctx context.Context, key string) (int64, bool, error) {
	n, err := c.rdb.Get(ctx, c.key("count:"+key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookup("count", metrics.ResultMiss)
			return 0, false, nil
		}

		metrics.CacheLookup("count", metrics.ResultError)
		return 0, false, err
	}

	metrics.CacheLookup("count", metrics.ResultHit)
	return n, true, nil
}

func (c *redisCache) SetCount(ctx context.Context, key string, n int64) error {
	return c.rdb.Set(ctx, c.key("count:"+key), strconv.FormatInt(n, 10), c.ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

// Nop - кэш-заглушка, когда Redis не настроен: всегда промах.
type Nop struct{}

func (Nop) Categories(context.Context) ([]models.Category, bool, error) { return nil, false, nil }
func (Nop) SetCategories(context.Context, []models.Category) error      { return nil }
func (Nop) Count(context.Context, string) (int64, bool, error)          { return 0, false, nil }
func (Nop) SetCount(context.Context, string, int64) error               { return nil }
func (Nop) Close() error                                                { return nil }
