// Package cache реализует cache-aside поверх kv.Store.
//
// Значения в кэше всегда производные: их можно пересчитать из основного хранилища,
// поэтому поврежденная запись трактуется как промах, а не как ошибка.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"blogcore/pkg/kv"
	"blogcore/pkg/logger"
	"blogcore/pkg/metrics"
)

const (
	deleteBatchSize = 500

	msgCacheHit         = "cache hit"
	msgCacheMiss        = "cache miss"
	msgCacheDecodeError = "cached value could not be decoded, recomputing"
	msgInvalidated      = "cache keys invalidated"

	errCtxReading      = "reading cache entry"
	errCtxEncoding     = "encoding cache entry"
	errCtxWriting      = "writing cache entry"
	errCtxInvalidating = "invalidating cache entry"
	errCtxScanning     = "enumerating cache keys"
)

// Cache хранит JSON-представления значений с ограниченным TTL.
type Cache struct {
	store      kv.Store
	defaultTTL time.Duration
}

// New создает кэш. defaultTTL применяется, когда вызывающий передает ttl <= 0.
func New(store kv.Store, defaultTTL time.Duration) *Cache {
	return &Cache{store: store, defaultTTL: defaultTTL}
}

// GetOrCompute возвращает значение из кэша или вычисляет его через compute
// и сохраняет на ttl. Ошибка compute возвращается как есть и не кэшируется.
//
// Конкурентные промахи по одному ключу могут вызвать compute несколько раз;
// если нужен single-flight, compute следует обернуть в lock.WithLock.
func GetOrCompute[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	compute func(context.Context) (T, error),
) (T, error) {
	var zero T
	log := logger.Log(ctx).With(zap.String("component", "cache"), zap.String("key", key))

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		decodeErr := json.Unmarshal([]byte(raw), &value)
		if decodeErr == nil {
			metrics.CacheRequests.WithLabelValues(metrics.ResultHit).Inc()
			log.Debug(ctx, msgCacheHit)
			return value, nil
		}
		metrics.CacheRequests.WithLabelValues(metrics.ResultDecodeError).Inc()
		log.Warn(ctx, msgCacheDecodeError, zap.Error(decodeErr))
	case errors.Is(err, kv.ErrNotFound):
		metrics.CacheRequests.WithLabelValues(metrics.ResultMiss).Inc()
		log.Debug(ctx, msgCacheMiss)
	default:
		return zero, fmt.Errorf("%s: %w", errCtxReading, err)
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		return zero, err
	}

	return value, nil
}

// Set сериализует value и записывает его с TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxEncoding, err)
	}

	if err := c.store.Set(ctx, key, string(payload), ttl); err != nil {
		return fmt.Errorf("%s: %w", errCtxWriting, err)
	}
	return nil
}

// Invalidate удаляет указанные ключи.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	n, err := c.store.Delete(ctx, keys...)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxInvalidating, err)
	}
	metrics.CacheInvalidatedKeys.Add(float64(n))
	return nil
}

// InvalidateByPattern удаляет все ключи, совпадающие с glob-шаблоном на момент перечисления.
// Ключи, созданные после перечисления, могут остаться: они ограничены собственным TTL.
func (c *Cache) InvalidateByPattern(ctx context.Context, pattern string) (int64, error) {
	keys, err := c.store.Keys(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errCtxScanning, err)
	}

	var deleted int64
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		n, err := c.store.Delete(ctx, keys[start:end]...)
		if err != nil {
			return deleted, fmt.Errorf("%s: %w", errCtxInvalidating, err)
		}
		deleted += n
	}

	metrics.CacheInvalidatedKeys.Add(float64(deleted))
	logger.Log(ctx).Debug(ctx, msgInvalidated, zap.String("pattern", pattern), zap.Int64("deleted", deleted))
	return deleted, nil
}
