package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blogcore/pkg/kv"
	"blogcore/pkg/logger"
)

const (
	LogConnecting = "connecting to Redis"
	LogConnected  = "successfully connected to Redis"
	LogClosing    = "closing Redis connection"

	ErrConnect          = "failed to connect to redis"
	ErrGet              = "failed to get value from redis"
	ErrSet              = "failed to set value in redis"
	ErrSetNX            = "failed to conditionally set value in redis"
	ErrDelete           = "failed to delete keys from redis"
	ErrScan             = "failed to scan keys in redis"
	ErrCompareAndDelete = "failed to compare-and-delete in redis"
	ErrClose            = "failed to close redis connection"
)

// compareAndDeleteScript удаляет ключ, только если его значение совпадает с ARGV[1].
var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// Client реализует kv.Store поверх go-redis.
type Client struct {
	rdb       redis.UniversalClient
	scanCount int64
}

var _ kv.Store = (*Client)(nil)

// NewClient подключается к Redis и проверяет соединение.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	log := logger.Log(ctx).With(zap.String("address", cfg.Address()), zap.Int("db", cfg.DB))
	log.Info(ctx, LogConnecting)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Error(ctx, ErrConnect, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	log.Info(ctx, LogConnected)
	return NewFromClient(rdb, cfg.ScanCount), nil
}

// NewFromClient оборачивает уже созданный клиент.
func NewFromClient(rdb redis.UniversalClient, scanCount int64) *Client {
	if scanCount <= 0 {
		scanCount = DefaultScanCount
	}
	return &Client{rdb: rdb, scanCount: scanCount}
}

// Get получает значение по ключу; kv.ErrNotFound если ключа нет.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("%s: %w", ErrGet, err)
	}
	return value, nil
}

// Set устанавливает значение с TTL. Нулевой TTL означает ключ без срока жизни.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrSet, err)
	}
	return nil
}

// SetNX устанавливает значение, только если ключ отсутствует.
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrSetNX, err)
	}
	return ok, nil
}

// Delete удаляет ключи и возвращает количество удаленных.
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrDelete, err)
	}
	return n, nil
}

// Keys перечисляет ключи по glob-шаблону через SCAN, не блокируя сервер как KEYS.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, c.scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrScan, err)
	}
	return keys, nil
}

// CompareAndDelete атомарно удаляет ключ, если его значение равно expected.
func (c *Client) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, c.rdb, []string{key}, expected).Int64()
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrCompareAndDelete, err)
	}
	return n == 1, nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close закрывает соединение с Redis.
func (c *Client) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrClose, err)
	}
	return nil
}
