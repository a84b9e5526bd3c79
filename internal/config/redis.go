package config

import (
	"fmt"
	"time"

	"blogcore/pkg/db/redis"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host           string        `env:"REDIS_HOST" env-default:"localhost"`
	Port           int           `env:"REDIS_PORT" env-default:"6379"`
	Password       string        `env:"REDIS_PASSWORD" env-default:""`
	DB             int           `env:"REDIS_DB" env-default:"0"`
	PoolSize       int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdle        int           `env:"REDIS_MIN_IDLE" env-default:"2"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" env-default:"3s"`
	ReadTimeout    time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
	ScanCount      int64         `env:"REDIS_SCAN_COUNT" env-default:"100"`
}

// GetAddress возвращает адрес Redis в формате host:port.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientConfig преобразует настройки в конфигурацию клиента.
func (c *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		DB:             c.DB,
		PoolSize:       c.PoolSize,
		MinIdle:        c.MinIdle,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		ScanCount:      c.ScanCount,
	}
}
