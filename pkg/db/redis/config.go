// Package redis предоставляет реализацию kv.Store поверх Redis.
package redis

import (
	"fmt"
	"time"
)

// Значения по умолчанию, синхронизированные с env-default в конфигурации сервиса.
const (
	DefaultHost      = "localhost"
	DefaultPort      = 6379
	DefaultDB        = 0
	DefaultPoolSize  = 10
	DefaultTimeout   = 3 * time.Second
	DefaultScanCount = 100
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host           string
	Port           int
	Password       string
	DB             int
	PoolSize       int
	MinIdle        int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ScanCount      int64
}

// DefaultConfig возвращает конфигурацию Redis по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		DB:             DefaultDB,
		PoolSize:       DefaultPoolSize,
		ConnectTimeout: DefaultTimeout,
		ReadTimeout:    DefaultTimeout,
		WriteTimeout:   DefaultTimeout,
		ScanCount:      DefaultScanCount,
	}
}

// Address возвращает адрес в формате host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
