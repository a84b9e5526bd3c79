package config

import "time"

// CacheConfig задает сроки жизни записей кэша.
type CacheConfig struct {
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" env-default:"1h"`
	UserTTL    time.Duration `env:"CACHE_USER_TTL" env-default:"1h"`
	PostTTL    time.Duration `env:"CACHE_POST_TTL" env-default:"30m"`
	LockTTL    time.Duration `env:"CACHE_LOCK_TTL" env-default:"10s"`
}

// CleanupConfig задает расписание очистки просроченных refresh-токенов.
type CleanupConfig struct {
	Interval time.Duration `env:"CLEANUP_INTERVAL" env-default:"1h"`
	LockTTL  time.Duration `env:"CLEANUP_LOCK_TTL" env-default:"5m"`
}
