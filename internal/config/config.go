// Package config содержит конфигурацию blogcore.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "blogcore/pkg/config"
	"blogcore/pkg/logger"
)

const (
	serviceName = "blogcore"

	LogConfigSummary    = "effective configuration"
	ErrFailedLoadConfig = "failed to load configuration"
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Cache    CacheConfig
	Cleanup  CleanupConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Shutdown ShutdownConfig
}

// Load загружает конфигурацию из envFile и переменных окружения.
func Load(ctx context.Context, envFile string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("metrics_address", cfg.Metrics.GetAddress()),
		zap.String("access_token_ttl", cfg.JWT.AccessTokenTTL),
		zap.String("refresh_token_ttl", cfg.JWT.RefreshTokenTTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.Timeout))

	return cfg, nil
}
