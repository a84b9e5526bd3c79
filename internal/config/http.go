package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `env:"PORT" env-default:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimit    int           `env:"HTTP_BODY_LIMIT" env-default:"1048576"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsConfig - адрес отдельного сервера /metrics.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" env-default:"true"`
	Host    string `env:"METRICS_HOST" env-default:"0.0.0.0"`
	Port    int    `env:"METRICS_PORT" env-default:"9090"`
}

// GetAddress возвращает адрес сервера метрик.
func (c *MetricsConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
