package config

import (
	"time"

	"blogcore/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	Mode       string `env:"LOG_MODE" env-default:"development"`
	File       string `env:"LOG_FILE" env-default:""`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" env-default:"30"`
}

// GetEnvironment получает строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == "production" {
		return logger.Production
	}
	return logger.Development
}

// Options возвращает опции логгера, в том числе файловый вывод, если задан LOG_FILE.
func (l *LoggingConfig) Options() []logger.Option {
	if l.File == "" {
		return nil
	}
	return []logger.Option{logger.WithFile(logger.FileOptions{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	})}
}

// ShutdownConfig содержит настройки для graceful shutdown.
type ShutdownConfig struct {
	Timeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s"`
}
