package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

// registry хранит логгер процесса и запасной логгер для кода, который
// выполняется до настройки логирования.
type registry struct {
	mu       sync.RWMutex
	process  *Logger
	fallback *Logger
}

var loggers = &registry{fallback: newFallback()}

func newFallback() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{l: zl.With(zap.String("logger", "fallback"))}
}

// NewContext привязывает логгер к контексту.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// SetGlobalLogger задает логгер процесса. nil возвращает к запасному логгеру.
func SetGlobalLogger(l *Logger) {
	loggers.mu.Lock()
	loggers.process = l
	loggers.mu.Unlock()
}

// Log возвращает логгер контекста, затем логгер процесса, затем запасной.
func Log(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*Logger); ok && l != nil {
			return l
		}
	}

	loggers.mu.RLock()
	defer loggers.mu.RUnlock()
	if loggers.process != nil {
		return loggers.process
	}
	return loggers.fallback
}
