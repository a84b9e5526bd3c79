package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/pkg/logger"
)

// NewLoggerMiddleware создает новое промежуточное ПО для логирования HTTP запросов.
// Ошибка обработчика передается в ErrorHandler приложения здесь же, чтобы в журнал
// попал итоговый статус ответа.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := web.Context(ctx)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Debug(requestCtx, "Request started")

		if err := ctx.Next(); err != nil {
			if handleErr := ctx.App().Config().ErrorHandler(ctx, err); handleErr != nil {
				log.Error(requestCtx, "Failed to handle request error", zap.Error(handleErr))
			}
		}

		logFields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if ctx.Response().StatusCode() >= fiber.StatusInternalServerError {
			log.Error(requestCtx, "Request failed", logFields...)
			return nil
		}

		log.Info(requestCtx, "Request completed", logFields...)
		return nil
	}
}
