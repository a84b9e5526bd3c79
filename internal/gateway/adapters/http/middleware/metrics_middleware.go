package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"blogcore/pkg/metrics"
)

// NewMetricsMiddleware записывает длительность запросов в гистограмму по шаблону маршрута.
func NewMetricsMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(ctx.Method(), ctx.Route().Path, strconv.Itoa(ctx.Response().StatusCode())).
			Observe(time.Since(start).Seconds())

		return err
	}
}
