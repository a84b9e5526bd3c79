// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware принимает идентификатор из заголовка запроса, если он пригоден,
// иначе выдает новый, и возвращает его в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := logger.AcceptRequestID(ctx.Get(HeaderRequestID))
		ctx.Locals(web.LocalRequestID, id)
		ctx.Set(HeaderRequestID, id)

		return ctx.Next()
	}
}
