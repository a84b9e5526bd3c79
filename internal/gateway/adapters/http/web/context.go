// Package web содержит общие для HTTP обработчиков функции: контекст запроса,
// разбор тела, отображение ошибок домена в HTTP-ответы.
package web

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"blogcore/internal/auth/domain/entities"
	"blogcore/pkg/logger"
)

// Ключи fiber.Locals.
const (
	LocalRequestID = "requestID"
	LocalIdentity  = "identity"
)

// Identity - пользователь, прошедший проверку access-токена.
type Identity struct {
	UserID string
	Email  string
	Role   entities.Role
}

// Context возвращает контекст запроса с привязанным request_id.
func Context(c fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()

	id, _ := c.Locals(LocalRequestID).(string)
	if id == "" {
		return ctx
	}

	return logger.ContextWithRequestID(ctx, id)
}

// SetIdentity сохраняет пользователя в контексте запроса.
func SetIdentity(c fiber.Ctx, identity Identity) {
	c.Locals(LocalIdentity, identity)
}

// CurrentIdentity возвращает пользователя, сохраненный middleware аутентификации.
func CurrentIdentity(c fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(LocalIdentity).(Identity)
	return identity, ok
}
