package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
	svc "blogcore/internal/auth/ports/services"
	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "access token rejected"
	ErrorRoleDenied         = "role not allowed for route"
)

// NewAuthMiddleware проверяет Bearer access-токен по подписи и сроку действия
// и сохраняет пользователя в контексте запроса.
func NewAuthMiddleware(tokens svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := web.Context(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return web.ErrUnauthorized
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return web.ErrUnauthorized
		}

		claims, err := tokens.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return web.ErrUnauthorized
		}

		web.SetIdentity(ctx, web.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   entities.Role(claims.Role),
		})

		return ctx.Next()
	}
}

// RequireRole пропускает только пользователей с одной из ролей. Должно стоять после NewAuthMiddleware.
func RequireRole(roles ...entities.Role) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		identity, ok := web.CurrentIdentity(ctx)
		if !ok {
			return web.ErrUnauthorized
		}

		if !slices.Contains(roles, identity.Role) {
			requestCtx := web.Context(ctx)
			logger.Log(requestCtx).Debug(requestCtx, ErrorRoleDenied,
				zap.String("userID", identity.UserID), zap.String("role", string(identity.Role)))
			return services.ErrForbidden
		}

		return ctx.Next()
	}
}
