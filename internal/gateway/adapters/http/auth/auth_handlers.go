// Package auth содержит HTTP обработчики регистрации, входа и управления сессиями.
package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"blogcore/internal/auth/ports/api"
	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/internal/gateway/app/dto"
	"blogcore/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister      = "auth handler: register"
	LogHandlerLogin         = "auth handler: login"
	LogHandlerRefreshTokens = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerLogout        = "auth handler: logout"

	msgLoggedOut = "logged out"
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	authUseCase api.AuthUseCase
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authUseCase api.AuthUseCase) *Handler {
	return &Handler{
		authUseCase: authUseCase,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := web.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	pair, err := h.authUseCase.Register(requestCtx, req.Email, req.Username, req.Password)
	if err != nil {
		return fmt.Errorf("registering user: %w", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(pair)
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := web.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	pair, err := h.authUseCase.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	return ctx.JSON(pair)
}

// RefreshTokens обменивает refresh-токен на новую пару. Любой отказ отдается как
// 401 "refresh failed" без уточнения причины.
func (h *Handler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := web.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRefreshTokens)

	var req dto.RefreshRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	pair, err := h.authUseCase.RefreshTokens(requestCtx, req.RefreshToken)
	if err != nil {
		return fmt.Errorf("refreshing tokens: %w", err)
	}

	return ctx.JSON(pair)
}

// Logout завершает сессию с переданным refresh-токеном или все сессии пользователя.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := web.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogout)

	identity, ok := web.CurrentIdentity(ctx)
	if !ok {
		return web.ErrUnauthorized
	}

	var req dto.LogoutRequest
	if err := web.BindOptional(ctx, &req); err != nil {
		return err
	}

	if err := h.authUseCase.Logout(requestCtx, identity.UserID, req.RefreshToken); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return ctx.JSON(dto.MessageResponse{Message: msgLoggedOut})
}
