// Package api описывает варианты использования сервиса аутентификации.
package api

import (
	"context"

	"blogcore/internal/auth/domain/services"
)

// AuthUseCase определяет операции жизненного цикла сессии.
type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*services.TokenPair, error)

	Login(ctx context.Context, email, password string) (*services.TokenPair, error)

	// Issue выпускает новую пару токенов и сохраняет запись refresh-токена.
	Issue(ctx context.Context, userID, email, role string) (*services.TokenPair, error)

	RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	// Logout с пустым refreshToken завершает все сессии пользователя.
	Logout(ctx context.Context, userID, refreshToken string) error
}
