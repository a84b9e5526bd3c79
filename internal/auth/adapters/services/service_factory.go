// Package services содержит адаптеры криптографии: подпись JWT и хэширование паролей.
package services

import (
	"blogcore/internal/auth/domain/services"
	ports "blogcore/internal/auth/ports/services"
	"blogcore/pkg/clock"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService ports.PasswordService
	tokenService    ports.TokenService
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(jwtConfig services.JWTConfig, bcryptCost int, clk clock.Clock) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(jwtConfig, clk),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() ports.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() ports.TokenService {
	return f.tokenService
}
