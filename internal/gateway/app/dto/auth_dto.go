// Package dto содержит объекты передачи данных HTTP API.
package dto

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest содержит данные для обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest содержит данные для выхода. Без refreshToken завершаются все сессии.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// MessageResponse - ответ без полезной нагрузки.
type MessageResponse struct {
	Message string `json:"message"`
}
