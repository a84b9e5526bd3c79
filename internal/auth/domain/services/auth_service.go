// Package services содержит доменные типы и ошибки аутентификации.
package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrUserInactive          = errors.New("user account is disabled")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
	ErrForbidden             = errors.New("operation not permitted")
	ErrCannotModifySelf      = errors.New("administrators cannot modify their own account")
	ErrOperationInProgress   = errors.New("another operation on this resource is in progress")
)

// Исходы ротации refresh-токена. Каждый исход дополнительно оборачивается в
// ErrRefreshFailed, чтобы внешний слой не мог отличить их друг от друга.
var (
	ErrRefreshFailed         = errors.New("refresh failed")
	ErrTokenInvalid          = errors.New("refresh token is malformed or expired")
	ErrTokenRevoked          = errors.New("refresh token has been revoked")
	ErrTokenUnknown          = errors.New("refresh token is not recognized")
	ErrUserInactiveOrMissing = errors.New("user is missing or disabled")
)

// TokenPair представляет пару токенов аутентификации.
// Сроки жизни указаны в секундах.
type TokenPair struct {
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	AccessExpiresIn  int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// RefreshToken - запись о выданном и еще не использованном refresh-токене.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
