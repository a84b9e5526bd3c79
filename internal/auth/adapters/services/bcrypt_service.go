package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"blogcore/internal/auth/domain/services"
	svc "blogcore/internal/auth/ports/services"
)

const (
	errCtxHashing   = "hashing password"
	errCtxComparing = "comparing password with stored hash"
)

// ServiceBcrypt хранит пароли как bcrypt-хэши с настраиваемой стоимостью.
type ServiceBcrypt struct {
	cost int
}

var _ svc.PasswordService = (*ServiceBcrypt)(nil)

// NewBcrypt создает сервис. Стоимость вне допустимого диапазона заменяется bcrypt.DefaultCost.
func NewBcrypt(cost int) *ServiceBcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceBcrypt{cost: cost}
}

// Hash строит хэш пароля. Длина проверяется здесь же, чтобы bcrypt не молча
// обрезал пароль и не отказывал с собственной ошибкой.
func (s *ServiceBcrypt) Hash(_ context.Context, password string) (string, error) {
	if len(password) < services.MinPasswordLength || len(password) > services.MaxPasswordLength {
		return "", fmt.Errorf("%s: %w", errCtxHashing, services.ErrInvalidPassword)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errCtxHashing, services.ErrHashingFailed, err)
	}
	return string(digest), nil
}

// Verify сравнивает пароль с хэшем.
func (s *ServiceBcrypt) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, services.ErrInvalidPassword
	}

	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", errCtxComparing, err)
	}
}

// NeedsRehash сообщает, что хэш построен со стоимостью, отличной от текущей.
// Поврежденный хэш пересчитать нельзя, для него возвращается false.
func (s *ServiceBcrypt) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost != s.cost
}
