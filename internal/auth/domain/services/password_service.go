package services

import (
	"errors"
	"regexp"

	"blogcore/internal/auth/domain/entities"
)

// Ошибки хэширования паролей.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// Границы длины пароля в байтах. bcrypt не принимает ввод длиннее 72 байт.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var (
	passwordLetter = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit  = regexp.MustCompile(`\d`)
)

// CheckPasswordPolicy проверяет новый пароль при регистрации и смене пароля.
func CheckPasswordPolicy(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return entities.ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return entities.ErrPasswordTooLong
	case !passwordLetter.MatchString(password) || !passwordDigit.MatchString(password):
		return entities.ErrPasswordTooWeak
	}
	return nil
}
