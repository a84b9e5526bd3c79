package config

import (
	"errors"
	"time"

	"blogcore/internal/auth/domain/services"
	"blogcore/pkg/duration"
)

// ErrSameSecrets возвращается, если access и refresh токены подписываются одним секретом.
var ErrSameSecrets = errors.New("access and refresh secrets must differ")

// JWTConfig содержит настройки для JWT токенов. Сроки жизни задаются в
// формате <число><s|m|h|d>; некорректное значение трактуется как 1h.
type JWTConfig struct {
	AccessSecret    string `env:"JWT_SECRET" env-required:"true"`
	RefreshSecret   string `env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessTokenTTL  string `env:"JWT_EXPIRES_IN" env-default:"15m"`
	RefreshTokenTTL string `env:"JWT_REFRESH_EXPIRES_IN" env-default:"7d"`
	Issuer          string `env:"JWT_ISSUER" env-default:"blogcore"`
	BCryptCost      int    `env:"BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает продолжительность времени жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	return duration.Parse(c.AccessTokenTTL)
}

// GetRefreshTokenTTL возвращает продолжительность времени жизни refresh токена.
func (c *JWTConfig) GetRefreshTokenTTL() time.Duration {
	return duration.Parse(c.RefreshTokenTTL)
}

// DomainConfig проверяет секреты и возвращает доменную конфигурацию JWT.
func (c *JWTConfig) DomainConfig() (services.JWTConfig, error) {
	if c.AccessSecret == c.RefreshSecret {
		return services.JWTConfig{}, ErrSameSecrets
	}
	return services.JWTConfig{
		AccessSecret:    []byte(c.AccessSecret),
		RefreshSecret:   []byte(c.RefreshSecret),
		AccessTokenTTL:  c.GetAccessTokenTTL(),
		RefreshTokenTTL: c.GetRefreshTokenTTL(),
		Issuer:          c.Issuer,
	}, nil
}
