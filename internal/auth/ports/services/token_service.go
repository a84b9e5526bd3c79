package services

import (
	"context"
	"time"

	"blogcore/internal/auth/domain/services"
)

// TokenService подписывает и проверяет JWT токены. Access и refresh токены
// подписываются разными секретами и не взаимозаменяемы.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID, email, role string) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, userID, email, role string) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (*services.JWTClaims, error)

	ValidateRefreshToken(ctx context.Context, token string) (*services.JWTClaims, error)

	AccessTokenTTL() time.Duration

	RefreshTokenTTL() time.Duration
}
