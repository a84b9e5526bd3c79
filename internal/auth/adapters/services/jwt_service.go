package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogcore/internal/auth/domain/services"
	svc "blogcore/internal/auth/ports/services"
	"blogcore/pkg/clock"
	"blogcore/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateToken     = "generateToken"
	methodValidateToken     = "validateToken"
	msgGeneratingToken      = "generating token"
	msgValidatingToken      = "validating token"
	msgTokenGenerated       = "token generated successfully"
	msgTokenValidated       = "token validated successfully"
	msgInvalidToken         = "invalid token format"
	msgTokenExpired         = "token has expired"
	msgEmptySecret          = "empty secret key provided"
	msgEmptySubject         = "sub claim is empty"
	errSigningToken         = "error signing token" //nolint:gosec
	errParsingToken         = "error parsing token" //nolint:gosec
	errCtxGeneratingToken   = "generating token"
	errCtxParsingToken      = "parsing token"
	errCtxValidatingToken   = "validating token"
	kindAccess, kindRefresh = "access", "refresh"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService.
type ServiceJWT struct {
	config services.JWTConfig
	clock  clock.Clock
}

var _ svc.TokenService = (*ServiceJWT)(nil)

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(config services.JWTConfig, clk clock.Clock) *ServiceJWT {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &ServiceJWT{config: config, clock: clk}
}

// AccessTokenTTL возвращает срок жизни access-токена.
func (s *ServiceJWT) AccessTokenTTL() time.Duration { return s.config.AccessTokenTTL }

// RefreshTokenTTL возвращает срок жизни refresh-токена.
func (s *ServiceJWT) RefreshTokenTTL() time.Duration { return s.config.RefreshTokenTTL }

// GenerateAccessToken генерирует JWT токен доступа.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID, email, role string) (string, time.Time, error) {
	return s.generate(ctx, kindAccess, s.config.AccessSecret, s.config.AccessTokenTTL, userID, email, role)
}

// GenerateRefreshToken генерирует refresh токен.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, userID, email, role string) (string, time.Time, error) {
	return s.generate(ctx, kindRefresh, s.config.RefreshSecret, s.config.RefreshTokenTTL, userID, email, role)
}

// ValidateAccessToken проверяет подпись и срок действия access-токена.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, token string) (*services.JWTClaims, error) {
	return s.validate(ctx, kindAccess, s.config.AccessSecret, token)
}

// ValidateRefreshToken проверяет подпись и срок действия refresh-токена.
func (s *ServiceJWT) ValidateRefreshToken(ctx context.Context, token string) (*services.JWTClaims, error) {
	return s.validate(ctx, kindRefresh, s.config.RefreshSecret, token)
}

func (s *ServiceJWT) generate(
	ctx context.Context,
	kind string,
	secret []byte,
	ttl time.Duration,
	userID, email, role string,
) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateToken),
		zap.String("kind", kind),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingToken)

	if len(secret) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := s.clock.Now()
	// exp в JWT хранится с точностью до секунды, запись в базе должна совпадать с ним.
	expiresAt := now.Add(ttl).Truncate(time.Second)

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

func (s *ServiceJWT) validate(ctx context.Context, kind string, secret []byte, tokenString string) (*services.JWTClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateToken), zap.String("kind", kind))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	if claims.Subject == "" {
		log.Debug(ctx, msgEmptySubject)
		return nil, fmt.Errorf("%s: %w: empty sub", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.Subject))
	return toDomainClaims(claims), nil
}

func toDomainClaims(claims *Claims) *services.JWTClaims {
	var expiresAt, issuedAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &services.JWTClaims{
		ID:        claims.ID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
}
