// Package redis хранит реестр отозванных refresh-токенов в key-value хранилище.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	ports "blogcore/internal/auth/ports/services"
	"blogcore/pkg/kv"
	"blogcore/pkg/logger"
	"blogcore/pkg/metrics"
)

const (
	keyPrefix    = "blacklist:"
	revokedValue = "1"

	msgTokenRevoked      = "refresh token added to revocation registry"
	msgRevocationSkipped = "revocation skipped for token at natural expiry"

	errCtxRevoking       = "revoking refresh token"
	errCtxCheckingRevoke = "checking refresh token revocation"
)

// RevocationRegistry реализует ports.RevocationRegistry.
type RevocationRegistry struct {
	store kv.Store
}

var _ ports.RevocationRegistry = (*RevocationRegistry)(nil)

// NewRevocationRegistry создает реестр поверх хранилища.
func NewRevocationRegistry(store kv.Store) *RevocationRegistry {
	return &RevocationRegistry{store: store}
}

// Revoke помечает токен отозванным на ttl. При ttl <= 0 ничего не записывается:
// запись без TTL никогда бы не истекла.
func (r *RevocationRegistry) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("component", "revocation"))

	if ttl <= 0 {
		log.Debug(ctx, msgRevocationSkipped)
		return nil
	}

	if err := r.store.Set(ctx, key(token), revokedValue, ttl); err != nil {
		return fmt.Errorf("%s: %w", errCtxRevoking, err)
	}

	metrics.RefreshTokensRevoked.Inc()
	log.Debug(ctx, msgTokenRevoked, zap.Duration("ttl", ttl))
	return nil
}

// IsRevoked сообщает, находится ли токен в реестре.
func (r *RevocationRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := r.store.Get(ctx, key(token))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kv.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", errCtxCheckingRevoke, err)
	}
}

func key(token string) string {
	return keyPrefix + token
}
