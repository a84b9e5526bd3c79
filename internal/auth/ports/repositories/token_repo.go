package repositories

import (
	"context"
	"time"

	"blogcore/internal/auth/domain/services"
)

// TokenRepository хранит записи о выданных refresh-токенах.
// Запись создается при выдаче и удаляется при ротации или выходе, но никогда не изменяется.
type TokenRepository interface {
	Store(ctx context.Context, token *services.RefreshToken) error

	// FindActive ищет запись пользователя с данным токеном и expires_at > now.
	FindActive(ctx context.Context, userID, token string, now time.Time) (*services.RefreshToken, error)

	// DeleteByID удаляет запись по первичному ключу и сообщает, была ли она удалена
	// именно этим вызовом.
	DeleteByID(ctx context.Context, id string) (bool, error)

	DeleteByUserAndToken(ctx context.Context, userID, token string) ([]string, error)

	DeleteAllByUser(ctx context.Context, userID string) ([]string, error)

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
