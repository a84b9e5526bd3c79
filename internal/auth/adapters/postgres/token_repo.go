package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"blogcore/internal/auth/domain/services"
	"blogcore/internal/auth/ports/repositories"
	"blogcore/pkg/db/postgres"
	"blogcore/pkg/logger"
)

// TokenRepository реализует интерфейс repositories.TokenRepository для работы с Postgres.
type TokenRepository struct {
	pool postgres.PgxPoolInterface
}

var _ repositories.TokenRepository = (*TokenRepository)(nil)

// NewTokenRepository создает новый экземпляр репозитория токенов.
func NewTokenRepository(pool postgres.PgxPoolInterface) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Store сохраняет новую запись refresh-токена и заполняет ID и CreatedAt.
func (r *TokenRepository) Store(ctx context.Context, token *services.RefreshToken) error {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "Store"))

	query := `
        INSERT INTO refresh_tokens (user_id, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	if err := r.pool.QueryRow(ctx, query, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt); err != nil {
		log.Error(ctx, "error storing refresh token", zap.Error(err))
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// FindActive ищет неистекшую запись пользователя с данным токеном.
func (r *TokenRepository) FindActive(
	ctx context.Context,
	userID, token string,
	now time.Time,
) (*services.RefreshToken, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "FindActive"))

	query := `
        SELECT id, user_id, token, expires_at, created_at
        FROM refresh_tokens
        WHERE user_id = $1 AND token = $2 AND expires_at > $3
    `

	var refreshToken services.RefreshToken
	err := r.pool.QueryRow(ctx, query, userID, token, now).Scan(
		&refreshToken.ID,
		&refreshToken.UserID,
		&refreshToken.Token,
		&refreshToken.ExpiresAt,
		&refreshToken.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "active token not found")
			return nil, services.ErrTokenUnknown
		}
		log.Error(ctx, "error finding refresh token", zap.Error(err))
		return nil, fmt.Errorf("error querying refresh token: %w", err)
	}

	return &refreshToken, nil
}

// DeleteByID удаляет запись по первичному ключу. false означает, что запись
// уже удалил кто-то другой.
func (r *TokenRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "DeleteByID"))

	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting refresh token", zap.Error(err))
		return false, fmt.Errorf("error deleting refresh token: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// DeleteByUserAndToken удаляет записи пользователя с данным токеном и возвращает удаленные токены.
func (r *TokenRepository) DeleteByUserAndToken(ctx context.Context, userID, token string) ([]string, error) {
	return r.deleteReturning(ctx, "DeleteByUserAndToken",
		`DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2 RETURNING token`, userID, token)
}

// DeleteAllByUser удаляет все записи пользователя и возвращает удаленные токены.
func (r *TokenRepository) DeleteAllByUser(ctx context.Context, userID string) ([]string, error) {
	return r.deleteReturning(ctx, "DeleteAllByUser",
		`DELETE FROM refresh_tokens WHERE user_id = $1 RETURNING token`, userID)
}

// DeleteExpired удаляет записи с expires_at < now.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "DeleteExpired"))

	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		log.Error(ctx, "error cleaning up expired tokens", zap.Error(err))
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}

	log.Debug(ctx, "expired tokens cleaned up", zap.Int64("removed_count", result.RowsAffected()))
	return result.RowsAffected(), nil
}

func (r *TokenRepository) deleteReturning(ctx context.Context, method, query string, args ...any) ([]string, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", method))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error deleting refresh tokens", zap.Error(err))
		return nil, fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			log.Error(ctx, "error scanning token row", zap.Error(err))
			return nil, fmt.Errorf("error scanning token row: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating token rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating token rows: %w", err)
	}

	return tokens, nil
}
