// Package repositories определяет интерфейсы хранилищ публикаций.
package repositories

import (
	"context"

	"blogcore/internal/posts/domain/entities"
)

// PostRepository определяет интерфейс для работы с хранилищем публикаций.
// Все методы чтения возвращают публикацию вместе с кратким описанием автора.
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) (*entities.Post, error)

	FindByID(ctx context.Context, id string) (*entities.Post, error)

	List(ctx context.Context, offset, limit int, onlyPublished bool) ([]*entities.Post, int64, error)

	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*entities.Post, int64, error)

	Update(ctx context.Context, post *entities.Post) (*entities.Post, error)

	Delete(ctx context.Context, id string) error
}
