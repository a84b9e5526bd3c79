// Package api определяет входные порты сервиса публикаций.
package api

import (
	"context"

	"blogcore/internal/posts/domain/entities"
	"blogcore/pkg/pagination"
)

// PostInput содержит поля новой публикации.
type PostInput struct {
	Title     string
	Content   string
	Published bool
}

// PostUpdate содержит изменяемые поля публикации. nil означает "не менять".
type PostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
}

// PostUseCase определяет операции с публикациями.
type PostUseCase interface {
	Create(ctx context.Context, authorID string, input PostInput) (*entities.Post, error)

	FindByID(ctx context.Context, id string) (*entities.Post, error)

	List(ctx context.Context, page, limit int, onlyPublished bool) (*pagination.Page[*entities.Post], error)

	ListByAuthor(ctx context.Context, authorID string, page, limit int) (*pagination.Page[*entities.Post], error)

	Update(ctx context.Context, id string, actor entities.Actor, update PostUpdate) (*entities.Post, error)

	Delete(ctx context.Context, id string, actor entities.Actor) error

	Publish(ctx context.Context, id string, actor entities.Actor) (*entities.Post, error)

	Unpublish(ctx context.Context, id string, actor entities.Actor) (*entities.Post, error)
}
