// Package app реализует бизнес-логику публикаций.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"blogcore/internal/posts/domain/entities"
	"blogcore/internal/posts/ports/api"
	"blogcore/internal/posts/ports/repositories"
	"blogcore/pkg/cache"
	"blogcore/pkg/logger"
	"blogcore/pkg/pagination"
)

const (
	postCachePrefix  = "post:"
	listCachePrefix  = "posts:list:"
	listCachePattern = listCachePrefix + "*"

	methodCreate       = "Create"
	methodFindByID     = "FindByID"
	methodList         = "List"
	methodListByAuthor = "ListByAuthor"
	methodUpdate       = "Update"
	methodDelete       = "Delete"
	methodPublish      = "Publish"
	methodUnpublish    = "Unpublish"

	msgPostCreated   = "post created"
	msgPostUpdated   = "post updated"
	msgPostDeleted   = "post deleted"
	msgPostForbidden = "post modification denied"
	msgErrFinding    = "failed to get post"
	msgErrListing    = "failed to list posts"

	errCtxValidating   = "validating post"
	errCtxCreating     = "creating post"
	errCtxFinding      = "getting post"
	errCtxListing      = "listing posts"
	errCtxUpdating     = "updating post"
	errCtxDeleting     = "deleting post"
	errCtxInvalidating = "invalidating post cache"
)

// PostUseCaseImpl реализует интерфейс api.PostUseCase.
type PostUseCaseImpl struct {
	postRepo repositories.PostRepository
	cache    *cache.Cache
	ttl      time.Duration
}

var _ api.PostUseCase = (*PostUseCaseImpl)(nil)

// NewPostUseCase создает сервис публикаций. Публикации и страницы списка кэшируются на ttl.
func NewPostUseCase(postRepo repositories.PostRepository, c *cache.Cache, ttl time.Duration) *PostUseCaseImpl {
	return &PostUseCaseImpl{postRepo: postRepo, cache: c, ttl: ttl}
}

func postCacheKey(id string) string {
	return postCachePrefix + id
}

func listCacheKey(page, limit int, onlyPublished bool) string {
	return fmt.Sprintf("%s%d:%d:%t", listCachePrefix, page, limit, onlyPublished)
}

// Create сохраняет новую публикацию и сбрасывает кэш списков.
func (p *PostUseCaseImpl) Create(ctx context.Context, authorID string, input api.PostInput) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("authorID", authorID))

	if authorID == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrEmptyAuthorID)
	}
	if err := entities.ValidateTitle(input.Title); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	post, err := p.postRepo.Create(ctx, &entities.Post{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		AuthorID:  authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreating, err)
	}

	if _, err := p.cache.InvalidateByPattern(ctx, listCachePattern); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidating, err)
	}

	log.Info(ctx, msgPostCreated, zap.String("postID", post.ID))
	return post, nil
}

// FindByID возвращает публикацию, кэшируя ее на ttl.
func (p *PostUseCaseImpl) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrEmptyPostID)
	}

	post, err := cache.GetOrCompute(ctx, p.cache, postCacheKey(id), p.ttl,
		func(ctx context.Context) (*entities.Post, error) {
			return p.postRepo.FindByID(ctx, id)
		})
	if err != nil {
		if !errors.Is(err, entities.ErrPostNotFound) {
			logger.Log(ctx).Error(ctx, msgErrFinding, zap.String("method", methodFindByID), zap.String("postID", id), zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFinding, err)
	}

	return post, nil
}

// List возвращает страницу публикаций. Каждая комбинация page, limit и onlyPublished
// кэшируется отдельно.
func (p *PostUseCaseImpl) List(ctx context.Context, page, limit int, onlyPublished bool) (*pagination.Page[*entities.Post], error) {
	page, limit, offset := pagination.Normalize(page, limit)

	result, err := cache.GetOrCompute(ctx, p.cache, listCacheKey(page, limit, onlyPublished), p.ttl,
		func(ctx context.Context) (*pagination.Page[*entities.Post], error) {
			posts, total, err := p.postRepo.List(ctx, offset, limit, onlyPublished)
			if err != nil {
				return nil, err
			}
			return pagination.NewPage(posts, total, page, limit), nil
		})
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrListing, zap.String("method", methodList), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListing, err)
	}

	return result, nil
}

// ListByAuthor возвращает страницу публикаций автора, включая черновики. Результат не кэшируется.
func (p *PostUseCaseImpl) ListByAuthor(ctx context.Context, authorID string, page, limit int) (*pagination.Page[*entities.Post], error) {
	page, limit, offset := pagination.Normalize(page, limit)

	posts, total, err := p.postRepo.ListByAuthor(ctx, authorID, offset, limit)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrListing, zap.String("method", methodListByAuthor), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListing, err)
	}

	return pagination.NewPage(posts, total, page, limit), nil
}

// Update меняет заголовок, текст или статус публикации.
func (p *PostUseCaseImpl) Update(ctx context.Context, id string, actor entities.Actor, update api.PostUpdate) (*entities.Post, error) {
	if update.Title != nil {
		if err := entities.ValidateTitle(*update.Title); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
		}
	}

	return p.mutate(ctx, methodUpdate, id, actor, func(post *entities.Post) {
		if update.Title != nil {
			post.Title = *update.Title
		}
		if update.Content != nil {
			post.Content = *update.Content
		}
		if update.Published != nil {
			post.Published = *update.Published
		}
	})
}

// Publish делает публикацию видимой в общем списке.
func (p *PostUseCaseImpl) Publish(ctx context.Context, id string, actor entities.Actor) (*entities.Post, error) {
	return p.mutate(ctx, methodPublish, id, actor, func(post *entities.Post) { post.Published = true })
}

// Unpublish возвращает публикацию в черновики.
func (p *PostUseCaseImpl) Unpublish(ctx context.Context, id string, actor entities.Actor) (*entities.Post, error) {
	return p.mutate(ctx, methodUnpublish, id, actor, func(post *entities.Post) { post.Published = false })
}

// Delete удаляет публикацию. Доступно автору и администраторам.
func (p *PostUseCaseImpl) Delete(ctx context.Context, id string, actor entities.Actor) error {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("postID", id), zap.String("userID", actor.UserID))

	if _, err := p.authorize(ctx, id, actor); err != nil {
		return err
	}

	if err := p.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeleting, err)
	}

	if err := p.invalidate(ctx, id); err != nil {
		return err
	}

	log.Info(ctx, msgPostDeleted)
	return nil
}

// authorize читает публикацию из хранилища, минуя кэш, и проверяет права actor.
func (p *PostUseCaseImpl) authorize(ctx context.Context, id string, actor entities.Actor) (*entities.Post, error) {
	post, err := p.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFinding, err)
	}

	if !actor.CanModify(post) {
		logger.Log(ctx).Debug(ctx, msgPostForbidden,
			zap.String("postID", id), zap.String("userID", actor.UserID), zap.String("role", string(actor.Role)))
		return nil, entities.ErrForbidden
	}

	return post, nil
}

// mutate проверяет права, применяет apply, сохраняет публикацию и сбрасывает кэш.
func (p *PostUseCaseImpl) mutate(ctx context.Context, method, id string, actor entities.Actor, apply func(*entities.Post)) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("postID", id), zap.String("userID", actor.UserID))

	post, err := p.authorize(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	apply(post)

	updated, err := p.postRepo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdating, err)
	}

	if err := p.invalidate(ctx, id); err != nil {
		return nil, err
	}

	log.Info(ctx, msgPostUpdated, zap.Bool("published", updated.Published))
	return updated, nil
}

func (p *PostUseCaseImpl) invalidate(ctx context.Context, id string) error {
	if err := p.cache.Invalidate(ctx, postCacheKey(id)); err != nil {
		return fmt.Errorf("%s: %w", errCtxInvalidating, err)
	}
	if _, err := p.cache.InvalidateByPattern(ctx, listCachePattern); err != nil {
		return fmt.Errorf("%s: %w", errCtxInvalidating, err)
	}
	return nil
}
