// Package posts содержит HTTP обработчики публикаций.
package posts

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/internal/gateway/app/dto"
	"blogcore/internal/posts/domain/entities"
	"blogcore/internal/posts/ports/api"
)

const (
	paramID       = "id"
	paramAuthorID = "authorId"

	msgPostDeleted = "post deleted"
)

// Handler содержит HTTP обработчики публикаций.
type Handler struct {
	posts api.PostUseCase
}

// NewHandler создает обработчик публикаций.
func NewHandler(posts api.PostUseCase) *Handler {
	return &Handler{posts: posts}
}

func actor(ctx fiber.Ctx) (entities.Actor, error) {
	identity, ok := web.CurrentIdentity(ctx)
	if !ok {
		return entities.Actor{}, web.ErrUnauthorized
	}
	return entities.Actor{UserID: identity.UserID, Role: identity.Role}, nil
}

// Create создает публикацию от имени текущего пользователя.
func (h *Handler) Create(ctx fiber.Ctx) error {
	author, err := actor(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(web.Context(ctx), author.UserID, api.PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return fmt.Errorf("creating post: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(post)
}

// ListPublished возвращает опубликованные записи. Доступно без авторизации.
func (h *Handler) ListPublished(ctx fiber.Ctx) error {
	return h.list(ctx, true)
}

// ListAll возвращает все записи, включая черновики. Только для администраторов.
func (h *Handler) ListAll(ctx fiber.Ctx) error {
	return h.list(ctx, false)
}

func (h *Handler) list(ctx fiber.Ctx, onlyPublished bool) error {
	page, limit := web.PageQuery(ctx)

	result, err := h.posts.List(web.Context(ctx), page, limit, onlyPublished)
	if err != nil {
		return fmt.Errorf("listing posts: %w", err)
	}
	return ctx.JSON(result)
}

// ListMine возвращает записи текущего пользователя.
func (h *Handler) ListMine(ctx fiber.Ctx) error {
	me, err := actor(ctx)
	if err != nil {
		return err
	}
	return h.listByAuthor(ctx, me.UserID)
}

// ListByAuthor возвращает записи указанного автора, включая черновики, поэтому
// доступно только самому автору и администраторам.
func (h *Handler) ListByAuthor(ctx fiber.Ctx) error {
	viewer, err := actor(ctx)
	if err != nil {
		return err
	}

	authorID := ctx.Params(paramAuthorID)
	if viewer.UserID != authorID && !viewer.Role.IsAdmin() {
		return entities.ErrForbidden
	}
	return h.listByAuthor(ctx, authorID)
}

func (h *Handler) listByAuthor(ctx fiber.Ctx, authorID string) error {
	page, limit := web.PageQuery(ctx)

	result, err := h.posts.ListByAuthor(web.Context(ctx), authorID, page, limit)
	if err != nil {
		return fmt.Errorf("listing author posts: %w", err)
	}
	return ctx.JSON(result)
}

// Get возвращает публикацию по ID. Доступно без авторизации.
func (h *Handler) Get(ctx fiber.Ctx) error {
	post, err := h.posts.FindByID(web.Context(ctx), ctx.Params(paramID))
	if err != nil {
		return fmt.Errorf("getting post: %w", err)
	}
	return ctx.JSON(post)
}

// Update меняет поля публикации.
func (h *Handler) Update(ctx fiber.Ctx) error {
	editor, err := actor(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	post, err := h.posts.Update(web.Context(ctx), ctx.Params(paramID), editor, api.PostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return ctx.JSON(post)
}

// Delete удаляет публикацию.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	editor, err := actor(ctx)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(web.Context(ctx), ctx.Params(paramID), editor); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return ctx.JSON(dto.MessageResponse{Message: msgPostDeleted})
}

// Publish делает публикацию видимой.
func (h *Handler) Publish(ctx fiber.Ctx) error {
	editor, err := actor(ctx)
	if err != nil {
		return err
	}

	post, err := h.posts.Publish(web.Context(ctx), ctx.Params(paramID), editor)
	if err != nil {
		return fmt.Errorf("publishing post: %w", err)
	}
	return ctx.JSON(post)
}

// Unpublish возвращает публикацию в черновики.
func (h *Handler) Unpublish(ctx fiber.Ctx) error {
	editor, err := actor(ctx)
	if err != nil {
		return err
	}

	post, err := h.posts.Unpublish(web.Context(ctx), ctx.Params(paramID), editor)
	if err != nil {
		return fmt.Errorf("unpublishing post: %w", err)
	}
	return ctx.JSON(post)
}
