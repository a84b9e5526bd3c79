// Package users содержит HTTP обработчики профиля и администрирования пользователей.
package users

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/ports/api"
	"blogcore/internal/gateway/adapters/http/web"
	"blogcore/internal/gateway/app/dto"
)

const (
	paramID = "id"

	msgPasswordChanged = "password changed"
	msgUserDeleted     = "user deleted"
)

// Handler содержит HTTP обработчики пользователей.
type Handler struct {
	users api.UserUseCase
}

// NewHandler создает обработчик пользователей.
func NewHandler(users api.UserUseCase) *Handler {
	return &Handler{users: users}
}

func identity(ctx fiber.Ctx) (web.Identity, error) {
	id, ok := web.CurrentIdentity(ctx)
	if !ok {
		return web.Identity{}, web.ErrUnauthorized
	}
	return id, nil
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	user, err := h.users.GetUserProfile(web.Context(ctx), me.UserID)
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}
	return ctx.JSON(user)
}

// UpdateMe меняет имя и аватар текущего пользователя.
func (h *Handler) UpdateMe(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(web.Context(ctx), me.UserID, api.ProfileUpdate{
		Username: req.Username,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return ctx.JSON(user)
}

// ChangePassword меняет пароль текущего пользователя и завершает все его сессии.
func (h *Handler) ChangePassword(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(web.Context(ctx), me.UserID, req.OldPassword, req.NewPassword); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return ctx.JSON(dto.MessageResponse{Message: msgPasswordChanged})
}

// List возвращает страницу пользователей.
func (h *Handler) List(ctx fiber.Ctx) error {
	page, limit := web.PageQuery(ctx)

	result, err := h.users.List(web.Context(ctx), page, limit)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	return ctx.JSON(result)
}

// Get возвращает пользователя по ID.
func (h *Handler) Get(ctx fiber.Ctx) error {
	user, err := h.users.GetUserProfile(web.Context(ctx), ctx.Params(paramID))
	if err != nil {
		return fmt.Errorf("getting user: %w", err)
	}
	return ctx.JSON(user)
}

// UpdateRole меняет роль пользователя.
func (h *Handler) UpdateRole(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateRoleRequest
	if err := web.Bind(ctx, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateRole(web.Context(ctx), me.UserID, ctx.Params(paramID), entities.Role(req.Role))
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	return ctx.JSON(user)
}

// ToggleStatus включает или отключает учетную запись.
func (h *Handler) ToggleStatus(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	user, err := h.users.ToggleStatus(web.Context(ctx), me.UserID, ctx.Params(paramID))
	if err != nil {
		return fmt.Errorf("toggling status: %w", err)
	}
	return ctx.JSON(user)
}

// Delete удаляет пользователя.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	me, err := identity(ctx)
	if err != nil {
		return err
	}

	if err := h.users.Delete(web.Context(ctx), me.UserID, ctx.Params(paramID)); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return ctx.JSON(dto.MessageResponse{Message: msgUserDeleted})
}
