package api

import (
	"context"

	"blogcore/internal/auth/domain/entities"
	"blogcore/pkg/pagination"
)

// ProfileUpdate содержит изменяемые поля профиля. nil означает "не менять".
type ProfileUpdate struct {
	Username *string
	Avatar   *string
}

// UserUseCase определяет операции с профилями и администрирование пользователей.
type UserUseCase interface {
	GetUserProfile(ctx context.Context, userID string) (*entities.User, error)

	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*entities.User, error)

	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	List(ctx context.Context, page, limit int) (*pagination.Page[*entities.User], error)

	UpdateRole(ctx context.Context, adminID, userID string, role entities.Role) (*entities.User, error)

	ToggleStatus(ctx context.Context, adminID, userID string) (*entities.User, error)

	Delete(ctx context.Context, adminID, userID string) error
}
