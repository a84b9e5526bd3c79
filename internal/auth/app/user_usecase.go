package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
	"blogcore/internal/auth/ports/api"
	"blogcore/internal/auth/ports/repositories"
	svc "blogcore/internal/auth/ports/services"
	"blogcore/pkg/cache"
	"blogcore/pkg/lock"
	"blogcore/pkg/logger"
	"blogcore/pkg/pagination"
)

const (
	userCachePrefix = "user:"

	methodGetUserProfile = "GetUserProfile"
	methodUpdateProfile  = "UpdateProfile"
	methodChangePassword = "ChangePassword"
	methodListUsers      = "List"
	methodUpdateRole     = "UpdateRole"
	methodToggleStatus   = "ToggleStatus"
	methodDeleteUser     = "Delete"

	msgGettingUserProfile = "getting user profile"
	msgProfileUpdated     = "user profile updated"
	msgPasswordChanged    = "password changed, all sessions terminated"
	msgWrongOldPassword   = "old password does not match"
	msgRoleUpdated        = "user role updated"
	msgStatusToggled      = "user status toggled"
	msgUserDeleted        = "user deleted"
	msgStatusLockBusy     = "status change already in progress"
	msgAdminDenied        = "admin operation denied"

	msgErrGetUserProfile = "failed to get user profile"
	msgErrInvalidateUser = "failed to invalidate user cache"

	errCtxGettingProfile   = "getting user profile"
	errCtxUpdatingUser     = "updating user"
	errCtxDeletingUser     = "deleting user"
	errCtxListingUsers     = "listing users"
	errCtxInvalidatingUser = "invalidating user cache"
	errCtxAuthorizingAdmin = "authorizing admin"
	errCtxTerminating      = "terminating sessions"
	errCtxStatusLock       = "locking user status"
)

// SessionTerminator завершает сессии пользователя.
type SessionTerminator interface {
	Logout(ctx context.Context, userID, refreshToken string) error
}

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	sessions    SessionTerminator
	cache       *cache.Cache
	locker      *lock.Locker
	profileTTL  time.Duration
	lockTTL     time.Duration
}

var _ api.UserUseCase = (*UserUseCaseImpl)(nil)

// NewUserUseCase создает сервис пользователей.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	sessions SessionTerminator,
	c *cache.Cache,
	locker *lock.Locker,
	profileTTL, lockTTL time.Duration,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		sessions:    sessions,
		cache:       c,
		locker:      locker,
		profileTTL:  profileTTL,
		lockTTL:     lockTTL,
	}
}

func userCacheKey(id string) string {
	return userCachePrefix + id
}

func statusLockKey(id string) string {
	return "lock:user:" + id + ":status"
}

// GetUserProfile возвращает профиль пользователя, кэшируя его на profileTTL.
func (u *UserUseCaseImpl) GetUserProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUserProfile), zap.String("userID", userID))
	log.Debug(ctx, msgGettingUserProfile)

	user, err := cache.GetOrCompute(ctx, u.cache, userCacheKey(userID), u.profileTTL,
		func(ctx context.Context) (*entities.User, error) {
			return u.userRepo.FindByID(ctx, userID)
		})
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrGetUserProfile, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxGettingProfile, err)
	}

	return user, nil
}

// UpdateProfile меняет имя и аватар пользователя.
func (u *UserUseCaseImpl) UpdateProfile(ctx context.Context, userID string, update api.ProfileUpdate) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateProfile), zap.String("userID", userID))

	if update.Username != nil && strings.TrimSpace(*update.Username) == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}

	updated, err := u.mutate(ctx, userID, func(user *entities.User) error {
		if update.Username != nil {
			user.Username = *update.Username
		}
		if update.Avatar != nil {
			user.Avatar = update.Avatar
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgProfileUpdated)
	return updated, nil
}

// ChangePassword проверяет старый пароль, сохраняет новый и завершает все сессии пользователя.
func (u *UserUseCaseImpl) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	log := logger.Log(ctx).With(zap.String("method", methodChangePassword), zap.String("userID", userID))

	if err := services.CheckPasswordPolicy(newPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	_, err := u.mutate(ctx, userID, func(user *entities.User) error {
		valid, err := u.passwordSvc.Verify(ctx, oldPassword, user.PasswordHash)
		if err != nil && !errors.Is(err, services.ErrInvalidPassword) {
			return fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
		}
		if !valid {
			log.Debug(ctx, msgWrongOldPassword)
			return fmt.Errorf("%s: %w", errCtxVerifyingPassword, services.ErrInvalidPassword)
		}

		hash, err := u.passwordSvc.Hash(ctx, newPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		user.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}

	if err := u.sessions.Logout(ctx, userID, ""); err != nil {
		return fmt.Errorf("%s: %w", errCtxTerminating, err)
	}

	log.Info(ctx, msgPasswordChanged)
	return nil
}

// List возвращает страницу пользователей. Результат не кэшируется.
func (u *UserUseCaseImpl) List(ctx context.Context, page, limit int) (*pagination.Page[*entities.User], error) {
	log := logger.Log(ctx).With(zap.String("method", methodListUsers))

	page, limit, offset := pagination.Normalize(page, limit)

	users, total, err := u.userRepo.List(ctx, offset, limit)
	if err != nil {
		log.Error(ctx, errCtxListingUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	return pagination.NewPage(users, total, page, limit), nil
}

// UpdateRole меняет роль пользователя. Доступно только SUPER_ADMIN.
func (u *UserUseCaseImpl) UpdateRole(ctx context.Context, adminID, userID string, role entities.Role) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateRole), zap.String("adminID", adminID), zap.String("userID", userID))

	if _, err := entities.ParseRole(string(role)); err != nil {
		return nil, err
	}
	if err := u.authorizeAdmin(ctx, adminID, userID, entities.RoleSuperAdmin); err != nil {
		return nil, err
	}

	updated, err := u.mutate(ctx, userID, func(user *entities.User) error {
		if user.Role == entities.RoleSuperAdmin {
			return services.ErrForbidden
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgRoleUpdated, zap.String("role", string(role)))
	return updated, nil
}

// ToggleStatus включает или отключает учетную запись под распределенной блокировкой.
// Отключение завершает все сессии пользователя.
func (u *UserUseCaseImpl) ToggleStatus(ctx context.Context, adminID, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodToggleStatus), zap.String("adminID", adminID), zap.String("userID", userID))

	if err := u.authorizeAdmin(ctx, adminID, userID, entities.RoleAdmin); err != nil {
		return nil, err
	}

	var updated *entities.User
	acquired, err := u.locker.WithLock(ctx, statusLockKey(userID), u.lockTTL, func(ctx context.Context) error {
		var err error
		updated, err = u.mutate(ctx, userID, func(user *entities.User) error {
			if user.Role == entities.RoleSuperAdmin {
				return services.ErrForbidden
			}
			user.IsActive = !user.IsActive
			return nil
		})
		if err != nil {
			return err
		}

		if !updated.IsActive {
			if err := u.sessions.Logout(ctx, userID, ""); err != nil {
				return fmt.Errorf("%s: %w", errCtxTerminating, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxStatusLock, err)
	}
	if !acquired {
		log.Info(ctx, msgStatusLockBusy)
		return nil, services.ErrOperationInProgress
	}

	log.Info(ctx, msgStatusToggled, zap.Bool("isActive", updated.IsActive))
	return updated, nil
}

// Delete удаляет пользователя. Доступно только SUPER_ADMIN.
func (u *UserUseCaseImpl) Delete(ctx context.Context, adminID, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.String("adminID", adminID), zap.String("userID", userID))

	if err := u.authorizeAdmin(ctx, adminID, userID, entities.RoleSuperAdmin); err != nil {
		return err
	}

	target, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if target.Role == entities.RoleSuperAdmin {
		return services.ErrForbidden
	}

	if err := u.sessions.Logout(ctx, userID, ""); err != nil {
		return fmt.Errorf("%s: %w", errCtxTerminating, err)
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	if err := u.cache.Invalidate(ctx, userCacheKey(userID)); err != nil {
		log.Error(ctx, msgErrInvalidateUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxInvalidatingUser, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}

// authorizeAdmin проверяет, что adminID существует, активен, имеет роль не ниже
// required и не пытается изменить сам себя.
func (u *UserUseCaseImpl) authorizeAdmin(ctx context.Context, adminID, userID string, required entities.Role) error {
	log := logger.Log(ctx).With(zap.String("adminID", adminID))

	if adminID == userID {
		log.Debug(ctx, msgAdminDenied, zap.String("reason", "self"))
		return services.ErrCannotModifySelf
	}

	admin, err := u.userRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return services.ErrForbidden
		}
		return fmt.Errorf("%s: %w", errCtxAuthorizingAdmin, err)
	}

	allowed := admin.Role == entities.RoleSuperAdmin || (required == entities.RoleAdmin && admin.Role.IsAdmin())
	if !admin.IsActive || !allowed {
		log.Debug(ctx, msgAdminDenied, zap.String("role", string(admin.Role)))
		return services.ErrForbidden
	}

	return nil
}

// mutate читает пользователя из хранилища, применяет apply, сохраняет и сбрасывает кэш профиля.
func (u *UserUseCaseImpl) mutate(ctx context.Context, userID string, apply func(*entities.User) error) (*entities.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := apply(user); err != nil {
		return nil, err
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	if err := u.cache.Invalidate(ctx, userCacheKey(userID)); err != nil {
		logger.Log(ctx).Error(ctx, msgErrInvalidateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidatingUser, err)
	}

	return updated, nil
}
