package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
	postentities "blogcore/internal/posts/domain/entities"
	"blogcore/pkg/logger"
)

const (
	msgInternalError = "internal server error"
	msgUnhandled     = "unhandled error"
	msgWriteFailed   = "failed to write error response"
)

// Ошибки HTTP-слоя.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRouteMissing = errors.New("route not found")
)

type errorMapping struct {
	target error
	status int
}

// errorMappings проверяются по порядку. ErrRefreshFailed стоит первым: причина
// отказа в ротации не раскрывается клиенту.
var errorMappings = []errorMapping{
	{services.ErrRefreshFailed, fiber.StatusUnauthorized},
	{ErrUnauthorized, fiber.StatusUnauthorized},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrUserInactive, fiber.StatusForbidden},
	{services.ErrForbidden, fiber.StatusForbidden},
	{postentities.ErrForbidden, fiber.StatusForbidden},
	{services.ErrCannotModifySelf, fiber.StatusBadRequest},
	{services.ErrInvalidPassword, fiber.StatusBadRequest},
	{services.ErrEmailAlreadyExists, fiber.StatusConflict},
	{services.ErrOperationInProgress, fiber.StatusConflict},
	{entities.ErrUserNotFound, fiber.StatusNotFound},
	{postentities.ErrPostNotFound, fiber.StatusNotFound},
	{ErrRouteMissing, fiber.StatusNotFound},
	{entities.ErrInvalidEmail, fiber.StatusBadRequest},
	{entities.ErrEmptyUsername, fiber.StatusBadRequest},
	{entities.ErrPasswordTooShort, fiber.StatusBadRequest},
	{entities.ErrPasswordTooWeak, fiber.StatusBadRequest},
	{entities.ErrPasswordTooLong, fiber.StatusBadRequest},
	{entities.ErrInvalidRole, fiber.StatusBadRequest},
	{postentities.ErrEmptyTitle, fiber.StatusBadRequest},
	{postentities.ErrTitleTooLong, fiber.StatusBadRequest},
	{postentities.ErrEmptyAuthorID, fiber.StatusBadRequest},
	{postentities.ErrEmptyPostID, fiber.StatusBadRequest},
}

// Status возвращает HTTP-статус и текст для клиента. Для неизвестных ошибок
// текст обобщенный, чтобы не раскрывать внутренние подробности.
func Status(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.target.Error()
		}
	}

	return fiber.StatusInternalServerError, msgInternalError
}

// ErrorHandler - обработчик ошибок fiber, отдающий {"error": "..."}.
func ErrorHandler(c fiber.Ctx, err error) error {
	ctx := Context(c)
	status, message := Status(err)

	if status >= fiber.StatusInternalServerError {
		logger.Log(ctx).Error(ctx, msgUnhandled, zap.String("path", c.Path()), zap.Error(err))
	}

	if writeErr := c.Status(status).JSON(fiber.Map{"error": message}); writeErr != nil {
		logger.Log(ctx).Error(ctx, msgWriteFailed, zap.Error(writeErr))
		return writeErr
	}
	return nil
}
