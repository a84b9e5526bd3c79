package web

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const msgInvalidBody = "invalid request body"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidationError - ошибка входных данных, отдается клиенту как 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Bind разбирает JSON-тело запроса в out и проверяет теги validate.
func Bind(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return &ValidationError{Message: msgInvalidBody}
	}
	return Validate(out)
}

// BindOptional ведет себя как Bind, но пустое тело допустимо.
func BindOptional(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return Validate(out)
	}
	return Bind(c, out)
}

// Validate проверяет структуру по тегам validate.
func Validate(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &ValidationError{Message: msgInvalidBody}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, describe(fe))
	}
	return &ValidationError{Message: strings.Join(messages, "; ")}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// PageQuery читает параметры page и limit. Некорректные значения заменяются нулем,
// который пагинация превращает в значение по умолчанию.
func PageQuery(c fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return page, limit
}
