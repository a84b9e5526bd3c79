package logger

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxRequestIDLength - предел длины идентификатора, принятого из заголовка клиента.
const MaxRequestIDLength = 128

type requestIDKey struct{}

// NewRequestID выдает идентификатор для запроса или фоновой операции.
func NewRequestID() string {
	return uuid.NewString()
}

// AcceptRequestID оставляет идентификатор клиента, если он пригоден для логов,
// и выдает новый в остальных случаях.
func AcceptRequestID(candidate string) string {
	if candidate == "" || len(candidate) > MaxRequestIDLength ||
		strings.ContainsFunc(candidate, func(r rune) bool { return !unicode.IsPrint(r) }) {
		return NewRequestID()
	}
	return candidate
}

// ContextWithRequestID привязывает идентификатор к контексту. Записи, сделанные
// с таким контекстом, получают поле request_id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom возвращает идентификатор, привязанный к контексту.
func RequestIDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
