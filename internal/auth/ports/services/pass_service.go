package services

import "context"

// PasswordService хэширует и проверяет пароли пользователей.
//
// Verify возвращает (false, nil) для неверного пароля, ошибка означает пустой ввод
// или поврежденный хэш. NeedsRehash сообщает, что хэш построен с другой стоимостью
// и при следующем успешном входе его стоит пересчитать.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
	NeedsRehash(hash string) bool
}
