// Package lock реализует распределенную блокировку на SET NX и атомарном compare-and-delete.
//
// Корректность держится на том, что критическая секция короче TTL блокировки:
// упавший владелец освобождает ключ только по истечении TTL.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogcore/pkg/kv"
	"blogcore/pkg/logger"
	"blogcore/pkg/metrics"
)

const (
	msgLockAcquired  = "lock acquired"
	msgLockContended = "lock is held by another owner"
	msgLockReleased  = "lock released"
	msgLockNotOwner  = "lock release skipped: not the owner or already expired"
	msgReleaseFailed = "failed to release lock"

	errCtxAcquiring = "acquiring lock"
	errCtxReleasing = "releasing lock"
)

// ErrInvalidTTL возвращается при неположительном TTL.
var ErrInvalidTTL = errors.New("lock ttl must be positive")

// Locker выдает и снимает блокировки.
type Locker struct {
	store kv.Store
}

// New создает Locker поверх хранилища.
func New(store kv.Store) *Locker {
	return &Locker{store: store}
}

// Acquire пытается взять блокировку. При успехе возвращает токен владельца,
// при конкуренции - ok == false без ошибки.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		return "", false, ErrInvalidTTL
	}

	log := logger.Log(ctx).With(zap.String("component", "lock"), zap.String("key", key))

	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, token, ttl)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", errCtxAcquiring, err)
	}
	if !ok {
		metrics.LockOperations.WithLabelValues(metrics.ResultContended).Inc()
		log.Debug(ctx, msgLockContended)
		return "", false, nil
	}

	metrics.LockOperations.WithLabelValues(metrics.ResultAcquired).Inc()
	log.Debug(ctx, msgLockAcquired, zap.Duration("ttl", ttl))
	return token, true, nil
}

// Release снимает блокировку, только если она все еще принадлежит token.
func (l *Locker) Release(ctx context.Context, key, token string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("component", "lock"), zap.String("key", key))

	released, err := l.store.CompareAndDelete(ctx, key, token)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxReleasing, err)
	}

	if !released {
		metrics.LockOperations.WithLabelValues(metrics.ResultNotOwner).Inc()
		log.Debug(ctx, msgLockNotOwner)
		return false, nil
	}

	metrics.LockOperations.WithLabelValues(metrics.ResultReleased).Inc()
	log.Debug(ctx, msgLockReleased)
	return true, nil
}

// WithLock выполняет fn под блокировкой key. Если блокировка занята,
// fn не вызывается и возвращается acquired == false.
func (l *Locker) WithLock(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func(context.Context) error,
) (acquired bool, err error) {
	token, ok, err := l.Acquire(ctx, key, ttl)
	if err != nil || !ok {
		return false, err
	}

	defer func() {
		if _, releaseErr := l.Release(context.WithoutCancel(ctx), key, token); releaseErr != nil {
			logger.Log(ctx).Error(ctx, msgReleaseFailed, zap.String("key", key), zap.Error(releaseErr))
			if err == nil {
				err = releaseErr
			}
		}
	}()

	return true, fn(ctx)
}
