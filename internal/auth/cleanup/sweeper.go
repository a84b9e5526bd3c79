// Package cleanup периодически удаляет просроченные записи refresh-токенов.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"blogcore/pkg/clock"
	"blogcore/pkg/lock"
	"blogcore/pkg/logger"
	"blogcore/pkg/metrics"
)

const (
	// LockKey не дает нескольким экземплярам чистить таблицу в один и тот же тик.
	LockKey = "lock:cleanup:refresh_tokens"

	msgSweeperStarted = "refresh token sweeper started"
	msgSweeperStopped = "refresh token sweeper stopped"
	msgSweepSkipped   = "sweep skipped: another instance holds the lock"
	msgSweepDone      = "expired refresh tokens deleted"
	msgSweepFailed    = "refresh token sweep failed"

	errCtxSweeping = "sweeping expired refresh tokens"
)

// ExpiredDeleter удаляет записи, истекшие к моменту now.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper запускает очистку по таймеру.
type Sweeper struct {
	repo     ExpiredDeleter
	locker   *lock.Locker
	clock    clock.Clock
	interval time.Duration
	lockTTL  time.Duration
}

// NewSweeper создает очистку с заданным интервалом. lockTTL должен превышать
// ожидаемую длительность одного DELETE.
func NewSweeper(repo ExpiredDeleter, locker *lock.Locker, clk clock.Clock, interval, lockTTL time.Duration) *Sweeper {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Sweeper{
		repo:     repo,
		locker:   locker,
		clock:    clk,
		interval: interval,
		lockTTL:  lockTTL,
	}
}

// Run блокируется до отмены ctx, выполняя Sweep на каждом тике.
func (s *Sweeper) Run(ctx context.Context) {
	log := logger.Log(ctx).With(zap.String("component", "sweeper"))
	log.Info(ctx, msgSweeperStarted, zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, msgSweeperStopped)
			return
		case <-ticker.C:
			if _, _, err := s.Sweep(ctx); err != nil {
				log.Error(ctx, msgSweepFailed, zap.Error(err))
			}
		}
	}
}

// Sweep выполняет одну очистку под распределенной блокировкой.
// swept == false означает, что блокировку держит другой экземпляр.
func (s *Sweeper) Sweep(ctx context.Context) (deleted int64, swept bool, err error) {
	log := logger.Log(ctx).With(zap.String("component", "sweeper"))

	acquired, err := s.locker.WithLock(ctx, LockKey, s.lockTTL, func(ctx context.Context) error {
		n, err := s.repo.DeleteExpired(ctx, s.clock.Now())
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, acquired, fmt.Errorf("%s: %w", errCtxSweeping, err)
	}
	if !acquired {
		log.Debug(ctx, msgSweepSkipped)
		return 0, false, nil
	}

	if deleted > 0 {
		metrics.RefreshTokensCleanupDeleted.Add(float64(deleted))
		log.Info(ctx, msgSweepDone, zap.Int64("deleted", deleted))
	}
	return deleted, true, nil
}
