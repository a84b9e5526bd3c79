package cleanup_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcore/internal/auth/cleanup"
	"blogcore/pkg/clock"
	kvredis "blogcore/pkg/db/redis"
	"blogcore/pkg/lock"
)

var errDatabase = errors.New("database is down")

type fakeDeleter struct {
	calls   atomic.Int32
	lastNow atomic.Value
	deleted int64
	err     error
}

func (f *fakeDeleter) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	f.lastNow.Store(now)
	return f.deleted, f.err
}

func newLocker(t *testing.T) (*miniredis.Miniredis, *lock.Locker) {
	t.Helper()

	srv := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return srv, lock.New(kvredis.NewFromClient(rdb, 0))
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	srv, locker := newLocker(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeDeleter{deleted: 4}

	sweeper := cleanup.NewSweeper(repo, locker, clock.NewManual(now), time.Hour, time.Minute)

	deleted, swept, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.True(t, swept)
	assert.Equal(t, int64(4), deleted)
	assert.Equal(t, now, repo.lastNow.Load())
	assert.False(t, srv.Exists(cleanup.LockKey), "lock released after sweep")
}

func TestSweep_SkippedWhenLocked(t *testing.T) {
	ctx := context.Background()
	srv, locker := newLocker(t)
	repo := &fakeDeleter{}

	require.NoError(t, srv.Set(cleanup.LockKey, "other-instance"))

	_, swept, err := cleanup.NewSweeper(repo, locker, nil, time.Hour, time.Minute).Sweep(ctx)
	require.NoError(t, err)
	assert.False(t, swept)
	assert.Zero(t, repo.calls.Load())
}

func TestSweep_RepositoryError(t *testing.T) {
	ctx := context.Background()
	srv, locker := newLocker(t)
	repo := &fakeDeleter{err: errDatabase}

	_, _, err := cleanup.NewSweeper(repo, locker, nil, time.Hour, time.Minute).Sweep(ctx)
	require.ErrorIs(t, err, errDatabase)
	assert.False(t, srv.Exists(cleanup.LockKey))
}

func TestRun_StopsOnCancel(t *testing.T) {
	_, locker := newLocker(t)
	repo := &fakeDeleter{}
	sweeper := cleanup.NewSweeper(repo, locker, nil, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return repo.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
