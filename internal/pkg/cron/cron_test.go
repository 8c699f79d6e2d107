package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautyconnect/pay_go_server/internal/pkg/lock"
	"github.com/beautyconnect/pay_go_server/internal/testutil"
)

type fakeSweeper struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakeSweeper) ExpireSweep(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.n, f.err
}

func setupLock(t *testing.T) *lock.RedisLock {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return lock.NewRedisLock(client, time.Minute)
}

func TestService_RunNow(t *testing.T) {
	sweeper := &fakeSweeper{n: 3}
	svc := NewService(sweeper, nil, "@every 1h", 0, testutil.DiscardLogger())

	n, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

func TestService_RunNow_Error(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	svc := NewService(sweeper, nil, "@every 1h", 0, testutil.DiscardLogger())

	_, err := svc.RunNow(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestService_RunNow_WithLock(t *testing.T) {
	l := setupLock(t)
	sweeper := &fakeSweeper{n: 1}
	svc := NewService(sweeper, l, "@every 1h", 0, testutil.DiscardLogger())
	ctx := context.Background()

	n, err := svc.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 锁已释放，可以再次执行
	_, err = svc.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), sweeper.calls.Load())
}

func TestService_RunNow_LockHeldElsewhere(t *testing.T) {
	l := setupLock(t)
	ctx := context.Background()

	token, err := l.Acquire(ctx, expireLockName)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sweeper := &fakeSweeper{n: 5}
	svc := NewService(sweeper, l, "@every 1h", 0, testutil.DiscardLogger())

	n, err := svc.RunNow(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, sweeper.calls.Load())
}

func TestService_StartInvalidSchedule(t *testing.T) {
	svc := NewService(&fakeSweeper{}, nil, "not a schedule", 0, testutil.DiscardLogger())
	assert.Error(t, svc.Start())
}

func TestService_StartStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	svc := NewService(sweeper, nil, "@every 1s", time.Second, testutil.DiscardLogger())

	require.NoError(t, svc.Start())

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	svc.Stop()
}
