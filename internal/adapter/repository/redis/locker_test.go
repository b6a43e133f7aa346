package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock:recon", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = locker.Acquire(ctx, "lock:recon", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	require.NoError(t, locker.Release(ctx, "lock:recon", token))
	assert.False(t, mr.Exists("lock:recon"))

	_, ok, err = locker.Acquire(ctx, "lock:recon", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ReleaseWithStaleTokenKeepsLock(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock:recon", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(ctx, "lock:recon", "someone-else"))

	held, err := mr.Get("lock:recon")
	require.NoError(t, err)
	assert.Equal(t, token, held)
}

func TestLocker_Expires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	_, ok, err := locker.Acquire(ctx, "lock:recon", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = locker.Acquire(ctx, "lock:recon", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be acquirable")
}

func TestLocker_RedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db)
	boom := errors.New("connection refused")

	mock.Regexp().ExpectSetNX("lock:recon", `.+`, time.Minute).SetErr(boom)
	mock.ExpectEval(unlockScript, []string{"lock:recon"}, "tok").SetErr(boom)

	_, ok, err := locker.Acquire(context.Background(), "lock:recon", time.Minute)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)

	assert.ErrorIs(t, locker.Release(context.Background(), "lock:recon", "tok"), boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
