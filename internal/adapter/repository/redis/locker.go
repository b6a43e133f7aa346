package redis

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the key only if it still holds the caller's token.
const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// Locker implements usecase.Locker with SET NX and a token-checked unlock.
type Locker struct {
	client redis.UniversalClient
}

// NewLocker creates a new Locker.
func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: client}
}

// Acquire takes the lock for ttl. ok is false when someone else holds it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := ulid.Make().String()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// Release frees the lock if token still owns it. An expired lock is not an error.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	return l.client.Eval(ctx, unlockScript, []string{key}, token).Err()
}
