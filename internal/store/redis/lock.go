// Package redis provides the per-organization-name lock that serializes
// lifecycle operations across process instances. The storage-layer UNIQUE
// constraints remain the hard safety net; the lock only removes the
// avoidable races between concurrent create/rename/delete on one name.
package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when the lock could not be acquired before the
// caller's context expired.
var ErrLockTimeout = errors.New("redis: lock acquisition timed out")

const (
	lockKeyPrefix = "orglock:"
	lockRetryWait = 50 * time.Millisecond
)

// releaseScript deletes the lock key only if this holder still owns it, so a
// slow holder cannot release a lock that already expired and was re-acquired.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Locker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Locker{client: client, ttl: ttl}, nil
}

func (l *Locker) Close() error {
	if err := l.client.Close(); err != nil {
		return fmt.Errorf("redis.Locker.Close: %w", err)
	}
	return nil
}

// Acquire blocks until the lock for name is held or ctx is done. The
// returned release function is best-effort; the TTL bounds how long a
// crashed holder can block others.
func (l *Locker) Acquire(ctx context.Context, name string) (func(), error) {
	key := lockKeyPrefix + name

	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("redis.Locker.Acquire: token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis.Locker.Acquire: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis.Locker.Acquire: %w: %w", ErrLockTimeout, ctx.Err())
		case <-time.After(lockRetryWait):
		}
	}

	release := func() {
		// Release must not inherit a cancelled request context.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}

	return release, nil
}
